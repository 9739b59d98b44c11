package core

import "time"

type TaskStatus int16

const (
	StatusUnsaved   TaskStatus = 10
	StatusDraft     TaskStatus = 20
	StatusPublished TaskStatus = 30
)

func (s TaskStatus) String() string {
	switch s {
	case StatusUnsaved:
		return "unsaved"
	case StatusDraft:
		return "draft"
	case StatusPublished:
		return "published"
	default:
		return "unknown"
	}
}

func ParseStatus(s string) (TaskStatus, bool) {
	switch s {
	case "unsaved":
		return StatusUnsaved, true
	case "draft":
		return StatusDraft, true
	case "published":
		return StatusPublished, true
	default:
		return 0, false
	}
}

type User struct {
	ID        int64     `db:"id"`
	UID       string    `db:"uid"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type Task struct {
	ID            int64      `db:"id"`
	UserID        int64      `db:"user_id"`
	UserName      string     `db:"user_name"` // joined from users
	Title         string     `db:"title"`
	Body          string     `db:"body"`
	Status        TaskStatus `db:"status"`
	EndDate       *time.Time `db:"end_date"`       // Nil when no deadline set
	CompletedDate *time.Time `db:"completed_date"` // Nil while in progress
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}
