package rest

import (
	"fmt"
	"time"

	"github.com/sara-n6/HoMee/core"
)

const dateLayout = "2006-01-02"

// TaskOut is the wire shape of a task. Field order matters: the frontend
// asserts on the exact key sequence.
type TaskOut struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Status    string  `json:"status"`
	EndDate   *string `json:"end_date"`
	CreatedAt string  `json:"created_at"`
	FromToday string  `json:"from_today"`
	User      UserOut `json:"user"`
}

type UserOut struct {
	Name string `json:"name"`
}

type MetaOut struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

type TaskPageOut struct {
	Tasks []TaskOut `json:"tasks"`
	Meta  MetaOut   `json:"meta"`
}

func ToTaskOut(t core.Task, now time.Time) TaskOut {
	var endDate *string
	if t.EndDate != nil {
		s := t.EndDate.Format(dateLayout)
		endDate = &s
	}

	return TaskOut{
		ID:        t.ID,
		Title:     t.Title,
		Body:      t.Body,
		Status:    t.Status.String(),
		EndDate:   endDate,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		FromToday: fromToday(t.CreatedAt, now),
		User:      UserOut{Name: t.UserName},
	}
}

func ToTaskListOut(tasks []core.Task, now time.Time) []TaskOut {
	out := make([]TaskOut, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskOut(t, now))
	}
	return out
}

func ToTaskPageOut(p core.TaskPage, now time.Time) TaskPageOut {
	return TaskPageOut{
		Tasks: ToTaskListOut(p.Tasks, now),
		Meta: MetaOut{
			CurrentPage: p.CurrentPage,
			TotalPages:  p.TotalPages,
		},
	}
}

// fromToday renders how long ago a task was created, in whole days. Both
// calendar dates are read in the same zone so a late-evening timestamp from
// storage does not shift by a day.
func fromToday(created, now time.Time) string {
	cy, cm, cd := created.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	a := time.Date(cy, cm, cd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)

	days := int(b.Sub(a).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// Inbound payloads. Absent fields stay nil and leave the stored value alone.

type PatchTaskIn struct {
	Title         *string `json:"title,omitempty"`
	Body          *string `json:"body,omitempty"`
	Status        *string `json:"status,omitempty"` // unsaved|draft|published
	EndDate       *string `json:"end_date,omitempty"`
	CompletedDate *string `json:"completed_date,omitempty"`
}

type BatchCompleteIn struct {
	IDs []int64 `json:"ids"`
}
