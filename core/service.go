package core

import (
	"context"
	"errors"
	"strings"
	"time"
)

const DefaultPageSize = 10

type Service struct {
	db       DB
	pageSize int
}

func NewService(db DB, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		db:       db,
		pageSize: pageSize,
	}
}

func isValidStatus(st TaskStatus) bool {
	return st == StatusUnsaved || st == StatusDraft || st == StatusPublished
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dateValue collapses a time to its calendar date as a comparable int.
// Comparing these instead of instants keeps a UTC-parsed wire date and the
// server's local clock on the same footing.
func dateValue(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

func sameDay(a, b time.Time) bool {
	return dateValue(a) == dateValue(b)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// CreateUnsaved returns the owner's existing unsaved task or creates one.
// The partial unique index on (user_id) where status = unsaved closes the
// check-then-create race; losing the race means another request just created
// the row we wanted, so we re-read it.
func (s *Service) CreateUnsaved(ctx context.Context, ownerID int64) (Task, error) {
	if ownerID <= 0 {
		return Task{}, ErrBadArguments
	}

	t, err := s.db.FindUnsaved(ctx, ownerID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrTaskNotFound) {
		return Task{}, err
	}

	t, err = s.db.CreateUnsaved(ctx, ownerID)
	if err == nil {
		return t, nil
	}
	if errors.Is(err, ErrUnsavedExists) {
		t, err = s.db.FindUnsaved(ctx, ownerID)
		if errors.Is(err, ErrTaskNotFound) {
			return Task{}, ErrUnsavedExists
		}
		return t, err
	}
	return Task{}, err
}

type TaskPatch struct {
	Title         *string
	Body          *string
	Status        *TaskStatus
	EndDate       *time.Time
	CompletedDate *time.Time
}

func (p TaskPatch) empty() bool {
	return p.Title == nil && p.Body == nil && p.Status == nil &&
		p.EndDate == nil && p.CompletedDate == nil
}

// Update loads the task scoped to its owner, applies the patch and re-checks
// the lifecycle rules for the resulting state. Nothing is persisted on a
// validation failure.
func (s *Service) Update(ctx context.Context, ownerID, id int64, p TaskPatch) (Task, error) {
	if ownerID <= 0 || id <= 0 {
		return Task{}, ErrBadArguments
	}
	if p.empty() {
		return Task{}, ErrBadArguments
	}

	cur, err := s.db.GetTask(ctx, ownerID, id)
	if err != nil {
		return Task{}, err // ErrTaskNotFound covers foreign owners too
	}

	now := time.Now()

	if p.Status != nil {
		if !isValidStatus(*p.Status) {
			return Task{}, ErrBadArguments
		}
		if *p.Status == StatusUnsaved && cur.Status != StatusUnsaved {
			return Task{}, &ValidationError{Field: "status", Message: "status cannot return to unsaved"}
		}
		cur.Status = *p.Status
	}
	if p.Title != nil {
		cur.Title = strings.TrimSpace(*p.Title)
	}
	if p.Body != nil {
		cur.Body = strings.TrimSpace(*p.Body)
	}
	if p.EndDate != nil {
		d := dateOnly(*p.EndDate)
		if dateValue(d) <= dateValue(now) {
			return Task{}, &ValidationError{Field: "end_date", Message: "end date must be in the future"}
		}
		cur.EndDate = &d
	}
	if p.CompletedDate != nil {
		d := dateOnly(*p.CompletedDate)
		if cur.CompletedDate != nil {
			if !sameDay(*cur.CompletedDate, d) {
				return Task{}, &ValidationError{Field: "completed_date", Message: "completed date cannot be changed"}
			}
		} else {
			if dateValue(d) > dateValue(now) {
				return Task{}, &ValidationError{Field: "completed_date", Message: "completed date cannot be in the future"}
			}
			cur.CompletedDate = &d
		}
	}

	if cur.Status == StatusPublished {
		if cur.Title == "" {
			return Task{}, &ValidationError{Field: "title", Message: "title required"}
		}
		if cur.Body == "" {
			return Task{}, &ValidationError{Field: "body", Message: "body required"}
		}
	}

	return s.db.UpdateTask(ctx, cur)
}

// ListForOwner returns the owner's non-unsaved tasks, newest first.
func (s *Service) ListForOwner(ctx context.Context, ownerID int64, f ListFilter) ([]Task, error) {
	if ownerID <= 0 {
		return nil, ErrBadArguments
	}
	return s.db.ListTasks(ctx, ownerID, f)
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (Task, error) {
	if ownerID <= 0 || id <= 0 {
		return Task{}, ErrBadArguments
	}
	return s.db.GetTask(ctx, ownerID, id)
}

// BatchComplete stamps today's date on every listed task the owner holds.
// Ids belonging to someone else simply match nothing.
func (s *Service) BatchComplete(ctx context.Context, ownerID int64, ids []int64) error {
	if ownerID <= 0 {
		return ErrBadArguments
	}
	if len(ids) == 0 {
		return nil
	}
	return s.db.BatchComplete(ctx, ownerID, ids, dateOnly(time.Now()))
}

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if ownerID <= 0 || id <= 0 {
		return ErrBadArguments
	}
	return s.db.DeleteTask(ctx, ownerID, id)
}

// ListPublished is the public feed: published tasks from all owners, newest
// first, in fixed-size pages. TotalPages is computed from a row count taken
// at query time.
func (s *Service) ListPublished(ctx context.Context, page int) (TaskPage, error) {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * s.pageSize
	tasks, total, err := s.db.ListPublished(ctx, s.pageSize, offset)
	if err != nil {
		return TaskPage{}, err
	}

	return TaskPage{
		Tasks:       tasks,
		CurrentPage: page,
		TotalPages:  (total + s.pageSize - 1) / s.pageSize,
	}, nil
}

func (s *Service) GetPublished(ctx context.Context, id int64) (Task, error) {
	if id <= 0 {
		return Task{}, ErrBadArguments
	}
	return s.db.GetPublished(ctx, id)
}
