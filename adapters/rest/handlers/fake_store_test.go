package handlers_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sara-n6/HoMee/core"
)

// fakeStore backs the handler tests: core.DB plus core.Authenticator in one
// in-memory implementation.
type fakeStore struct {
	mu sync.RWMutex

	nextUserID int64
	nextTaskID int64

	users map[int64]core.User
	tasks map[int64]core.Task

	// race knobs, mirroring the core fake: hide the unsaved row from the
	// next existence check, and drop the winner's row on a conflicting insert
	hideUnsavedOnce       bool
	dropUnsavedOnConflict bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextUserID: 1,
		nextTaskID: 1,
		users:      make(map[int64]core.User),
		tasks:      make(map[int64]core.Task),
	}
}

func (s *fakeStore) addUser(name, uid string) core.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextUserID
	s.nextUserID++

	u := core.User{ID: id, UID: uid, Name: name, CreatedAt: time.Now()}
	s.users[id] = u
	return u
}

func (s *fakeStore) putTask(t core.Task) core.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextTaskID
	s.nextTaskID++

	t.ID = id
	if u, ok := s.users[t.UserID]; ok {
		t.UserName = u.Name
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = t.CreatedAt
	s.tasks[id] = t
	return t
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func (s *fakeStore) Resolve(_ context.Context, ident core.Identity) (core.User, error) {
	if ident.AccessToken == "" || ident.Client == "" || ident.UID == "" {
		return core.User{}, core.ErrUnauthorized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.UID == ident.UID {
			return u, nil
		}
	}
	return core.User{}, core.ErrUnauthorized
}

func (s *fakeStore) GetUserByUID(_ context.Context, uid string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.UID == uid {
			return u, nil
		}
	}
	return core.User{}, core.ErrUserNotFound
}

func (s *fakeStore) FindUnsaved(_ context.Context, ownerID int64) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hideUnsavedOnce {
		s.hideUnsavedOnce = false
		return core.Task{}, core.ErrTaskNotFound
	}

	for _, t := range s.tasks {
		if t.UserID == ownerID && t.Status == core.StatusUnsaved {
			return t, nil
		}
	}
	return core.Task{}, core.ErrTaskNotFound
}

func (s *fakeStore) CreateUnsaved(_ context.Context, ownerID int64) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[ownerID]
	if !ok {
		return core.Task{}, core.ErrUserNotFound
	}
	for id, t := range s.tasks {
		if t.UserID == ownerID && t.Status == core.StatusUnsaved {
			if s.dropUnsavedOnConflict {
				delete(s.tasks, id)
			}
			return core.Task{}, core.ErrUnsavedExists
		}
	}

	id := s.nextTaskID
	s.nextTaskID++

	now := time.Now()
	t := core.Task{
		ID:        id,
		UserID:    ownerID,
		UserName:  u.Name,
		Status:    core.StatusUnsaved,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tasks[id] = t
	return t, nil
}

func (s *fakeStore) GetTask(_ context.Context, ownerID, id int64) (core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return core.Task{}, core.ErrTaskNotFound
	}
	return t, nil
}

func newestFirst(out []core.Task) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
}

func (s *fakeStore) ListTasks(_ context.Context, ownerID int64, f core.ListFilter) ([]core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.Task{}
	for _, t := range s.tasks {
		if t.UserID != ownerID || t.Status == core.StatusUnsaved {
			continue
		}
		if f.InProgress && t.CompletedDate != nil {
			continue
		}
		out = append(out, t)
	}
	newestFirst(out)
	return out, nil
}

func (s *fakeStore) UpdateTask(_ context.Context, t core.Task) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.tasks[t.ID]
	if !ok || cur.UserID != t.UserID {
		return core.Task{}, core.ErrTaskNotFound
	}

	t.UserName = cur.UserName
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = time.Now()
	s.tasks[t.ID] = t
	return t, nil
}

func (s *fakeStore) BatchComplete(_ context.Context, ownerID int64, ids []int64, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		t, ok := s.tasks[id]
		if !ok || t.UserID != ownerID {
			continue
		}
		d := day
		t.CompletedDate = &d
		t.UpdatedAt = time.Now()
		s.tasks[id] = t
	}
	return nil
}

func (s *fakeStore) DeleteTask(_ context.Context, ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return core.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeStore) ListPublished(_ context.Context, limit, offset int) ([]core.Task, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := []core.Task{}
	for _, t := range s.tasks {
		if t.Status == core.StatusPublished {
			all = append(all, t)
		}
	}
	newestFirst(all)

	total := len(all)
	if offset >= total {
		return []core.Task{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *fakeStore) GetPublished(_ context.Context, id int64) (core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.Status != core.StatusPublished {
		return core.Task{}, core.ErrTaskNotFound
	}
	return t, nil
}
