package core_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sara-n6/HoMee/core"
)

type fakeDB struct {
	mu sync.RWMutex

	nextUserID int64
	nextTaskID int64

	users map[int64]core.User
	tasks map[int64]core.Task

	// when set, the next FindUnsaved misses even if a row exists; lets tests
	// drive the create path into the unique-violation branch
	hideUnsavedOnce bool

	// when set, a conflicting insert also removes the winner's row, so the
	// follow-up re-read misses too
	dropUnsavedOnConflict bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		nextUserID: 1,
		nextTaskID: 1,
		users:      make(map[int64]core.User),
		tasks:      make(map[int64]core.Task),
	}
}

func cloneTask(t core.Task) core.Task {
	out := t
	if t.EndDate != nil {
		d := *t.EndDate
		out.EndDate = &d
	}
	if t.CompletedDate != nil {
		d := *t.CompletedDate
		out.CompletedDate = &d
	}
	return out
}

func (db *fakeDB) Ping(context.Context) error {
	return nil
}

func (db *fakeDB) addUser(name string) core.User {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := db.nextUserID
	db.nextUserID++

	u := core.User{
		ID:        id,
		UID:       name + "@example.com",
		Name:      name,
		CreatedAt: time.Now(),
	}
	db.users[id] = u
	return u
}

// putTask inserts a fixture row directly, bypassing the service rules.
func (db *fakeDB) putTask(t core.Task) core.Task {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := db.nextTaskID
	db.nextTaskID++

	t.ID = id
	if u, ok := db.users[t.UserID]; ok {
		t.UserName = u.Name
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	db.tasks[id] = cloneTask(t)
	return cloneTask(t)
}

func (db *fakeDB) unsavedCount(ownerID int64) int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	n := 0
	for _, t := range db.tasks {
		if t.UserID == ownerID && t.Status == core.StatusUnsaved {
			n++
		}
	}
	return n
}

func (db *fakeDB) GetUserByUID(_ context.Context, uid string) (core.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, u := range db.users {
		if u.UID == uid {
			return u, nil
		}
	}
	return core.User{}, core.ErrUserNotFound
}

func (db *fakeDB) FindUnsaved(_ context.Context, ownerID int64) (core.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.hideUnsavedOnce {
		db.hideUnsavedOnce = false
		return core.Task{}, core.ErrTaskNotFound
	}

	for _, t := range db.tasks {
		if t.UserID == ownerID && t.Status == core.StatusUnsaved {
			return cloneTask(t), nil
		}
	}
	return core.Task{}, core.ErrTaskNotFound
}

func (db *fakeDB) CreateUnsaved(_ context.Context, ownerID int64) (core.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[ownerID]
	if !ok {
		return core.Task{}, core.ErrUserNotFound
	}
	for id, t := range db.tasks {
		if t.UserID == ownerID && t.Status == core.StatusUnsaved {
			if db.dropUnsavedOnConflict {
				delete(db.tasks, id)
			}
			return core.Task{}, core.ErrUnsavedExists
		}
	}

	id := db.nextTaskID
	db.nextTaskID++

	now := time.Now()
	t := core.Task{
		ID:        id,
		UserID:    ownerID,
		UserName:  u.Name,
		Status:    core.StatusUnsaved,
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.tasks[id] = t
	return cloneTask(t), nil
}

func (db *fakeDB) GetTask(_ context.Context, ownerID, id int64) (core.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tasks[id]
	if !ok || t.UserID != ownerID {
		return core.Task{}, core.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func sortNewestFirst(out []core.Task) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
}

func (db *fakeDB) ListTasks(_ context.Context, ownerID int64, f core.ListFilter) ([]core.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []core.Task{}
	for _, t := range db.tasks {
		if t.UserID != ownerID || t.Status == core.StatusUnsaved {
			continue
		}
		if f.InProgress && t.CompletedDate != nil {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sortNewestFirst(out)
	return out, nil
}

func (db *fakeDB) UpdateTask(_ context.Context, t core.Task) (core.Task, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	cur, ok := db.tasks[t.ID]
	if !ok || cur.UserID != t.UserID {
		return core.Task{}, core.ErrTaskNotFound
	}

	t.UserName = cur.UserName
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = time.Now()
	db.tasks[t.ID] = cloneTask(t)
	return cloneTask(t), nil
}

func (db *fakeDB) BatchComplete(_ context.Context, ownerID int64, ids []int64, day time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, id := range ids {
		t, ok := db.tasks[id]
		if !ok || t.UserID != ownerID {
			continue
		}
		d := day
		t.CompletedDate = &d
		t.UpdatedAt = time.Now()
		db.tasks[id] = t
	}
	return nil
}

func (db *fakeDB) DeleteTask(_ context.Context, ownerID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	t, ok := db.tasks[id]
	if !ok || t.UserID != ownerID {
		return core.ErrTaskNotFound
	}
	delete(db.tasks, id)
	return nil
}

func (db *fakeDB) ListPublished(_ context.Context, limit, offset int) ([]core.Task, int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	all := []core.Task{}
	for _, t := range db.tasks {
		if t.Status == core.StatusPublished {
			all = append(all, cloneTask(t))
		}
	}
	sortNewestFirst(all)

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

func (db *fakeDB) GetPublished(_ context.Context, id int64) (core.Task, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tasks[id]
	if !ok || t.Status != core.StatusPublished {
		return core.Task{}, core.ErrTaskNotFound
	}
	return cloneTask(t), nil
}
