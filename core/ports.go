package core

import (
	"context"
	"time"
)

type DB interface {
	Ping(ctx context.Context) error

	// users
	GetUserByUID(ctx context.Context, uid string) (User, error)

	// tasks, owner-scoped
	FindUnsaved(ctx context.Context, ownerID int64) (Task, error)
	CreateUnsaved(ctx context.Context, ownerID int64) (Task, error)
	GetTask(ctx context.Context, ownerID, id int64) (Task, error)
	ListTasks(ctx context.Context, ownerID int64, f ListFilter) ([]Task, error)
	UpdateTask(ctx context.Context, t Task) (Task, error)
	BatchComplete(ctx context.Context, ownerID int64, ids []int64, day time.Time) error
	DeleteTask(ctx context.Context, ownerID, id int64) error

	// public feed
	ListPublished(ctx context.Context, limit, offset int) ([]Task, int, error)
	GetPublished(ctx context.Context, id int64) (Task, error)
}

// Identity is the raw token-header triple sent by the frontend. Verifying the
// token itself is the auth provider's job; resolving uid to a user is ours.
type Identity struct {
	AccessToken string
	Client      string
	UID         string
}

type Authenticator interface {
	Resolve(ctx context.Context, ident Identity) (User, error)
}
