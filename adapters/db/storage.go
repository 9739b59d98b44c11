package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/sara-n6/HoMee/core"
)

type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

func New(log *slog.Logger, address string) (*DB, error) {
	db, err := sqlx.Connect("pgx", address)
	if err != nil {
		log.Error("connection problem", "address", address, "error", err)
		return nil, err
	}
	return &DB{log: log, conn: db}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Users

func (db *DB) GetUserByUID(ctx context.Context, uid string) (core.User, error) {
	const q = `SELECT id, uid, name, created_at FROM users WHERE uid = $1`

	var u core.User
	if err := db.conn.GetContext(ctx, &u, q, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, core.ErrUserNotFound
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Tasks

// Every task select joins users so responses can carry the owner's name.
const taskColumns = `
	t.id, t.user_id, u.name AS user_name,
	COALESCE(t.title, '') AS title, COALESCE(t.body, '') AS body,
	t.status, t.end_date, t.completed_date, t.created_at, t.updated_at`

func (db *DB) FindUnsaved(ctx context.Context, ownerID int64) (core.Task, error) {
	q := `SELECT` + taskColumns + `
		FROM tasks t JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1 AND t.status = $2
		LIMIT 1;`

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, ownerID, int16(core.StatusUnsaved)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("find unsaved task: %w", err)
	}
	return t, nil
}

func (db *DB) CreateUnsaved(ctx context.Context, ownerID int64) (core.Task, error) {
	const q = `
		INSERT INTO tasks(user_id, status)
		VALUES ($1, $2)
		RETURNING id;
	`

	var id int64
	if err := db.conn.QueryRowxContext(ctx, q, ownerID, int16(core.StatusUnsaved)).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return core.Task{}, core.ErrUnsavedExists
		}
		if isForeignKeyViolation(err) {
			return core.Task{}, core.ErrUserNotFound
		}
		return core.Task{}, fmt.Errorf("insert unsaved task: %w", err)
	}
	return db.GetTask(ctx, ownerID, id)
}

func (db *DB) GetTask(ctx context.Context, ownerID, id int64) (core.Task, error) {
	q := `SELECT` + taskColumns + `
		FROM tasks t JOIN users u ON u.id = t.user_id
		WHERE t.id = $1 AND t.user_id = $2;`

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (db *DB) ListTasks(ctx context.Context, ownerID int64, f core.ListFilter) ([]core.Task, error) {
	q := `SELECT` + taskColumns + `
		FROM tasks t JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1 AND t.status <> $2`
	if f.InProgress {
		q += ` AND t.completed_date IS NULL`
	}
	q += ` ORDER BY t.created_at DESC, t.id DESC;`

	out := []core.Task{}
	if err := db.conn.SelectContext(ctx, &out, q, ownerID, int16(core.StatusUnsaved)); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (db *DB) UpdateTask(ctx context.Context, t core.Task) (core.Task, error) {
	const q = `
		UPDATE tasks
		SET title = NULLIF($3, ''),
		    body = NULLIF($4, ''),
		    status = $5,
		    end_date = $6,
		    completed_date = $7,
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id;
	`

	var id int64
	err := db.conn.QueryRowxContext(ctx, q,
		t.ID, t.UserID, t.Title, t.Body, int16(t.Status), t.EndDate, t.CompletedDate).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		if isUniqueViolation(err) {
			return core.Task{}, core.ErrUnsavedExists
		}
		if isCheckViolation(err) {
			return core.Task{}, core.ErrBadArguments
		}
		return core.Task{}, fmt.Errorf("update task: %w", err)
	}
	return db.GetTask(ctx, t.UserID, id)
}

func (db *DB) BatchComplete(ctx context.Context, ownerID int64, ids []int64, day time.Time) error {
	q, args, err := sqlx.In(`
		UPDATE tasks
		SET completed_date = ?, updated_at = now()
		WHERE user_id = ? AND id IN (?);`, day, ownerID, ids)
	if err != nil {
		return fmt.Errorf("build batch complete query: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx, db.conn.Rebind(q), args...); err != nil {
		return fmt.Errorf("batch complete: %w", err)
	}
	return nil
}

func (db *DB) DeleteTask(ctx context.Context, ownerID, id int64) error {
	const q = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	res, err := db.conn.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return core.ErrTaskNotFound
	}
	return nil
}

// Public feed

func (db *DB) ListPublished(ctx context.Context, limit, offset int) ([]core.Task, int, error) {
	var total int
	if err := db.conn.GetContext(ctx, &total,
		`SELECT count(*) FROM tasks WHERE status = $1`, int16(core.StatusPublished)); err != nil {
		return nil, 0, fmt.Errorf("count published tasks: %w", err)
	}

	q := `SELECT` + taskColumns + `
		FROM tasks t JOIN users u ON u.id = t.user_id
		WHERE t.status = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3;`

	out := []core.Task{}
	if err := db.conn.SelectContext(ctx, &out, q, int16(core.StatusPublished), limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list published tasks: %w", err)
	}
	return out, total, nil
}

func (db *DB) GetPublished(ctx context.Context, id int64) (core.Task, error) {
	q := `SELECT` + taskColumns + `
		FROM tasks t JOIN users u ON u.id = t.user_id
		WHERE t.id = $1 AND t.status = $2;`

	var t core.Task
	if err := db.conn.GetContext(ctx, &t, q, id, int16(core.StatusPublished)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Task{}, core.ErrTaskNotFound
		}
		return core.Task{}, fmt.Errorf("get published task: %w", err)
	}
	return t, nil
}

// pg helpers

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
