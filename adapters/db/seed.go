package db

import (
	"context"
	"fmt"

	"github.com/sara-n6/HoMee/core"
)

// Seed inserts two demo users with fifteen published tasks each. Safe to run
// repeatedly: users upsert on uid and tasks are only created for a user that
// has none yet.
func (db *DB) Seed(ctx context.Context) error {
	users := []struct {
		uid  string
		name string
	}{
		{"test1@example.com", "Taro Test"},
		{"test2@example.com", "Jiro Test"},
	}

	const upsertUser = `
		INSERT INTO users(uid, name)
		VALUES ($1, $2)
		ON CONFLICT (uid) DO UPDATE SET name = EXCLUDED.name
		RETURNING id;
	`
	const insertTask = `
		INSERT INTO tasks(user_id, title, body, status)
		VALUES ($1, $2, $3, $4);
	`

	for n, u := range users {
		var id int64
		if err := db.conn.QueryRowxContext(ctx, upsertUser, u.uid, u.name).Scan(&id); err != nil {
			return fmt.Errorf("seed user %q: %w", u.uid, err)
		}

		var count int
		if err := db.conn.GetContext(ctx, &count,
			`SELECT count(*) FROM tasks WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("count seed tasks: %w", err)
		}
		if count > 0 {
			continue
		}

		for i := 0; i < 15; i++ {
			title := fmt.Sprintf("Sample task %d-%d", n+1, i)
			body := fmt.Sprintf("Sample body %d-%d", n+1, i)
			if _, err := db.conn.ExecContext(ctx, insertTask,
				id, title, body, int16(core.StatusPublished)); err != nil {
				return fmt.Errorf("seed task: %w", err)
			}
		}
	}

	db.log.Info("seed data inserted")
	return nil
}
