package db

import (
	_ "embed"
	"fmt"
)

//go:embed migrations/01_create_users.up.sql
var createUsersUp string

//go:embed migrations/02_create_tasks.up.sql
var createTasksUp string

// Migrate applies the schema on startup.
func (db *DB) Migrate() error {
	db.log.Debug("running migrations")

	if _, err := db.conn.Exec(createUsersUp); err != nil {
		return fmt.Errorf("apply users migration: %w", err)
	}

	if _, err := db.conn.Exec(createTasksUp); err != nil {
		return fmt.Errorf("apply tasks migration: %w", err)
	}

	db.log.Debug("migrations finished")
	return nil
}
