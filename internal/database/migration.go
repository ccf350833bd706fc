package database

import (
	"database/sql"
	"fmt"
	"time"

	"forumapi/pkg/logger"
)

type MigrationService struct {
	db     *sql.DB
	logger logger.Logger
}

func NewMigrationService(db *sql.DB, logger logger.Logger) *MigrationService {
	return &MigrationService{
		db:     db,
		logger: logger,
	}
}

func (m *MigrationService) InitMigrationTable() error {
	query := `
    CREATE TABLE IF NOT EXISTS migrations (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL UNIQUE,
        applied_at TIMESTAMP NOT NULL
    )
    `

	_, err := m.db.Exec(query)
	if err != nil {
		m.logger.Error("Could not create migrations table", map[string]interface{}{"error": err.Error()})
		return err
	}

	return nil
}

func (m *MigrationService) IsMigrationApplied(name string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM migrations WHERE name = ?"
	err := m.db.QueryRow(query, name).Scan(&count)
	if err != nil {
		m.logger.Error("Could not check migration state", map[string]interface{}{"name": name, "error": err.Error()})
		return false, err
	}

	return count > 0, nil
}

func (m *MigrationService) RecordMigration(name string) error {
	query := "INSERT INTO migrations (name, applied_at) VALUES (?, ?)"
	_, err := m.db.Exec(query, name, time.Now())
	if err != nil {
		m.logger.Error("Could not record migration", map[string]interface{}{"name": name, "error": err.Error()})
		return err
	}

	return nil
}

func (m *MigrationService) ApplyMigration(name string, migrationFunc func(*sql.DB) error) error {
	applied, err := m.IsMigrationApplied(name)
	if err != nil {
		return err
	}

	if applied {
		m.logger.Debug("Migration already applied", map[string]interface{}{"name": name})
		return nil
	}

	m.logger.Info("Applying migration", map[string]interface{}{"name": name})

	if err := migrationFunc(m.db); err != nil {
		m.logger.Error("Migration failed", map[string]interface{}{"name": name, "error": err.Error()})
		return err
	}

	if err := m.RecordMigration(name); err != nil {
		return err
	}

	return nil
}

func (m *MigrationService) RunMigrations() error {
	m.logger.Info("Running migrations", map[string]interface{}{})

	if err := m.InitMigrationTable(); err != nil {
		return fmt.Errorf("could not create migrations table: %w", err)
	}

	migrations := []struct {
		Name string
		Func func(*sql.DB) error
	}{
		{"create_users_table", CreateUsersTable},
		{"create_posts_table", CreatePostsTable},
		{"create_comments_table", CreateCommentsTable},
	}

	for _, migration := range migrations {
		if err := m.ApplyMigration(migration.Name, migration.Func); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}
	}

	return nil
}

// The unique constraints on username and email are the authoritative guard
// against duplicate registrations; the service-level pre-check only exists
// for a friendly message.
func CreateUsersTable(db *sql.DB) error {
	query := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        username TEXT NOT NULL UNIQUE,
        email TEXT NOT NULL UNIQUE,
        password_hash TEXT NOT NULL,
        role TEXT NOT NULL DEFAULT 'user',
        avatar TEXT,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL
    )
    `

	_, err := db.Exec(query)
	return err
}

func CreatePostsTable(db *sql.DB) error {
	query := `
    CREATE TABLE IF NOT EXISTS posts (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id INTEGER NOT NULL,
        title TEXT NOT NULL,
        content TEXT NOT NULL,
        image TEXT,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE INDEX IF NOT EXISTS posts_user_id_idx ON posts (user_id);
    `

	_, err := db.Exec(query)
	return err
}

func CreateCommentsTable(db *sql.DB) error {
	query := `
    CREATE TABLE IF NOT EXISTS comments (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id INTEGER NOT NULL,
        post_id INTEGER NOT NULL,
        content TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users (id),
        FOREIGN KEY (post_id) REFERENCES posts (id)
    );

    CREATE INDEX IF NOT EXISTS comments_post_id_idx ON comments (post_id);
    `

	_, err := db.Exec(query)
	return err
}
