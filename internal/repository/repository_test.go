package repository

import (
	"database/sql"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"forumapi/internal/database"
	"forumapi/internal/domain"
	"forumapi/pkg/logger"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// :memory: databases vanish when their connection closes; pin one.
	db.SetMaxOpenConns(1)

	require.NoError(t, database.NewMigrationService(db, testLogger()).RunMigrations())
	return db
}

func testLogger() logger.Logger {
	return logger.New(logger.ErrorLevel, io.Discard)
}

func seedUser(t *testing.T, repo domain.UserRepository, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
	}
	require.NoError(t, repo.Create(user))
	return user
}
