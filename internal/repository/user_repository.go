package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"forumapi/internal/domain"
	"forumapi/pkg/logger"
	"forumapi/pkg/metrics"
)

const userColumns = "id, username, email, password_hash, role, avatar, created_at, updated_at"

// isUniqueViolation reports whether err is a sqlite unique-constraint error.
// Under concurrent requests the pre-insert duplicate check can pass on both
// sides; the constraint is what actually decides.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

type UserRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewUserRepository(db *sql.DB, logger logger.Logger) domain.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var avatar sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&avatar,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Avatar = avatar.String
	return &user, nil
}

func (r *UserRepository) FindByID(id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := r.scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Could not look up user by id", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("could not look up user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByUsername(username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`

	user, err := r.scanUser(r.db.QueryRow(query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Could not look up user by username", map[string]interface{}{"username": username, "error": err.Error()})
		return nil, fmt.Errorf("could not look up user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByUsernameOrEmail(username, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ? OR email = ?`

	user, err := r.scanUser(r.db.QueryRow(query, username, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Could not check for existing user", map[string]interface{}{"username": username, "error": err.Error()})
		return nil, fmt.Errorf("could not check for existing user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindCollision(username, email string, excludeID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE (username = ? OR email = ?) AND id != ?`

	user, err := r.scanUser(r.db.QueryRow(query, username, email, excludeID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Could not check for colliding user", map[string]interface{}{"username": username, "error": err.Error()})
		return nil, fmt.Errorf("could not check for colliding user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(user *domain.User) error {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("create", "user", time.Since(start)) }()

	query := `
		INSERT INTO users (username, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	result, err := r.db.Exec(
		query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("A user with that username or email already exists.")
		}
		r.logger.Error("Could not create user", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("could not create user: %w", err)
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not read new user id: %w", err)
	}

	return nil
}

func (r *UserRepository) UpdateProfile(id int64, username, email string) error {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("update", "user", time.Since(start)) }()

	query := `UPDATE users SET username = ?, email = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.Exec(query, username, email, time.Now(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("Username or email already exists.")
		}
		r.logger.Error("Could not update profile", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("could not update profile: %w", err)
	}

	return nil
}

func (r *UserRepository) UpdatePassword(id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.Exec(query, passwordHash, time.Now(), id)
	if err != nil {
		r.logger.Error("Could not update password", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("could not update password: %w", err)
	}

	return nil
}

func (r *UserRepository) UpdateAvatar(id int64, avatar string) error {
	// An empty filename clears the avatar back to NULL.
	query := `UPDATE users SET avatar = ?, updated_at = ? WHERE id = ?`

	var value interface{}
	if avatar != "" {
		value = avatar
	}

	_, err := r.db.Exec(query, value, time.Now(), id)
	if err != nil {
		r.logger.Error("Could not update avatar", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("could not update avatar: %w", err)
	}

	return nil
}

func (r *UserRepository) UpdateRole(id int64, role domain.Role) error {
	query := `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.Exec(query, role, time.Now(), id)
	if err != nil {
		r.logger.Error("Could not update role", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("could not update role: %w", err)
	}

	return nil
}

func (r *UserRepository) Delete(id int64) error {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("delete", "user", time.Since(start)) }()

	query := `DELETE FROM users WHERE id = ?`

	_, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Error("Could not delete user", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("could not delete user: %w", err)
	}

	return nil
}

func (r *UserRepository) ProfileByID(id int64) (*domain.Profile, error) {
	query := `
		SELECT u.id, u.username, u.email, u.role, u.avatar, u.created_at,
		       (SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS post_count
		FROM users u
		WHERE u.id = ?
	`

	var profile domain.Profile
	var avatar sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&profile.ID,
		&profile.Username,
		&profile.Email,
		&profile.Role,
		&avatar,
		&profile.CreatedAt,
		&profile.PostCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Could not load profile", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("could not load profile: %w", err)
	}

	profile.Avatar = avatar.String
	return &profile, nil
}

func (r *UserRepository) ListWithPostCounts() ([]domain.UserListItem, error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("list", "user", time.Since(start)) }()

	query := `
		SELECT u.id, u.username, u.email, u.role, u.created_at,
		       (SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS post_count
		FROM users u
		ORDER BY u.id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Could not list users", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.UserListItem, 0)
	for rows.Next() {
		var item domain.UserListItem
		if err := rows.Scan(&item.ID, &item.Username, &item.Email, &item.Role, &item.CreatedAt, &item.PostCount); err != nil {
			return nil, fmt.Errorf("could not scan user row: %w", err)
		}
		users = append(users, item)
	}

	return users, rows.Err()
}
