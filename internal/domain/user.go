package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleOwner
}

// IsStaff reports whether the role carries moderation rights.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleOwner
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the user as returned to its owner, with the post tally the
// profile page shows.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	PostCount int       `json:"post_count"`
}

// UserListItem is one row of the admin user listing.
type UserListItem struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	PostCount int       `json:"post_count"`
}

type UserRepository interface {
	FindByID(id int64) (*User, error)
	FindByUsername(username string) (*User, error)
	// FindByUsernameOrEmail backs the single pre-insert duplicate check.
	FindByUsernameOrEmail(username, email string) (*User, error)
	// FindCollision looks for another user holding the username or email.
	FindCollision(username, email string, excludeID int64) (*User, error)
	Create(user *User) error
	UpdateProfile(id int64, username, email string) error
	UpdatePassword(id int64, passwordHash string) error
	UpdateAvatar(id int64, avatar string) error
	UpdateRole(id int64, role Role) error
	Delete(id int64) error
	ProfileByID(id int64) (*Profile, error)
	ListWithPostCounts() ([]UserListItem, error)
}

type UserService interface {
	Register(ctx context.Context, username, email, password, confirm string) error
	Login(ctx context.Context, username, password string) (*Identity, string, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, actor *Identity) (*Profile, error)
	UpdateProfile(ctx context.Context, actor *Identity, token, username, email string) error
	UpdatePassword(ctx context.Context, actor *Identity, current, newPassword, confirm string) error
	UploadAvatar(ctx context.Context, actor *Identity, img *ImageUpload) (string, error)
	RemoveAvatar(ctx context.Context, actor *Identity) error
	ListUsers(ctx context.Context, actor *Identity) ([]UserListItem, error)
	Promote(ctx context.Context, actor *Identity, targetID int64) error
	Demote(ctx context.Context, actor *Identity, targetID int64) error
	DeleteUser(ctx context.Context, actor *Identity, targetID int64) error
}
