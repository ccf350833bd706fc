package domain

import (
	"context"
	"time"
)

// ImageUpload is a validated in-memory image, ready to be written to disk.
// Uploads are capped at 2MB so buffering them is fine.
type ImageUpload struct {
	Data []byte
	Ext  string
}

type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostRepository interface {
	FindByID(id int64) (*Post, error)
	Create(post *Post) error
	// Update replaces the mutable fields and bumps updated_at.
	Update(id int64, title, content, image string) error
	Delete(id int64) error
	// Count and ListPage take an optional author filter (0 = all authors).
	Count(userID int64) (int, error)
	ListPage(userID int64, limit, offset int) ([]Post, error)
	// ImagesByUser returns the image filenames of a user's posts, for file
	// cleanup when the user is deleted.
	ImagesByUser(userID int64) ([]string, error)
	DeleteByUser(userID int64) error
}

type PostService interface {
	List(ctx context.Context, page, perPage int, mine *Identity) ([]Post, Pagination, error)
	Get(ctx context.Context, id int64) (*Post, error)
	Create(ctx context.Context, actor *Identity, title, content string, image *ImageUpload) error
	Update(ctx context.Context, actor *Identity, postID int64, title, content string, removeImage bool, newImage *ImageUpload) error
	Delete(ctx context.Context, actor *Identity, postID int64) error
}
