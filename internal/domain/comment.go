package domain

import (
	"context"
	"time"
)

type Comment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	Username  string    `json:"username,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentRepository interface {
	FindByID(id int64) (*Comment, error)
	Create(comment *Comment) error
	Update(id int64, content string) error
	Delete(id int64) error
	CountByPost(postID int64) (int, error)
	ListPageByPost(postID int64, limit, offset int) ([]Comment, error)
	DeleteByUser(userID int64) error
}

type CommentService interface {
	ListByPost(ctx context.Context, postID int64, page, perPage int) ([]Comment, Pagination, error)
	Create(ctx context.Context, actor *Identity, postID int64, content string) error
	Update(ctx context.Context, actor *Identity, commentID int64, content string) error
	Delete(ctx context.Context, actor *Identity, commentID int64) error
}
