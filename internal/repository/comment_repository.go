package repository

import (
	"database/sql"
	"fmt"
	"time"

	"forumapi/internal/domain"
	"forumapi/pkg/logger"
	"forumapi/pkg/metrics"
)

type CommentRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewCommentRepository(db *sql.DB, logger logger.Logger) domain.CommentRepository {
	return &CommentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CommentRepository) FindByID(id int64) (*domain.Comment, error) {
	query := `
		SELECT c.id, c.user_id, c.post_id, u.username, c.content, c.created_at, c.updated_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = ?
	`

	var comment domain.Comment
	err := r.db.QueryRow(query, id).Scan(
		&comment.ID,
		&comment.UserID,
		&comment.PostID,
		&comment.Username,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Could not look up comment", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("could not look up comment: %w", err)
	}

	return &comment, nil
}

func (r *CommentRepository) Create(comment *domain.Comment) error {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("create", "comment", time.Since(start)) }()

	query := `
		INSERT INTO comments (user_id, post_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	result, err := r.db.Exec(query, comment.UserID, comment.PostID, comment.Content, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		r.logger.Error("Could not create comment", map[string]interface{}{"post_id": comment.PostID, "error": err.Error()})
		return fmt.Errorf("could not create comment: %w", err)
	}

	comment.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not read new comment id: %w", err)
	}

	return nil
}

func (r *CommentRepository) Update(id int64, content string) error {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("update", "comment", time.Since(start)) }()

	query := `UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.Exec(query, content, time.Now(), id)
	if err != nil {
		r.logger.Error("Could not update comment", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("could not update comment: %w", err)
	}

	return nil
}

func (r *CommentRepository) Delete(id int64) error {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("delete", "comment", time.Since(start)) }()

	query := `DELETE FROM comments WHERE id = ?`

	_, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Error("Could not delete comment", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("could not delete comment: %w", err)
	}

	return nil
}

func (r *CommentRepository) CountByPost(postID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&count)
	if err != nil {
		r.logger.Error("Could not count comments", map[string]interface{}{"post_id": postID, "error": err.Error()})
		return 0, fmt.Errorf("could not count comments: %w", err)
	}

	return count, nil
}

func (r *CommentRepository) ListPageByPost(postID int64, limit, offset int) ([]domain.Comment, error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("list", "comment", time.Since(start)) }()

	query := `
		SELECT c.id, c.user_id, c.post_id, u.username, c.content, c.created_at, c.updated_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.post_id = ?
		ORDER BY c.created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, postID, limit, offset)
	if err != nil {
		r.logger.Error("Could not list comments", map[string]interface{}{"post_id": postID, "error": err.Error()})
		return nil, fmt.Errorf("could not list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var comment domain.Comment
		err := rows.Scan(&comment.ID, &comment.UserID, &comment.PostID, &comment.Username, &comment.Content, &comment.CreatedAt, &comment.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("could not scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (r *CommentRepository) DeleteByUser(userID int64) error {
	_, err := r.db.Exec(`DELETE FROM comments WHERE user_id = ?`, userID)
	if err != nil {
		r.logger.Error("Could not delete user's comments", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return fmt.Errorf("could not delete user's comments: %w", err)
	}

	return nil
}
