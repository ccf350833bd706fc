package repository

import (
	"database/sql"
	"fmt"
	"time"

	"forumapi/internal/domain"
	"forumapi/pkg/logger"
	"forumapi/pkg/metrics"
)

type PostRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostRepository(db *sql.DB, logger logger.Logger) domain.PostRepository {
	return &PostRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostRepository) FindByID(id int64) (*domain.Post, error) {
	query := `
		SELECT p.id, p.user_id, u.username, p.title, p.content, p.image, p.created_at, p.updated_at
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = ?
	`

	var post domain.Post
	var image sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.Username,
		&post.Title,
		&post.Content,
		&image,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Could not look up post", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, fmt.Errorf("could not look up post: %w", err)
	}

	post.Image = image.String
	return &post, nil
}

func (r *PostRepository) Create(post *domain.Post) error {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("create", "post", time.Since(start)) }()

	query := `
		INSERT INTO posts (user_id, title, content, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	var image interface{}
	if post.Image != "" {
		image = post.Image
	}

	result, err := r.db.Exec(query, post.UserID, post.Title, post.Content, image, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		r.logger.Error("Could not create post", map[string]interface{}{"user_id": post.UserID, "error": err.Error()})
		return fmt.Errorf("could not create post: %w", err)
	}

	post.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not read new post id: %w", err)
	}

	return nil
}

func (r *PostRepository) Update(id int64, title, content, image string) error {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("update", "post", time.Since(start)) }()

	query := `UPDATE posts SET title = ?, content = ?, image = ?, updated_at = ? WHERE id = ?`

	var imageValue interface{}
	if image != "" {
		imageValue = image
	}

	_, err := r.db.Exec(query, title, content, imageValue, time.Now(), id)
	if err != nil {
		r.logger.Error("Could not update post", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("could not update post: %w", err)
	}

	return nil
}

func (r *PostRepository) Delete(id int64) error {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("delete", "post", time.Since(start)) }()

	// Comments hang off the post; remove them first so the FK holds.
	if _, err := r.db.Exec(`DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		r.logger.Error("Could not delete post comments", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("could not delete post comments: %w", err)
	}

	_, err := r.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Could not delete post", map[string]interface{}{"id": id, "error": err.Error()})
		return fmt.Errorf("could not delete post: %w", err)
	}

	return nil
}

func (r *PostRepository) Count(userID int64) (int, error) {
	var count int
	var err error

	if userID == 0 {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE user_id = ?`, userID).Scan(&count)
	}

	if err != nil {
		r.logger.Error("Could not count posts", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return 0, fmt.Errorf("could not count posts: %w", err)
	}

	return count, nil
}

func (r *PostRepository) ListPage(userID int64, limit, offset int) ([]domain.Post, error) {
	start := time.Now()
	defer func() { metrics.RecordDatabaseOperation("list", "post", time.Since(start)) }()

	// Most recently touched first: edits float a post back up.
	query := `
		SELECT p.id, p.user_id, u.username, p.title, p.content, p.image, p.created_at, p.updated_at
		FROM posts p
		JOIN users u ON p.user_id = u.id
	`
	args := []interface{}{}

	if userID != 0 {
		query += ` WHERE p.user_id = ?`
		args = append(args, userID)
	}

	query += `
		ORDER BY MAX(p.created_at, p.updated_at) DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Could not list posts", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("could not list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		var post domain.Post
		var image sql.NullString

		err := rows.Scan(&post.ID, &post.UserID, &post.Username, &post.Title, &post.Content, &image, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("could not scan post row: %w", err)
		}

		post.Image = image.String
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func (r *PostRepository) ImagesByUser(userID int64) ([]string, error) {
	query := `SELECT image FROM posts WHERE user_id = ? AND image IS NOT NULL`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.logger.Error("Could not list post images", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return nil, fmt.Errorf("could not list post images: %w", err)
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var image string
		if err := rows.Scan(&image); err != nil {
			return nil, fmt.Errorf("could not scan image row: %w", err)
		}
		images = append(images, image)
	}

	return images, rows.Err()
}

func (r *PostRepository) DeleteByUser(userID int64) error {
	if _, err := r.db.Exec(`DELETE FROM comments WHERE post_id IN (SELECT id FROM posts WHERE user_id = ?)`, userID); err != nil {
		r.logger.Error("Could not delete comments on user's posts", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return fmt.Errorf("could not delete comments on user's posts: %w", err)
	}

	if _, err := r.db.Exec(`DELETE FROM posts WHERE user_id = ?`, userID); err != nil {
		r.logger.Error("Could not delete user's posts", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return fmt.Errorf("could not delete user's posts: %w", err)
	}

	return nil
}
