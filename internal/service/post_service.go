package service

import (
	"context"
	"fmt"

	"forumapi/internal/domain"
	"forumapi/internal/upload"
	"forumapi/pkg/logger"
)

type PostService struct {
	repo   domain.PostRepository
	files  *upload.Store
	logger logger.Logger
}

func NewPostService(repo domain.PostRepository, files *upload.Store, logger logger.Logger) domain.PostService {
	return &PostService{
		repo:   repo,
		files:  files,
		logger: logger,
	}
}

func (s *PostService) List(ctx context.Context, page, perPage int, mine *domain.Identity) ([]domain.Post, domain.Pagination, error) {
	var userID int64
	if mine != nil {
		if err := domain.RequireAuthenticated(mine); err != nil {
			return nil, domain.Pagination{}, err
		}
		userID = mine.UserID
	}

	total, err := s.repo.Count(userID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	pagination := domain.Paginate(total, page, perPage)

	posts, err := s.repo.ListPage(userID, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	return posts, pagination, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.NotFound("Post not found")
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, actor *domain.Identity, title, content string, image *domain.ImageUpload) error {
	if err := domain.RequireAuthenticated(actor); err != nil {
		return err
	}

	title = trimmed(title)
	content = trimmed(content)

	if title == "" || content == "" {
		return domain.Validation("Title and content cannot be empty.")
	}

	var filename string
	if image != nil {
		var err error
		filename, err = s.files.SavePostImage(actor.UserID, image)
		if err != nil {
			return fmt.Errorf("could not save image: %w", err)
		}
	}

	post := &domain.Post{
		UserID:  actor.UserID,
		Title:   title,
		Content: content,
		Image:   filename,
	}

	if err := s.repo.Create(post); err != nil {
		// The image was written for a row that never landed.
		s.files.RemovePostImage(filename)
		return err
	}

	s.logger.Info("Post created", map[string]interface{}{"post_id": post.ID, "user_id": actor.UserID})
	return nil
}

func (s *PostService) Update(ctx context.Context, actor *domain.Identity, postID int64, title, content string, removeImage bool, newImage *domain.ImageUpload) error {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return domain.NotFound("Post not found.")
	}

	// The owner id checked here is the one the update below applies to.
	if err := domain.RequireOwnerOrAdmin(actor, post.UserID); err != nil {
		return err
	}

	title = trimmed(title)
	content = trimmed(content)

	if title == "" || content == "" {
		return domain.Validation("Title and content cannot be empty.")
	}

	image := post.Image

	if removeImage && image != "" {
		s.files.RemovePostImage(image)
		image = ""
	}

	var saved string
	if newImage != nil {
		saved, err = s.files.SavePostImage(actor.UserID, newImage)
		if err != nil {
			return fmt.Errorf("could not save image: %w", err)
		}
		if image != "" {
			s.files.RemovePostImage(image)
		}
		image = saved
	}

	if err := s.repo.Update(postID, title, content, image); err != nil {
		s.files.RemovePostImage(saved)
		return err
	}

	s.logger.Info("Post updated", map[string]interface{}{"post_id": postID, "user_id": actor.UserID})
	return nil
}

func (s *PostService) Delete(ctx context.Context, actor *domain.Identity, postID int64) error {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return domain.NotFound("Post not found.")
	}

	if err := domain.RequireOwnerOrAdmin(actor, post.UserID); err != nil {
		return err
	}

	if err := s.repo.Delete(postID); err != nil {
		return err
	}

	// File cleanup after the row is gone; a stubborn file never resurrects
	// the post.
	s.files.RemovePostImage(post.Image)

	s.logger.Info("Post deleted", map[string]interface{}{"post_id": postID, "user_id": actor.UserID})
	return nil
}
