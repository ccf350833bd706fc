package service

import (
	"context"

	"forumapi/internal/domain"
	"forumapi/pkg/logger"
)

type CommentService struct {
	repo   domain.CommentRepository
	posts  domain.PostRepository
	logger logger.Logger
}

func NewCommentService(repo domain.CommentRepository, posts domain.PostRepository, logger logger.Logger) domain.CommentService {
	return &CommentService{
		repo:   repo,
		posts:  posts,
		logger: logger,
	}
}

func (s *CommentService) ListByPost(ctx context.Context, postID int64, page, perPage int) ([]domain.Comment, domain.Pagination, error) {
	total, err := s.repo.CountByPost(postID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	pagination := domain.Paginate(total, page, perPage)

	comments, err := s.repo.ListPageByPost(postID, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	return comments, pagination, nil
}

func (s *CommentService) Create(ctx context.Context, actor *domain.Identity, postID int64, content string) error {
	if err := domain.RequireAuthenticated(actor); err != nil {
		return err
	}

	content = trimmed(content)
	if content == "" {
		return domain.Validation("The comment cannot be empty.")
	}

	// Comments must hang off a real post.
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return domain.NotFound("Post not found.")
	}

	comment := &domain.Comment{
		UserID:  actor.UserID,
		PostID:  postID,
		Content: content,
	}

	if err := s.repo.Create(comment); err != nil {
		return err
	}

	s.logger.Info("Comment created", map[string]interface{}{"comment_id": comment.ID, "post_id": postID})
	return nil
}

func (s *CommentService) Update(ctx context.Context, actor *domain.Identity, commentID int64, content string) error {
	comment, err := s.repo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return domain.NotFound("Comment not found")
	}

	if err := domain.RequireOwnerOrAdmin(actor, comment.UserID); err != nil {
		return err
	}

	content = trimmed(content)
	if content == "" {
		return domain.Validation("The comment cannot be empty.")
	}

	return s.repo.Update(commentID, content)
}

func (s *CommentService) Delete(ctx context.Context, actor *domain.Identity, commentID int64) error {
	comment, err := s.repo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return domain.NotFound("Comment not found.")
	}

	if err := domain.RequireOwnerOrAdmin(actor, comment.UserID); err != nil {
		return err
	}

	return s.repo.Delete(commentID)
}
