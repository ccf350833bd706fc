package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"forumapi/internal/domain"
	"forumapi/internal/upload"
	"forumapi/pkg/logger"
	"forumapi/pkg/metrics"
)

type UserService struct {
	repo     domain.UserRepository
	posts    domain.PostRepository
	comments domain.CommentRepository
	sessions domain.SessionStore
	files    *upload.Store
	logger   logger.Logger
}

func NewUserService(
	repo domain.UserRepository,
	posts domain.PostRepository,
	comments domain.CommentRepository,
	sessions domain.SessionStore,
	files *upload.Store,
	logger logger.Logger,
) domain.UserService {
	return &UserService{
		repo:     repo,
		posts:    posts,
		comments: comments,
		sessions: sessions,
		files:    files,
		logger:   logger,
	}
}

func (s *UserService) Register(ctx context.Context, username, email, password, confirm string) error {
	username = trimmed(username)
	email = trimmed(email)
	password = trimmed(password)
	confirm = trimmed(confirm)

	if len(password) < minPasswordLength {
		return domain.Validation("The password must contain at least 6 characters.")
	}
	if !validEmail(email) {
		return domain.Validation("Email format is invalid.")
	}
	if confirm != password {
		return domain.Validation("Passwords do not match.")
	}
	if username == "" {
		return domain.Validation("Username cannot be empty.")
	}
	if email == "" {
		return domain.Validation("Email cannot be empty.")
	}
	if password == "" {
		return domain.Validation("Password cannot be empty.")
	}
	if confirm == "" {
		return domain.Validation("Please confirm your password.")
	}

	// Friendly pre-check; the unique constraints have the final word when two
	// registrations race.
	existing, err := s.repo.FindByUsernameOrEmail(username, email)
	if err != nil {
		return fmt.Errorf("could not register user: %w", err)
	}
	if existing != nil {
		return domain.Conflict("A user with that username or email already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	if err := s.repo.Create(user); err != nil {
		return err
	}

	s.logger.Info("User registered", map[string]interface{}{"user_id": user.ID, "username": username})
	return nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*domain.Identity, string, error) {
	username = trimmed(username)
	password = trimmed(password)

	if username == "" {
		return nil, "", domain.Validation("Username cannot be empty.")
	}
	if password == "" {
		return nil, "", domain.Validation("Password cannot be empty.")
	}

	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, "", fmt.Errorf("could not log in: %w", err)
	}

	// Unknown username and wrong password produce the same message so the
	// response never reveals which part was wrong.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.RecordLogin("failure")
		return nil, "", domain.Unauthorized("Invalid username or password.")
	}

	identity := domain.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}

	// Create rotates any previous token for this user.
	token, err := s.sessions.Create(ctx, identity)
	if err != nil {
		return nil, "", fmt.Errorf("could not create session: %w", err)
	}

	metrics.RecordLogin("success")
	metrics.SessionOpened()
	s.logger.Info("User logged in", map[string]interface{}{"user_id": user.ID})
	return &identity, token, nil
}

func (s *UserService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("could not destroy session: %w", err)
	}
	metrics.SessionClosed()
	return nil
}

func (s *UserService) Profile(ctx context.Context, actor *domain.Identity) (*domain.Profile, error) {
	if err := domain.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	profile, err := s.repo.ProfileByID(actor.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.NotFound("User not found.")
	}

	return profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.Identity, token, username, email string) error {
	if err := domain.RequireAuthenticated(actor); err != nil {
		return err
	}

	username = trimmed(username)
	email = trimmed(email)

	if username == "" {
		return domain.Validation("Username cannot be empty.")
	}
	if email == "" {
		return domain.Validation("Email cannot be empty.")
	}
	if !validEmail(email) {
		return domain.Validation("Email format is invalid.")
	}

	collision, err := s.repo.FindCollision(username, email, actor.UserID)
	if err != nil {
		return fmt.Errorf("could not update profile: %w", err)
	}
	if collision != nil {
		return domain.Conflict("Username or email already exists.")
	}

	if err := s.repo.UpdateProfile(actor.UserID, username, email); err != nil {
		return err
	}

	// The active session carries the username; keep it current.
	if err := s.sessions.UpdateUsername(ctx, token, username); err != nil {
		s.logger.Warn("Could not refresh session username", map[string]interface{}{"user_id": actor.UserID, "error": err.Error()})
	}

	return nil
}

func (s *UserService) UpdatePassword(ctx context.Context, actor *domain.Identity, current, newPassword, confirm string) error {
	if err := domain.RequireAuthenticated(actor); err != nil {
		return err
	}

	if current == "" {
		return domain.Validation("Current password cannot be empty.")
	}
	if newPassword == "" {
		return domain.Validation("New password cannot be empty.")
	}
	if confirm == "" {
		return domain.Validation("Please confirm your new password.")
	}
	if len(newPassword) < minPasswordLength {
		return domain.Validation("New password must contain at least 6 characters.")
	}
	if newPassword == current {
		return domain.Validation("New password must be different from the current password.")
	}
	if newPassword != confirm {
		return domain.Validation("New passwords do not match.")
	}

	user, err := s.repo.FindByID(actor.UserID)
	if err != nil {
		return fmt.Errorf("could not update password: %w", err)
	}
	if user == nil {
		return domain.NotFound("User not found.")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.Validation("Current password is incorrect.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	return s.repo.UpdatePassword(actor.UserID, string(hash))
}

func (s *UserService) UploadAvatar(ctx context.Context, actor *domain.Identity, img *domain.ImageUpload) (string, error) {
	if err := domain.RequireAuthenticated(actor); err != nil {
		return "", err
	}

	user, err := s.repo.FindByID(actor.UserID)
	if err != nil {
		return "", fmt.Errorf("could not upload avatar: %w", err)
	}
	if user == nil {
		return "", domain.NotFound("User not found.")
	}

	filename, err := s.files.SaveAvatar(actor.UserID, img)
	if err != nil {
		return "", fmt.Errorf("could not save avatar: %w", err)
	}

	// If the row update fails the freshly written file is an orphan; remove
	// it before reporting the error.
	if err := s.repo.UpdateAvatar(actor.UserID, filename); err != nil {
		s.files.RemoveAvatar(filename)
		return "", err
	}

	if user.Avatar != "" {
		s.files.RemoveAvatar(user.Avatar)
	}

	return filename, nil
}

func (s *UserService) RemoveAvatar(ctx context.Context, actor *domain.Identity) error {
	if err := domain.RequireAuthenticated(actor); err != nil {
		return err
	}

	user, err := s.repo.FindByID(actor.UserID)
	if err != nil {
		return fmt.Errorf("could not remove avatar: %w", err)
	}
	if user == nil {
		return domain.NotFound("User not found.")
	}

	if user.Avatar != "" {
		s.files.RemoveAvatar(user.Avatar)
	}

	return s.repo.UpdateAvatar(actor.UserID, "")
}

func (s *UserService) ListUsers(ctx context.Context, actor *domain.Identity) ([]domain.UserListItem, error) {
	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	return s.repo.ListWithPostCounts()
}

func (s *UserService) Promote(ctx context.Context, actor *domain.Identity, targetID int64) error {
	if err := domain.RequireAdmin(actor); err != nil {
		return err
	}

	target, err := s.repo.FindByID(targetID)
	if err != nil {
		return fmt.Errorf("could not promote user: %w", err)
	}
	if target == nil {
		return domain.NotFound("User not found.")
	}

	// The decision uses the role loaded here; UpdateRole applies to the same
	// row by id, so there is no window for the target to change owners.
	if err := domain.CanPromote(actor, target); err != nil {
		return err
	}

	if err := s.repo.UpdateRole(targetID, domain.RoleAdmin); err != nil {
		return err
	}

	s.logger.Info("User promoted", map[string]interface{}{"target_id": targetID, "actor_id": actor.UserID})
	return nil
}

func (s *UserService) Demote(ctx context.Context, actor *domain.Identity, targetID int64) error {
	if err := domain.RequireOwnerRole(actor); err != nil {
		return err
	}

	target, err := s.repo.FindByID(targetID)
	if err != nil {
		return fmt.Errorf("could not demote user: %w", err)
	}
	if target == nil {
		return domain.NotFound("User not found.")
	}

	if err := domain.CanDemote(actor, target); err != nil {
		return err
	}

	if err := s.repo.UpdateRole(targetID, domain.RoleUser); err != nil {
		return err
	}

	s.logger.Info("User demoted", map[string]interface{}{"target_id": targetID, "actor_id": actor.UserID})
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor *domain.Identity, targetID int64) error {
	if err := domain.RequireAdmin(actor); err != nil {
		return err
	}

	target, err := s.repo.FindByID(targetID)
	if err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	if target == nil {
		return domain.NotFound("User not found.")
	}

	if err := domain.CanDeleteUser(actor, target); err != nil {
		return err
	}

	// Collect image filenames before the rows disappear.
	images, err := s.posts.ImagesByUser(targetID)
	if err != nil {
		return err
	}

	if err := s.comments.DeleteByUser(targetID); err != nil {
		return err
	}
	if err := s.posts.DeleteByUser(targetID); err != nil {
		return err
	}
	if err := s.repo.Delete(targetID); err != nil {
		return err
	}

	for _, image := range images {
		s.files.RemovePostImage(image)
	}
	if target.Avatar != "" {
		s.files.RemoveAvatar(target.Avatar)
	}

	s.logger.Info("User deleted", map[string]interface{}{"target_id": targetID, "actor_id": actor.UserID})
	return nil
}
