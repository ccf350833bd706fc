package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"forumapi/internal/domain"
	"forumapi/pkg/logger"
)

const (
	avatarSubdir = "avatars"
	postSubdir   = "posts"
)

// Store owns the upload directory tree. Filenames encode the owning user and
// a timestamp, never client input.
type Store struct {
	dir    string
	logger logger.Logger
}

func NewStore(dir string, logger logger.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger,
	}
}

func (s *Store) save(subdir, name string, data []byte) error {
	dir := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create upload directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("could not write upload: %w", err)
	}

	return nil
}

func (s *Store) remove(subdir, name string) {
	if name == "" {
		return
	}
	// Base strips any path component a stored name could carry.
	path := filepath.Join(s.dir, subdir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Could not remove upload", map[string]interface{}{"path": path, "error": err.Error()})
	}
}

func (s *Store) SaveAvatar(userID int64, img *domain.ImageUpload) (string, error) {
	name := fmt.Sprintf("avatar_%d_%d.%s", userID, time.Now().UnixNano(), img.Ext)
	if err := s.save(avatarSubdir, name, img.Data); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Store) SavePostImage(userID int64, img *domain.ImageUpload) (string, error) {
	name := fmt.Sprintf("post_%d_%d.%s", userID, time.Now().UnixNano(), img.Ext)
	if err := s.save(postSubdir, name, img.Data); err != nil {
		return "", err
	}
	return name, nil
}

// RemoveAvatar and RemovePostImage are best effort; a missing file never
// blocks the database change it accompanies.
func (s *Store) RemoveAvatar(name string) {
	s.remove(avatarSubdir, name)
}

func (s *Store) RemovePostImage(name string) {
	s.remove(postSubdir, name)
}

func (s *Store) AvatarPath(name string) string {
	return filepath.Join(s.dir, avatarSubdir, filepath.Base(name))
}

func (s *Store) PostImagePath(name string) string {
	return filepath.Join(s.dir, postSubdir, filepath.Base(name))
}
