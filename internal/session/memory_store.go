package session

import (
	"context"
	"sync"

	"forumapi/internal/domain"
)

// MemoryStore mirrors RedisStore semantics without a server. It backs tests
// and local runs without redis.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Identity
	byUser   map[int64]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.Identity),
		byUser:   make(map[int64]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byUser[identity.UserID]; ok {
		delete(s.sessions, old)
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	s.sessions[token] = identity
	s.byUser[identity.UserID] = token
	return token, nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &identity, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if identity, ok := s.sessions[token]; ok {
		delete(s.byUser, identity.UserID)
		delete(s.sessions, token)
	}
	return nil
}

func (s *MemoryStore) UpdateUsername(ctx context.Context, token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if identity, ok := s.sessions[token]; ok {
		identity.Username = username
		s.sessions[token] = identity
	}
	return nil
}
