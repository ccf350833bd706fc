package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"forumapi/internal/domain"
	"forumapi/pkg/logger"
)

// Token length in bytes; 32 bytes encode to 64 hex characters.
const tokenLength = 32

// RedisStore keeps sessions in redis as JSON identities under a token key,
// with a per-user index key so a fresh login can invalidate the previous
// token. Rotation on login is the fixation defense.
type RedisStore struct {
	client *redis.Client
	logger logger.Logger
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, logger logger.Logger, prefix string, ttl time.Duration) domain.SessionStore {
	return &RedisStore{
		client: client,
		logger: logger,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) tokenKey(token string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, token)
}

func (s *RedisStore) userKey(userID int64) string {
	return fmt.Sprintf("%s:session_user:%d", s.prefix, userID)
}

func generateToken() (string, error) {
	bytes := make([]byte, tokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("could not generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func (s *RedisStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	// Drop the user's previous session first so the old token dies with the
	// new login.
	if old, err := s.client.Get(ctx, s.userKey(identity.UserID)).Result(); err == nil && old != "" {
		s.client.Del(ctx, s.tokenKey(old))
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("could not marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.tokenKey(token), data, s.ttl).Err(); err != nil {
		s.logger.Error("Could not store session", map[string]interface{}{"user_id": identity.UserID, "error": err.Error()})
		return "", fmt.Errorf("could not store session: %w", err)
	}

	if err := s.client.Set(ctx, s.userKey(identity.UserID), token, s.ttl).Err(); err != nil {
		s.logger.Error("Could not store session index", map[string]interface{}{"user_id": identity.UserID, "error": err.Error()})
	}

	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		s.logger.Error("Could not read session", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("could not read session: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return nil, fmt.Errorf("could not unmarshal session: %w", err)
	}

	return &identity, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	identity, err := s.Get(ctx, token)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return nil
		}
		return err
	}

	if err := s.client.Del(ctx, s.tokenKey(token)).Err(); err != nil {
		s.logger.Error("Could not delete session", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("could not delete session: %w", err)
	}

	s.client.Del(ctx, s.userKey(identity.UserID))
	return nil
}

func (s *RedisStore) UpdateUsername(ctx context.Context, token, username string) error {
	identity, err := s.Get(ctx, token)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return nil
		}
		return err
	}

	identity.Username = username

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	// Keep the remaining TTL; a profile edit should not extend the session.
	if err := s.client.Set(ctx, s.tokenKey(token), data, redis.KeepTTL).Err(); err != nil {
		s.logger.Error("Could not update session", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("could not update session: %w", err)
	}

	return nil
}
