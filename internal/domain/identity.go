package domain

import "context"

// Identity is the request-scoped caller resolved from the session token.
// A nil *Identity means the request is anonymous.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// SessionStore maps opaque tokens to identities. Create must invalidate any
// prior token held by the same user so a login always rotates the session.
type SessionStore interface {
	Create(ctx context.Context, identity Identity) (string, error)
	Get(ctx context.Context, token string) (*Identity, error)
	Destroy(ctx context.Context, token string) error
	UpdateUsername(ctx context.Context, token, username string) error
}
