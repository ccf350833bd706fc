package middleware

import (
	"context"
	"net/http"

	"forumapi/internal/domain"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "forum_session"

type contextKey int

const (
	identityKey contextKey = iota
	tokenKey
)

// Identity resolves the session cookie into a request-scoped identity once,
// so handlers never touch session state themselves. Requests without a valid
// session pass through as anonymous.
func Identity(sessions domain.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			ctx = context.WithValue(ctx, tokenKey, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the caller's identity, or nil for anonymous requests.
func IdentityFrom(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityKey).(*domain.Identity)
	return identity
}

// TokenFrom returns the session token that produced the identity.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
