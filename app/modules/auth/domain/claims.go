package authdomain

import (
	"context"
	"time"
)

// Claims identifies the caller of an API request.
type Claims struct {
	UserID    string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// IsAdmin reports whether the caller may administer games and rounds.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type claimsKey struct{}

// WithClaims stores claims on the request context.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims stored by the auth middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
