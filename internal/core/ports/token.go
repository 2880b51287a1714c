package ports

import (
	"context"
	"time"
)

// TokenDenylist marks refresh tokens as spent so a rotated token cannot be
// replayed within its remaining lifetime.
type TokenDenylist interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}
