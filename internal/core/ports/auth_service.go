package ports

import (
	"context"

	"github.com/kwolity/realty-api/internal/core/domain"
)

// Identity is the verified caller attached to every authenticated request.
// Downstream handlers depend on this single shape regardless of whether the
// token arrived in a cookie or a bearer header.
type Identity struct {
	UserID string
	Role   string
}

// TokenPair is an access/refresh token set minted at login or rotation.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterInput carries the fields accepted at account creation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	// Refresh exchanges a valid refresh token for a new pair, revoking the
	// old token so it cannot be replayed.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateUserInput) (*domain.User, error)
}
