package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// AccessClaims are the self-contained claims of a short-lived access token.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims are the claims of a refresh token. The ID (jti) makes each
// token individually revocable.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the access/refresh token pair. The two
// token kinds are signed with distinct secrets so a leak of one cannot be
// replayed as the other.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTL returns the configured access-token lifetime (used for cookie expiry).
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssueAccessToken mints a signed access token carrying the user's id and role.
func (m *TokenManager) IssueAccessToken(userID, role string) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.accessSecret)
}

// IssueRefreshToken mints a signed refresh token with a unique jti.
func (m *TokenManager) IssueRefreshToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.refreshSecret)
}

// VerifyAccessToken checks signature and expiry against the access secret and
// returns the verified identity. Every failure collapses to ErrInvalidToken so
// callers cannot distinguish a forged token from an expired one.
func (m *TokenManager) VerifyAccessToken(token string) (*ports.Identity, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.accessSecret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return &ports.Identity{UserID: claims.Subject, Role: claims.Role}, nil
}

// VerifyRefreshToken checks a refresh token against the refresh secret and
// returns its subject, jti, and expiry.
func (m *TokenManager) VerifyRefreshToken(token string) (userID, jti string, expiresAt time.Time, err error) {
	claims := &RefreshClaims{}
	parsed, perr := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.refreshSecret, nil
	})
	if perr != nil || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return "", "", time.Time{}, domain.ErrInvalidRefreshToken
	}
	return claims.Subject, claims.ID, claims.ExpiresAt.Time, nil
}
