package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kwolity/realty-api/internal/api/metrics"
	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

// AuthService implements registration, login, token rotation, and profile
// operations on top of the user repository and the token manager.
type AuthService struct {
	users      ports.UserRepository
	tokens     *TokenManager
	denylist   ports.TokenDenylist
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *TokenManager, denylist ports.TokenDenylist, bcryptCost int, log zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, denylist: denylist, bcryptCost: bcryptCost, log: log}
}

// normalizeEmail lowercases and trims an email so uniqueness is
// case-insensitive at the store.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role := input.Role
	if role == "" {
		role = domain.RoleTenant
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}
	// The public path never grants admin; admins are promoted by an existing admin.
	if role == domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: string(hash),
		Role:         role,
		Phone:        strings.TrimSpace(input.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(role).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login verifies credentials and mints a token pair. Unknown email and wrong
// password are indistinguishable to the caller: both return
// ErrInvalidCredentials, closing the account-enumeration channel.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return pair, user, nil
}

// Refresh rotates a refresh token: verify, check the denylist, revoke the old
// jti for its remaining lifetime, and mint a fresh pair. The user record is
// re-read so role changes take effect at rotation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	userID, jti, expiresAt, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		metrics.TokenRotationsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidRefreshToken
	}

	revoked, err := s.denylist.IsRevoked(ctx, jti)
	if err != nil {
		return nil, err
	}
	if revoked {
		metrics.TokenRotationsTotal.WithLabelValues("replayed").Inc()
		s.log.Warn().Str("user_id", userID).Str("jti", jti).Msg("refresh token replay detected")
		return nil, domain.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}

	if ttl := time.Until(expiresAt); ttl > 0 {
		if err := s.denylist.Revoke(ctx, jti, ttl); err != nil {
			return nil, err
		}
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	metrics.TokenRotationsTotal.WithLabelValues("rotated").Inc()
	return pair, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateUserInput) (*domain.User, error) {
	if input.Email != nil {
		norm := normalizeEmail(*input.Email)
		input.Email = &norm
	}
	return s.users.Update(ctx, userID, input)
}

func (s *AuthService) issuePair(user *domain.User) (*ports.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
