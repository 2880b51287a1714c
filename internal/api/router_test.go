package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kwolity/realty-api/internal/api/handler"
	"github.com/kwolity/realty-api/internal/api/middleware"
	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
	"github.com/kwolity/realty-api/internal/core/service"
)

// memUserRepo is an in-process UserRepository backing the session lifecycle
// test below.
type memUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]string
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[string]*domain.User), byEmail: make(map[string]string)}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, taken := r.byEmail[user.Email]; taken {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	stored := *user
	stored.ID = "u" + strconv.Itoa(r.nextID)
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	return &stored, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *memUserRepo) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		if other, taken := r.byEmail[*input.Email]; taken && other != id {
			return nil, domain.ErrEmailTaken
		}
		delete(r.byEmail, user.Email)
		user.Email = *input.Email
		r.byEmail[user.Email] = id
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	user.UpdatedAt = time.Now().UTC()
	return user, nil
}

func (r *memUserRepo) SaveProperty(ctx context.Context, userID, propertyID string) error {
	return nil
}

func (r *memUserRepo) UnsaveProperty(ctx context.Context, userID, propertyID string) error {
	return nil
}

type memDenylist struct {
	revoked map[string]bool
}

func (d *memDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return d.revoked[jti], nil
}

func (d *memDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	d.revoked[jti] = true
	return nil
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// TestRouter_SessionLifecycle drives the full session flow over the real
// routes: register, login, read the profile with the issued cookie, get
// rejected once the access token expires, rotate via refresh, and read the
// profile again with the new pair. The rotated-out refresh token must be dead.
func TestRouter_SessionLifecycle(t *testing.T) {
	const (
		accessSecret  = "access-secret"
		refreshSecret = "refresh-secret"
	)

	repo := newMemUserRepo()
	denylist := &memDenylist{revoked: make(map[string]bool)}
	tokens := service.NewTokenManager(accessSecret, refreshSecret, 15*time.Minute, time.Hour)
	auth := service.NewAuthService(repo, tokens, denylist, bcrypt.MinCost, zerolog.Nop())

	e := NewRouter(Dependencies{
		Log:      zerolog.Nop(),
		Auth:     auth,
		Verifier: tokens,
		Users:    repo,
		Cookies: handler.CookieSettings{
			AccessTTL:  tokens.AccessTTL(),
			RefreshTTL: tokens.RefreshTTL(),
		},
	})

	do := func(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	// Register.
	rec := do(http.MethodPost, "/auth/register",
		`{"name":"Ada","email":"Ada@Example.com","password":"correct-horse"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Login; the pair arrives as HttpOnly cookies.
	rec = do(http.MethodPost, "/auth/login",
		`{"email":"ada@example.com","password":"correct-horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	access := cookieByName(rec.Result().Cookies(), middleware.AccessTokenCookie)
	refresh := cookieByName(rec.Result().Cookies(), middleware.RefreshTokenCookie)
	if access == nil || refresh == nil {
		t.Fatal("login must set both token cookies")
	}

	// Profile with the fresh access cookie.
	rec = do(http.MethodGet, "/users/profile", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var profile domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Email != "ada@example.com" || profile.Role != domain.RoleTenant {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	// An expired access token, same secret. The verifier must reject it with
	// the same uniform 401 a missing token gets.
	shortLived := service.NewTokenManager(accessSecret, refreshSecret, time.Nanosecond, time.Hour)
	expiredToken, err := shortLived.IssueAccessToken(profile.ID, profile.Role)
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	expired := &http.Cookie{Name: middleware.AccessTokenCookie, Value: expiredToken}
	rec = do(http.MethodGet, "/users/profile", "", expired)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired access: expected 401, got %d", rec.Code)
	}

	// Rotate via the refresh cookie.
	rec = do(http.MethodPost, "/auth/refresh", "", refresh)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	newAccess := cookieByName(rec.Result().Cookies(), middleware.AccessTokenCookie)
	newRefresh := cookieByName(rec.Result().Cookies(), middleware.RefreshTokenCookie)
	if newAccess == nil || newRefresh == nil {
		t.Fatal("refresh must set both token cookies")
	}
	if newRefresh.Value == refresh.Value {
		t.Fatal("rotation must mint a new refresh token")
	}

	// The new pair works.
	rec = do(http.MethodGet, "/users/profile", "", newAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile after rotation: expected 200, got %d", rec.Code)
	}

	// The consumed refresh token is dead.
	rec = do(http.MethodPost, "/auth/refresh", "", refresh)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("replayed refresh: expected 401, got %d", rec.Code)
	}
}
