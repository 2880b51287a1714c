package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kwolity/realty-api/internal/api/middleware"
	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*ports.TokenPair, error)
	profileFn  func(ctx context.Context, userID string) (*domain.User, error)
	updateFn   func(ctx context.Context, userID string, input ports.UpdateUserInput) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, userID, input)
}

func testCookieSettings() CookieSettings {
	return CookieSettings{
		Secure:     false,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Email != "alice@example.com" || input.Role != domain.RoleLandlord {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u1", Name: input.Name, Email: input.Email, Role: input.Role}, nil
		},
	}
	h := NewAuthHandler(stub, testCookieSettings())

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"s3cretpass","role":"landlord"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatal("expected user in response")
	}
	if user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash must never be serialized")
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			t.Fatal("service must not be reached")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, testCookieSettings())

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Bob","email":"bob@example.com","password":"short"}`)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookies(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
			return &ports.TokenPair{AccessToken: "acc-tok", RefreshToken: "ref-tok"},
				&domain.User{ID: "u1", Email: email, Role: domain.RoleTenant}, nil
		},
	}
	h := NewAuthHandler(stub, testCookieSettings())

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"s3cretpass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	access := findCookie(rec, middleware.AccessTokenCookie)
	refresh := findCookie(rec, middleware.RefreshTokenCookie)
	if access == nil || access.Value != "acc-tok" {
		t.Fatalf("access cookie missing or wrong: %+v", access)
	}
	if refresh == nil || refresh.Value != "ref-tok" {
		t.Fatalf("refresh cookie missing or wrong: %+v", refresh)
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Fatal("token cookies must be HttpOnly")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, testCookieSettings())

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong-pass"}`)

	err := h.Login(c)
	if err == nil {
		t.Fatal("expected the domain error to propagate to the error handler")
	}
	if findCookie(rec, middleware.AccessTokenCookie) != nil {
		t.Fatal("no cookies may be set on failed login")
	}
}

func TestAuthHandler_Refresh_FromCookie(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
			if refreshToken != "old-ref" {
				t.Fatalf("unexpected token: %s", refreshToken)
			}
			return &ports.TokenPair{AccessToken: "new-acc", RefreshToken: "new-ref"}, nil
		},
	}
	h := NewAuthHandler(stub, testCookieSettings())

	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "old-ref"})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := findCookie(rec, middleware.RefreshTokenCookie); got == nil || got.Value != "new-ref" {
		t.Fatalf("rotated refresh cookie missing: %+v", got)
	}
}

func TestAuthHandler_Refresh_FromBody(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
			if refreshToken != "body-ref" {
				t.Fatalf("unexpected token: %s", refreshToken)
			}
			return &ports.TokenPair{AccessToken: "new-acc", RefreshToken: "new-ref"}, nil
		},
	}
	h := NewAuthHandler(stub, testCookieSettings())

	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"body-ref"}`)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
			t.Fatal("service must not be reached")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, testCookieSettings())

	c, _ := newTestContext(t, http.MethodPost, "/auth/refresh", "")

	err := h.Refresh(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookies(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, testCookieSettings())

	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", "")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	access := findCookie(rec, middleware.AccessTokenCookie)
	if access == nil || access.Value != "" || access.MaxAge >= 0 {
		t.Fatalf("access cookie not cleared: %+v", access)
	}
	refresh := findCookie(rec, middleware.RefreshTokenCookie)
	if refresh == nil || refresh.Value != "" || refresh.MaxAge >= 0 {
		t.Fatalf("refresh cookie not cleared: %+v", refresh)
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID != "u9" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return &domain.User{ID: userID, Email: "me@example.com"}, nil
		},
	}
	h := NewAuthHandler(stub, testCookieSettings())

	c, rec := newTestContext(t, http.MethodGet, "/users/profile", "")
	c.Set("user_id", "u9")
	c.Set("role", domain.RoleTenant)

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Profile_MissingIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, testCookieSettings())

	c, _ := newTestContext(t, http.MethodGet, "/users/profile", "")

	err := h.Profile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
