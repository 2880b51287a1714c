package domain

import (
	"errors"
	"time"
)

const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrUserNotFound = errors.New("user not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// ValidRole reports whether role is one of the recognised user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

// User models an account in the marketplace. PasswordHash is never serialized
// outward; the json tag enforces that at every response boundary.
type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Role            string    `json:"role"`
	Phone           string    `json:"phone,omitempty"`
	SavedProperties []string  `json:"saved_properties,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
