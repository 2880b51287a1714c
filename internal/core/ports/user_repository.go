package ports

import (
	"context"

	"github.com/kwolity/realty-api/internal/core/domain"
)

// UpdateUserInput carries a partial profile update. Nil fields are left
// untouched; role is deliberately absent (admin-gated elsewhere).
type UpdateUserInput struct {
	Name  *string
	Email *string
	Phone *string
}

// UserRepository defines persistence for user accounts. Create must enforce
// email uniqueness atomically with the insert and return domain.ErrEmailTaken
// on conflict.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	SaveProperty(ctx context.Context, userID, propertyID string) error
	UnsaveProperty(ctx context.Context, userID, propertyID string) error
}
