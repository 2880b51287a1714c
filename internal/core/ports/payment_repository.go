package ports

import (
	"context"

	"github.com/kwolity/realty-api/internal/core/domain"
)

// UpdatePaymentInput carries a partial payment update; nil fields are untouched.
type UpdatePaymentInput struct {
	Amount          *float64
	Status          *string
	GatewayResponse *string
}

// PaymentRepository defines persistence operations for payments. Create must
// enforce payment_ref uniqueness atomically and return
// domain.ErrDuplicatePaymentRef on conflict.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByRef(ctx context.Context, ref string) (*domain.Payment, error)
	FindAll(ctx context.Context) ([]*domain.Payment, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*domain.Payment, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Payment, error)
	Update(ctx context.Context, id string, input UpdatePaymentInput) (*domain.Payment, error)
	Delete(ctx context.Context, id string) error
}
