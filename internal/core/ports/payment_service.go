package ports

import (
	"context"
	"time"

	"github.com/kwolity/realty-api/internal/core/domain"
)

// CreatePaymentInput carries all data needed to record a payment. The payment
// reference is assigned by the service.
type CreatePaymentInput struct {
	BookingID string
	Amount    float64
	Purpose   string
}

// GatewayEventInput is an asynchronous settlement notification from the
// payment gateway, consumed by the webhook dispatcher.
type GatewayEventInput struct {
	PaymentRef      string
	Status          string
	GatewayResponse string
	Timestamp       time.Time
}

// PaymentService defines use-case operations for payments.
type PaymentService interface {
	Create(ctx context.Context, caller Identity, input CreatePaymentInput) (*domain.Payment, error)
	Get(ctx context.Context, caller Identity, id string) (*domain.Payment, error)
	ListAll(ctx context.Context) ([]*domain.Payment, error)
	ListMine(ctx context.Context, caller Identity) ([]*domain.Payment, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.Payment, error)
	Update(ctx context.Context, id string, input UpdatePaymentInput) (*domain.Payment, error)
	Delete(ctx context.Context, id string) error
	// Verify marks a pending payment as completed after the client confirms
	// the charge with the gateway; owner or admin only.
	Verify(ctx context.Context, caller Identity, id string) (*domain.Payment, error)
	// ProcessGatewayEvent applies a settlement notification to the payment it
	// references. Idempotency is handled by the dispatcher's dedup layer.
	ProcessGatewayEvent(ctx context.Context, event GatewayEventInput) error
}
