package ports

import (
	"context"
	"time"

	"github.com/kwolity/realty-api/internal/core/domain"
)

// CreateBookingInput carries all data needed to reserve a property.
type CreateBookingInput struct {
	PropertyID  string
	StartDate   time.Time
	EndDate     time.Time
	TotalAmount float64
}

// BookingService defines use-case operations for bookings. Every read or
// mutation of a specific booking enforces owner-or-admin access using the
// caller's Identity.
type BookingService interface {
	Create(ctx context.Context, caller Identity, input CreateBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, caller Identity, id string) (*domain.Booking, error)
	ListAll(ctx context.Context) ([]*domain.Booking, error)
	ListMine(ctx context.Context, caller Identity) ([]*domain.Booking, error)
	Update(ctx context.Context, caller Identity, id string, input UpdateBookingInput) (*domain.Booking, error)
	Delete(ctx context.Context, caller Identity, id string) error
}
