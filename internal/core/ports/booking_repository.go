package ports

import (
	"context"
	"time"

	"github.com/kwolity/realty-api/internal/core/domain"
)

// UpdateBookingInput carries a partial booking update; nil fields are untouched.
type UpdateBookingInput struct {
	StartDate   *time.Time
	EndDate     *time.Time
	TotalAmount *float64
	Status      *string
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	FindAll(ctx context.Context) ([]*domain.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	Update(ctx context.Context, id string, input UpdateBookingInput) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
}
