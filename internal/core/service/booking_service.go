package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kwolity/realty-api/internal/api/metrics"
	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

type BookingService struct {
	repo       ports.BookingRepository
	properties ports.PropertyRepository
	logger     zerolog.Logger
}

func NewBookingService(repo ports.BookingRepository, properties ports.PropertyRepository, logger zerolog.Logger) *BookingService {
	return &BookingService{repo: repo, properties: properties, logger: logger}
}

func (s *BookingService) Create(ctx context.Context, caller ports.Identity, input ports.CreateBookingInput) (*domain.Booking, error) {
	if !input.EndDate.After(input.StartDate) {
		return nil, domain.ErrInvalidBookingDates
	}
	// The property must exist and be on the market.
	if _, err := s.properties.FindByID(ctx, input.PropertyID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		PropertyID:  input.PropertyID,
		UserID:      caller.UserID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		TotalAmount: input.TotalAmount,
		Status:      domain.BookingPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		s.logger.Error().Err(err).Str("property_id", input.PropertyID).Msg("failed to create booking")
		return nil, err
	}

	metrics.BookingsCreatedTotal.Inc()
	s.logger.Info().Str("booking_id", created.ID).Str("user_id", caller.UserID).Msg("booking created")
	return created, nil
}

// Get returns a booking if the caller owns it or is an admin.
func (s *BookingService) Get(ctx context.Context, caller ports.Identity, id string) (*domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.OwnedBy(caller.UserID) && caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	return s.repo.FindAll(ctx)
}

func (s *BookingService) ListMine(ctx context.Context, caller ports.Identity) ([]*domain.Booking, error) {
	return s.repo.FindByUser(ctx, caller.UserID)
}

func (s *BookingService) Update(ctx context.Context, caller ports.Identity, id string, input ports.UpdateBookingInput) (*domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.OwnedBy(caller.UserID) && caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	start, end := booking.StartDate, booking.EndDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	if input.EndDate != nil {
		end = *input.EndDate
	}
	if !end.After(start) {
		return nil, domain.ErrInvalidBookingDates
	}

	return s.repo.Update(ctx, id, input)
}

func (s *BookingService) Delete(ctx context.Context, caller ports.Identity, id string) error {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !booking.OwnedBy(caller.UserID) && caller.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("booking_id", id).Msg("booking deleted")
	return nil
}
