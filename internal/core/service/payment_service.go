package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kwolity/realty-api/internal/api/metrics"
	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

// GatewayDedup abstracts the idempotency store (Redis) for gateway webhooks.
type GatewayDedup interface {
	IsDuplicate(ctx context.Context, paymentRef, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, paymentRef, status string, ts time.Time) error
}

type PaymentService struct {
	repo   ports.PaymentRepository
	dedup  GatewayDedup
	logger zerolog.Logger
}

func NewPaymentService(repo ports.PaymentRepository, dedup GatewayDedup, logger zerolog.Logger) *PaymentService {
	return &PaymentService{repo: repo, dedup: dedup, logger: logger}
}

// newPaymentRef returns a reference in the format PAY-<uuid>.
func newPaymentRef() string {
	return "PAY-" + uuid.NewString()
}

func (s *PaymentService) Create(ctx context.Context, caller ports.Identity, input ports.CreatePaymentInput) (*domain.Payment, error) {
	purpose := domain.PaymentPurpose(input.Purpose)
	if !domain.ValidPaymentPurpose(purpose) {
		return nil, fmt.Errorf("%w: unknown purpose %q", domain.ErrInvalidPayment, input.Purpose)
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		UserID:     caller.UserID,
		BookingID:  input.BookingID,
		Amount:     input.Amount,
		Purpose:    purpose,
		PaymentRef: newPaymentRef(),
		Status:     domain.PaymentPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", caller.UserID).Msg("failed to create payment")
		return nil, err
	}

	s.logger.Info().Str("payment_ref", created.PaymentRef).Str("user_id", caller.UserID).Msg("payment created")
	return created, nil
}

// Get returns a payment if the caller owns it or is an admin.
func (s *PaymentService) Get(ctx context.Context, caller ports.Identity, id string) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.UserID != caller.UserID && caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return payment, nil
}

func (s *PaymentService) ListAll(ctx context.Context) ([]*domain.Payment, error) {
	return s.repo.FindAll(ctx)
}

func (s *PaymentService) ListMine(ctx context.Context, caller ports.Identity) ([]*domain.Payment, error) {
	return s.repo.FindByUser(ctx, caller.UserID)
}

func (s *PaymentService) ListByBooking(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	return s.repo.FindByBooking(ctx, bookingID)
}

func (s *PaymentService) Update(ctx context.Context, id string, input ports.UpdatePaymentInput) (*domain.Payment, error) {
	return s.repo.Update(ctx, id, input)
}

func (s *PaymentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Verify marks a payment completed on the synchronous path, when the client
// returns from the gateway with a success redirect. The asynchronous webhook
// remains authoritative: it overwrites the status with whatever the gateway
// finally settles.
func (s *PaymentService) Verify(ctx context.Context, caller ports.Identity, id string) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.UserID != caller.UserID && caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	status := string(domain.PaymentCompleted)
	updated, err := s.repo.Update(ctx, id, ports.UpdatePaymentInput{Status: &status})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("payment_ref", payment.PaymentRef).Str("user_id", caller.UserID).Msg("payment verified")
	return updated, nil
}

// ProcessGatewayEvent applies a settlement notification: deduplicate, locate
// the payment by reference, and record the new status plus the raw gateway
// response.
func (s *PaymentService) ProcessGatewayEvent(ctx context.Context, event ports.GatewayEventInput) error {
	status := domain.PaymentStatus(event.Status)
	if status != domain.PaymentCompleted && status != domain.PaymentFailed {
		metrics.PaymentEventsErrorsTotal.WithLabelValues("invalid_status").Inc()
		return fmt.Errorf("process gateway event: unknown status %q", event.Status)
	}

	isDup, err := s.dedup.IsDuplicate(ctx, event.PaymentRef, event.Status, event.Timestamp)
	if err != nil {
		s.logger.Warn().Err(err).Str("payment_ref", event.PaymentRef).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.PaymentEventsDedupTotal.WithLabelValues("hit").Inc()
		s.logger.Debug().Str("payment_ref", event.PaymentRef).Str("status", event.Status).Msg("duplicate gateway event skipped")
		return nil
	}
	metrics.PaymentEventsDedupTotal.WithLabelValues("miss").Inc()

	payment, err := s.repo.FindByRef(ctx, event.PaymentRef)
	if err != nil {
		metrics.PaymentEventsErrorsTotal.WithLabelValues("payment_not_found").Inc()
		return fmt.Errorf("process gateway event: %w", err)
	}

	// Mark before writing so a retried webhook does not double-apply.
	if markErr := s.dedup.Mark(ctx, event.PaymentRef, event.Status, event.Timestamp); markErr != nil {
		s.logger.Warn().Err(markErr).Str("payment_ref", event.PaymentRef).Msg("failed to set dedup key")
	}

	statusStr := string(status)
	update := ports.UpdatePaymentInput{
		Status:          &statusStr,
		GatewayResponse: &event.GatewayResponse,
	}
	if _, err := s.repo.Update(ctx, payment.ID, update); err != nil {
		metrics.PaymentEventsErrorsTotal.WithLabelValues("update_failed").Inc()
		return fmt.Errorf("process gateway event: update payment: %w", err)
	}

	metrics.PaymentEventsProcessedTotal.WithLabelValues(statusStr).Inc()
	s.logger.Info().
		Str("payment_ref", event.PaymentRef).
		Str("status", statusStr).
		Msg("gateway event processed")

	return nil
}
