package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

type stubPaymentRepo struct {
	createFn        func(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	findByIDFn      func(ctx context.Context, id string) (*domain.Payment, error)
	findByRefFn     func(ctx context.Context, ref string) (*domain.Payment, error)
	findAllFn       func(ctx context.Context) ([]*domain.Payment, error)
	findByBookingFn func(ctx context.Context, bookingID string) ([]*domain.Payment, error)
	findByUserFn    func(ctx context.Context, userID string) ([]*domain.Payment, error)
	updateFn        func(ctx context.Context, id string, input ports.UpdatePaymentInput) (*domain.Payment, error)
	deleteFn        func(ctx context.Context, id string) error
}

func (s *stubPaymentRepo) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	return s.createFn(ctx, p)
}

func (s *stubPaymentRepo) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubPaymentRepo) FindByRef(ctx context.Context, ref string) (*domain.Payment, error) {
	return s.findByRefFn(ctx, ref)
}

func (s *stubPaymentRepo) FindAll(ctx context.Context) ([]*domain.Payment, error) {
	return s.findAllFn(ctx)
}

func (s *stubPaymentRepo) FindByBooking(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	return s.findByBookingFn(ctx, bookingID)
}

func (s *stubPaymentRepo) FindByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	return s.findByUserFn(ctx, userID)
}

func (s *stubPaymentRepo) Update(ctx context.Context, id string, input ports.UpdatePaymentInput) (*domain.Payment, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubPaymentRepo) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

// memoryDedup is an in-process GatewayDedup for tests.
type memoryDedup struct {
	seen map[string]bool
}

func newMemoryDedup() *memoryDedup {
	return &memoryDedup{seen: make(map[string]bool)}
}

func (m *memoryDedup) dedupKey(ref, status string, ts time.Time) string {
	return ref + "|" + status + "|" + ts.UTC().Format(time.RFC3339)
}

func (m *memoryDedup) IsDuplicate(ctx context.Context, ref, status string, ts time.Time) (bool, error) {
	return m.seen[m.dedupKey(ref, status, ts)], nil
}

func (m *memoryDedup) Mark(ctx context.Context, ref, status string, ts time.Time) error {
	m.seen[m.dedupKey(ref, status, ts)] = true
	return nil
}

func TestPaymentService_Create_AssignsRefAndPending(t *testing.T) {
	repo := &stubPaymentRepo{
		createFn: func(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
			p.ID = "pay1"
			return p, nil
		},
	}
	svc := NewPaymentService(repo, newMemoryDedup(), zerolog.Nop())

	payment, err := svc.Create(context.Background(), tenant("u1"), ports.CreatePaymentInput{
		BookingID: "b1",
		Amount:    500,
		Purpose:   string(domain.PurposeBooking),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(payment.PaymentRef, "PAY-") {
		t.Fatalf("unexpected payment ref: %s", payment.PaymentRef)
	}
	if payment.Status != domain.PaymentPending {
		t.Fatalf("new payments start pending, got %s", payment.Status)
	}
	if payment.UserID != "u1" {
		t.Fatalf("payment must belong to the caller, got %s", payment.UserID)
	}
}

func TestPaymentService_Create_InvalidPurpose(t *testing.T) {
	svc := NewPaymentService(&stubPaymentRepo{}, newMemoryDedup(), zerolog.Nop())

	_, err := svc.Create(context.Background(), tenant("u1"), ports.CreatePaymentInput{
		Amount:  500,
		Purpose: "tip",
	})
	if !errors.Is(err, domain.ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
}

func TestPaymentService_Get_OwnershipEnforced(t *testing.T) {
	repo := &stubPaymentRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.Payment, error) {
			return &domain.Payment{ID: id, UserID: "owner"}, nil
		},
	}
	svc := NewPaymentService(repo, newMemoryDedup(), zerolog.Nop())

	if _, err := svc.Get(context.Background(), tenant("owner"), "pay1"); err != nil {
		t.Fatalf("owner must read own payment: %v", err)
	}
	if _, err := svc.Get(context.Background(), admin(), "pay1"); err != nil {
		t.Fatalf("admin must read any payment: %v", err)
	}
	if _, err := svc.Get(context.Background(), tenant("stranger"), "pay1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPaymentService_Verify_MarksCompleted(t *testing.T) {
	var applied *ports.UpdatePaymentInput
	repo := &stubPaymentRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.Payment, error) {
			return &domain.Payment{ID: id, UserID: "owner", Status: domain.PaymentPending}, nil
		},
		updateFn: func(ctx context.Context, id string, input ports.UpdatePaymentInput) (*domain.Payment, error) {
			applied = &input
			return &domain.Payment{ID: id, Status: domain.PaymentCompleted}, nil
		},
	}
	svc := NewPaymentService(repo, newMemoryDedup(), zerolog.Nop())

	payment, err := svc.Verify(context.Background(), tenant("owner"), "pay1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payment.Status != domain.PaymentCompleted {
		t.Fatalf("expected completed, got %s", payment.Status)
	}
	if applied == nil || applied.Status == nil || *applied.Status != string(domain.PaymentCompleted) {
		t.Fatalf("status not applied: %+v", applied)
	}
}

func TestPaymentService_Verify_StrangerForbidden(t *testing.T) {
	repo := &stubPaymentRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.Payment, error) {
			return &domain.Payment{ID: id, UserID: "owner"}, nil
		},
		updateFn: func(ctx context.Context, id string, input ports.UpdatePaymentInput) (*domain.Payment, error) {
			t.Fatal("update must not be reached")
			return nil, nil
		},
	}
	svc := NewPaymentService(repo, newMemoryDedup(), zerolog.Nop())

	if _, err := svc.Verify(context.Background(), tenant("stranger"), "pay1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPaymentService_ProcessGatewayEvent_AppliesStatus(t *testing.T) {
	var applied *ports.UpdatePaymentInput
	repo := &stubPaymentRepo{
		findByRefFn: func(ctx context.Context, ref string) (*domain.Payment, error) {
			return &domain.Payment{ID: "pay1", PaymentRef: ref, Status: domain.PaymentPending}, nil
		},
		updateFn: func(ctx context.Context, id string, input ports.UpdatePaymentInput) (*domain.Payment, error) {
			applied = &input
			return &domain.Payment{ID: id}, nil
		},
	}
	svc := NewPaymentService(repo, newMemoryDedup(), zerolog.Nop())

	err := svc.ProcessGatewayEvent(context.Background(), ports.GatewayEventInput{
		PaymentRef:      "PAY-abc",
		Status:          string(domain.PaymentCompleted),
		GatewayResponse: `{"code":"00"}`,
		Timestamp:       time.Now(),
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if applied == nil || applied.Status == nil || *applied.Status != string(domain.PaymentCompleted) {
		t.Fatalf("status not applied: %+v", applied)
	}
	if applied.GatewayResponse == nil || *applied.GatewayResponse != `{"code":"00"}` {
		t.Fatal("gateway response not recorded")
	}
}

func TestPaymentService_ProcessGatewayEvent_DuplicateSkipped(t *testing.T) {
	updates := 0
	repo := &stubPaymentRepo{
		findByRefFn: func(ctx context.Context, ref string) (*domain.Payment, error) {
			return &domain.Payment{ID: "pay1", PaymentRef: ref}, nil
		},
		updateFn: func(ctx context.Context, id string, input ports.UpdatePaymentInput) (*domain.Payment, error) {
			updates++
			return &domain.Payment{ID: id}, nil
		},
	}
	svc := NewPaymentService(repo, newMemoryDedup(), zerolog.Nop())

	event := ports.GatewayEventInput{
		PaymentRef: "PAY-abc",
		Status:     string(domain.PaymentCompleted),
		Timestamp:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	if err := svc.ProcessGatewayEvent(context.Background(), event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := svc.ProcessGatewayEvent(context.Background(), event); err != nil {
		t.Fatalf("retry must be absorbed: %v", err)
	}
	if updates != 1 {
		t.Fatalf("expected exactly one update, got %d", updates)
	}
}

func TestPaymentService_ProcessGatewayEvent_InvalidStatus(t *testing.T) {
	svc := NewPaymentService(&stubPaymentRepo{}, newMemoryDedup(), zerolog.Nop())

	err := svc.ProcessGatewayEvent(context.Background(), ports.GatewayEventInput{
		PaymentRef: "PAY-abc",
		Status:     "refunded",
	})
	if err == nil {
		t.Fatal("expected an error for an unknown status")
	}
}

func TestPaymentService_ProcessGatewayEvent_UnknownRef(t *testing.T) {
	repo := &stubPaymentRepo{
		findByRefFn: func(ctx context.Context, ref string) (*domain.Payment, error) {
			return nil, domain.ErrPaymentNotFound
		},
	}
	svc := NewPaymentService(repo, newMemoryDedup(), zerolog.Nop())

	err := svc.ProcessGatewayEvent(context.Background(), ports.GatewayEventInput{
		PaymentRef: "PAY-ghost",
		Status:     string(domain.PaymentFailed),
	})
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}
