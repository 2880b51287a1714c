package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

type stubPaymentService struct {
	createFn func(ctx context.Context, caller ports.Identity, input ports.CreatePaymentInput) (*domain.Payment, error)
}

func (s *stubPaymentService) Create(ctx context.Context, caller ports.Identity, input ports.CreatePaymentInput) (*domain.Payment, error) {
	return s.createFn(ctx, caller, input)
}

func (s *stubPaymentService) Get(ctx context.Context, caller ports.Identity, id string) (*domain.Payment, error) {
	return nil, nil
}

func (s *stubPaymentService) ListAll(ctx context.Context) ([]*domain.Payment, error) {
	return nil, nil
}

func (s *stubPaymentService) ListMine(ctx context.Context, caller ports.Identity) ([]*domain.Payment, error) {
	return nil, nil
}

func (s *stubPaymentService) ListByBooking(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	return nil, nil
}

func (s *stubPaymentService) Update(ctx context.Context, id string, input ports.UpdatePaymentInput) (*domain.Payment, error) {
	return nil, nil
}

func (s *stubPaymentService) Delete(ctx context.Context, id string) error {
	return nil
}

func (s *stubPaymentService) Verify(ctx context.Context, caller ports.Identity, id string) (*domain.Payment, error) {
	return nil, nil
}

func (s *stubPaymentService) ProcessGatewayEvent(ctx context.Context, event ports.GatewayEventInput) error {
	return nil
}

type recordingDispatcher struct {
	events []ports.GatewayEventInput
}

func (r *recordingDispatcher) Enqueue(event ports.GatewayEventInput) {
	r.events = append(r.events, event)
}

func TestPaymentHandler_Webhook_Accepted(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	h := NewPaymentHandler(&stubPaymentService{}, dispatcher)

	c, rec := newTestContext(t, http.MethodPost, "/payments/webhook",
		`{"payment_ref":"PAY-abc","status":"completed","gateway_response":"{\"code\":\"00\"}"}`)

	if err := h.Webhook(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(dispatcher.events) != 1 {
		t.Fatalf("expected 1 queued event, got %d", len(dispatcher.events))
	}
	event := dispatcher.events[0]
	if event.PaymentRef != "PAY-abc" || event.Status != "completed" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("missing timestamp must be defaulted")
	}
}

func TestPaymentHandler_Webhook_UnknownStatusRejected(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	h := NewPaymentHandler(&stubPaymentService{}, dispatcher)

	c, _ := newTestContext(t, http.MethodPost, "/payments/webhook",
		`{"payment_ref":"PAY-abc","status":"refunded"}`)

	err := h.Webhook(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if len(dispatcher.events) != 0 {
		t.Fatal("rejected events must not be queued")
	}
}

func TestPaymentHandler_Create_CallerAttached(t *testing.T) {
	stub := &stubPaymentService{
		createFn: func(ctx context.Context, caller ports.Identity, input ports.CreatePaymentInput) (*domain.Payment, error) {
			if caller.UserID != "u7" {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			return &domain.Payment{ID: "pay1", UserID: caller.UserID}, nil
		},
	}
	h := NewPaymentHandler(stub, &recordingDispatcher{})

	c, rec := newTestContext(t, http.MethodPost, "/payments",
		`{"booking_id":"b1","amount":500,"purpose":"booking"}`)
	c.Set("user_id", "u7")
	c.Set("role", domain.RoleTenant)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}
