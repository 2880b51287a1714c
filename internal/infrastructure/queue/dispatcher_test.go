package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

// recordingPaymentService records processed gateway events; the rest of the
// interface is unused by the dispatcher.
type recordingPaymentService struct {
	mu     sync.Mutex
	events []ports.GatewayEventInput
	done   chan struct{}
	want   int
}

func newRecordingPaymentService(want int) *recordingPaymentService {
	return &recordingPaymentService{done: make(chan struct{}), want: want}
}

func (r *recordingPaymentService) ProcessGatewayEvent(ctx context.Context, event ports.GatewayEventInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if len(r.events) == r.want {
		close(r.done)
	}
	return nil
}

func (r *recordingPaymentService) Create(ctx context.Context, caller ports.Identity, input ports.CreatePaymentInput) (*domain.Payment, error) {
	return nil, nil
}

func (r *recordingPaymentService) Get(ctx context.Context, caller ports.Identity, id string) (*domain.Payment, error) {
	return nil, nil
}

func (r *recordingPaymentService) ListAll(ctx context.Context) ([]*domain.Payment, error) {
	return nil, nil
}

func (r *recordingPaymentService) ListMine(ctx context.Context, caller ports.Identity) ([]*domain.Payment, error) {
	return nil, nil
}

func (r *recordingPaymentService) ListByBooking(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	return nil, nil
}

func (r *recordingPaymentService) Update(ctx context.Context, id string, input ports.UpdatePaymentInput) (*domain.Payment, error) {
	return nil, nil
}

func (r *recordingPaymentService) Delete(ctx context.Context, id string) error {
	return nil
}

func (r *recordingPaymentService) Verify(ctx context.Context, caller ports.Identity, id string) (*domain.Payment, error) {
	return nil, nil
}

func TestDispatcher_ProcessesEnqueuedEvents(t *testing.T) {
	svc := newRecordingPaymentService(3)
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for _, ref := range []string{"PAY-a", "PAY-b", "PAY-c"} {
		d.Enqueue(ports.GatewayEventInput{PaymentRef: ref, Status: "completed"})
	}

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("events not processed in time")
	}
}

func TestDispatcher_SameRefSameWorker(t *testing.T) {
	d := NewDispatcher(4, newRecordingPaymentService(0), zerolog.Nop())

	first := d.shardIndex("PAY-sticky")
	for i := 0; i < 50; i++ {
		if got := d.shardIndex("PAY-sticky"); got != first {
			t.Fatalf("shard index must be stable, got %d then %d", first, got)
		}
	}
}

func TestDispatcher_OrderPreservedPerRef(t *testing.T) {
	const n = 20
	svc := newRecordingPaymentService(n)
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < n; i++ {
		d.Enqueue(ports.GatewayEventInput{
			PaymentRef: "PAY-ordered",
			Status:     "completed",
			Timestamp:  time.Unix(int64(i), 0),
		})
	}

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("events not processed in time")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	for i, event := range svc.events {
		if event.Timestamp.Unix() != int64(i) {
			t.Fatalf("event %d out of order: got ts %d", i, event.Timestamp.Unix())
		}
	}
}
