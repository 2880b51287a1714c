package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kwolity/realty-api/internal/api/metrics"
	"github.com/kwolity/realty-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes gateway settlement events to a fixed set of workers using
// consistent hashing on the payment reference, guaranteeing per-payment event
// ordering.
type Dispatcher struct {
	workers []chan ports.GatewayEventInput
	service ports.PaymentService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.PaymentService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.GatewayEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.GatewayEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its payment reference.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.GatewayEventInput) {
	idx := d.shardIndex(event.PaymentRef)
	d.workers[idx] <- event
	metrics.PaymentQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a payment reference deterministically to a worker index.
func (d *Dispatcher) shardIndex(paymentRef string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(paymentRef))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.GatewayEventInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.PaymentQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.service.ProcessGatewayEvent(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("payment_ref", event.PaymentRef).
					Int("worker_id", id).
					Msg("gateway event processing failed")
			}
		}
	}
}
