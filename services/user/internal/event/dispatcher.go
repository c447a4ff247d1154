package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	pkgkafka "github.com/AfsalAzizi/food-delivery-platform/pkg/kafka"
)

// Publisher delivers one envelope. *pkgkafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// DispatcherConfig sizes the outbound queue.
type DispatcherConfig struct {
	QueueSize      int
	Workers        int
	PublishTimeout time.Duration
}

type envelope struct {
	topic   string
	event   *pkgkafka.Event
	spanCtx trace.SpanContext
}

// Dispatcher publishes envelopes off the request path. A fixed group of
// workers drains a buffered queue; a full queue drops the event.
type Dispatcher struct {
	pub     Publisher
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan envelope
	group  *errgroup.Group
}

// NewDispatcher starts the workers. Call Close to stop them.
func NewDispatcher(pub Publisher, cfg DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}

	d := &Dispatcher{
		pub:     pub,
		timeout: cfg.PublishTimeout,
		logger:  logger,
		queue:   make(chan envelope, cfg.QueueSize),
		group:   &errgroup.Group{},
	}
	for range cfg.Workers {
		d.group.Go(d.work)
	}
	return d
}

// Enqueue hands event to the workers and reports whether it was accepted.
// It never blocks.
func (d *Dispatcher) Enqueue(ctx context.Context, topic string, event *pkgkafka.Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(ctx, topic, event, "dispatcher closed")
		return false
	}

	env := envelope{
		topic:   topic,
		event:   event,
		spanCtx: trace.SpanContextFromContext(ctx),
	}
	select {
	case d.queue <- env:
		eventsEnqueued.WithLabelValues(event.EventType).Inc()
		queueDepth.Set(float64(len(d.queue)))
		return true
	default:
		d.drop(ctx, topic, event, "queue full")
		return false
	}
}

// Close stops intake and waits for the queued events to be published or for
// ctx to end, whichever comes first.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = d.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain event queue (%d pending): %w", len(d.queue), ctx.Err())
	}
}

func (d *Dispatcher) work() error {
	for env := range d.queue {
		queueDepth.Set(float64(len(d.queue)))
		d.publish(env)
	}
	return nil
}

// publish runs detached from the request so a finished request does not
// cancel delivery. The caller's span is kept as the parent for propagation.
func (d *Dispatcher) publish(env envelope) {
	ctx := context.Background()
	if env.spanCtx.IsValid() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, env.spanCtx)
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.pub.Publish(ctx, env.topic, env.event); err != nil {
		eventsFailed.WithLabelValues(env.event.EventType).Inc()
		d.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("topic", env.topic),
			slog.String("event_id", env.event.EventID),
			slog.String("aggregate_id", env.event.AggregateID),
			slog.String("correlation_id", env.event.CorrelationID),
			slog.String("error", err.Error()),
		)
		return
	}
	eventsPublished.WithLabelValues(env.event.EventType).Inc()
}

func (d *Dispatcher) drop(ctx context.Context, topic string, event *pkgkafka.Event, reason string) {
	eventsDropped.WithLabelValues(event.EventType).Inc()
	d.logger.WarnContext(ctx, "dropping event",
		slog.String("reason", reason),
		slog.String("topic", topic),
		slog.String("event_id", event.EventID),
		slog.String("aggregate_id", event.AggregateID),
	)
}
