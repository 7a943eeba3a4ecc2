package outbox

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/campus-reservations/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Sink receives every dispatched record.
type Sink interface {
	Name() string
	Publish(ctx context.Context, rec Record) error
}

const (
	maxAttempts         = 3
	defaultBackoff      = time.Second
	defaultDrainTimeout = 5 * time.Second
)

// Dispatcher is an in-memory outbox. Store operations enqueue without blocking;
// Run publishes each record to every sink concurrently.
type Dispatcher struct {
	queue   chan Record
	sinks   []Sink
	logger  observability.Logger
	backoff time.Duration

	drainTimeout time.Duration
}

type DispatcherOption func(*Dispatcher)

// WithBackoff sets the base delay between attempts; it doubles after each failure.
func WithBackoff(d time.Duration) DispatcherOption {
	return func(p *Dispatcher) { p.backoff = d }
}

// WithDrainTimeout bounds how long Run keeps flushing after cancellation.
func WithDrainTimeout(t time.Duration) DispatcherOption {
	return func(p *Dispatcher) { p.drainTimeout = t }
}

func NewDispatcher(buffer int, logger observability.Logger, sinks []Sink, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		queue:   make(chan Record, buffer),
		sinks:   sinks,
		logger:  logger,
		backoff: defaultBackoff,

		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Enqueue never blocks; when the buffer is full the record is dropped and counted.
func (d *Dispatcher) Enqueue(rec Record) {
	select {
	case d.queue <- rec:
	default:
		observability.OutboxDropped.Inc()
		d.logger.WithFields(map[string]interface{}{"event": rec.Type, "aggregate_id": rec.AggregateID}).
			Warn("outbox full, dropping event")
	}
}

// Run publishes queued records until ctx is cancelled, then flushes whatever is
// still buffered within the drain timeout.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("outbox dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.logger.Info("outbox dispatcher stopped")
			return
		case rec := <-d.queue:
			d.dispatchLogged(ctx, rec)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), d.drainTimeout)
	defer cancel()
	for {
		select {
		case rec := <-d.queue:
			if ctx.Err() != nil {
				dropped := len(d.queue) + 1
				observability.OutboxDropped.Add(float64(dropped))
				d.logger.WithField("dropped", dropped).Warn("drain timeout, dropping buffered events")
				return
			}
			d.dispatchLogged(ctx, rec)
		default:
			return
		}
	}
}

func (d *Dispatcher) dispatchLogged(ctx context.Context, rec Record) {
	if err := d.Dispatch(ctx, rec); err != nil {
		d.logger.WithField("event", rec.Type).Error("failed to dispatch event: ", err)
	}
}

// Dispatch publishes rec to all sinks and returns the first sink failure, if any.
// A failing sink does not cut the retries of the others short.
func (d *Dispatcher) Dispatch(ctx context.Context, rec Record) error {
	var g errgroup.Group
	for _, sink := range d.sinks {
		g.Go(func() error {
			return d.publishWithRetry(ctx, sink, rec)
		})
	}
	err := g.Wait()
	observability.OutboxLag.Set(time.Since(rec.CreatedAt).Seconds())
	return err
}

func (d *Dispatcher) publishWithRetry(ctx context.Context, sink Sink, rec Record) error {
	var err error
	for i := 0; i < maxAttempts; i++ {
		if err = sink.Publish(ctx, rec); err == nil {
			return nil
		}
		if i == maxAttempts-1 {
			break
		}
		observability.SinkPublishRetries.WithLabelValues(sink.Name()).Inc()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.backoff * time.Duration(1<<i)):
		}
	}
	return errors.Wrapf(err, "sink %s: failed after %d attempts", sink.Name(), maxAttempts)
}

// LogSink writes one structured line per record.
type LogSink struct {
	Logger observability.Logger
}

func (LogSink) Name() string { return "log" }

func (s LogSink) Publish(_ context.Context, rec Record) error {
	s.Logger.WithFields(map[string]interface{}{
		"event":        rec.Type,
		"kind":         rec.Kind,
		"aggregate_id": rec.AggregateID,
		"event_id":     rec.ID.String(),
	}).Info("reservation event")
	return nil
}
