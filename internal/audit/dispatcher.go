package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/ilya24037/www.spa.com-sub003/internal/domain/booking"
)

const (
	defaultQueueSize = 100
	deliverTimeout   = 5 * time.Second
)

// Event is a notification with the id it is delivered under.
type Event struct {
	ID string
	domain.Notification
}

// Sink is one destination for booking events.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, ev Event) error
}

// Dispatcher fans notifications out to sinks on a background worker.
// Notify never blocks; events are dropped when the queue is full.
type Dispatcher struct {
	log   *zap.Logger
	sinks []Sink
	queue chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(log *zap.Logger, queueSize int, sinks ...Sink) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	d := &Dispatcher{
		log:   log,
		sinks: sinks,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
			if err := s.Deliver(ctx, ev); err != nil {
				d.log.Error("deliver booking event",
					zap.String("sink", s.Name()),
					zap.String("event_id", ev.ID),
					zap.String("kind", string(ev.Kind)),
					zap.Uint("booking_id", ev.BookingID),
					zap.Error(err),
				)
			}
			cancel()
		}
	}
}

func (d *Dispatcher) Notify(n domain.Notification) {
	ev := Event{ID: uuid.NewString(), Notification: n}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("event queue full, dropping event",
			zap.String("kind", string(n.Kind)),
			zap.Uint("booking_id", n.BookingID),
		)
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to
// expire. Notify must not be called after Close.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() { close(d.queue) })
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ domain.Notifier = (*Dispatcher)(nil)
