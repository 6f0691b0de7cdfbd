package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sejin/dispatch-platform/internal/config"
	"github.com/sejin/dispatch-platform/internal/events"
)

// AuditSink receives serialized audit entries. The Redis persistence
// wrapper satisfies it with a capped list.
type AuditSink interface {
	AppendCapped(ctx context.Context, key string, entry string, maxEntries int64) error
}

// AuditWorker consumes auth and order events and appends them to the sink.
// It is best-effort: events are buffered on a channel and dropped when the
// buffer is full, so publishing never blocks a request.
type AuditWorker struct {
	sink   AuditSink
	logger *zap.Logger
	cfg    config.AuditConfig
	buffer chan events.Event
	done   chan struct{}
}

// NewAuditWorker builds the worker.
func NewAuditWorker(sink AuditSink, cfg config.AuditConfig, logger *zap.Logger) *AuditWorker {
	size := cfg.BufferSize
	if size <= 0 {
		size = 256
	}
	return &AuditWorker{
		sink:   sink,
		logger: logger,
		cfg:    cfg,
		buffer: make(chan events.Event, size),
		done:   make(chan struct{}),
	}
}

// Start subscribes to all audited event types and begins draining the
// buffer in the background.
func (w *AuditWorker) Start(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventAccountLoggedIn,
		events.EventTokenRejected,
		events.EventOrderCreated,
		events.EventOrderAssigned,
		events.EventOrderDelivered,
	} {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
	go w.drain()
}

// Stop halts the drain loop. Events still buffered are discarded.
func (w *AuditWorker) Stop() {
	close(w.done)
}

func (w *AuditWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.buffer <- event:
	default:
		w.logger.Warn("audit buffer full; dropping event", zap.String("type", string(event.Type)))
	}
	return nil
}

func (w *AuditWorker) drain() {
	for {
		select {
		case <-w.done:
			return
		case event := <-w.buffer:
			w.write(event)
		}
	}
}

func (w *AuditWorker) write(event events.Event) {
	entry, err := json.Marshal(event)
	if err != nil {
		w.logger.Warn("audit event not serializable", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := w.sink.AppendCapped(ctx, w.cfg.RedisKey, string(entry), w.cfg.MaxEntries); err != nil {
		w.logger.Warn("audit write failed", zap.Error(err))
	}
}
