package audit

import (
	"context"
	"log/slog"
)

// Sink receives events after local persistence. The Kafka sink implements
// this; a nil sink means store-only operation.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker consumes audit events from the publisher inbox and persists them.
// Sink failures are logged and skipped; audit delivery must never take the
// service down.
type Worker struct {
	store  Store
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.Error("audit append failed",
					"error", err,
					"action", string(event.Action),
				)
				continue
			}
			if w.sink != nil {
				if err := w.sink.Publish(ctx, event); err != nil {
					w.logger.Error("audit sink publish failed",
						"error", err,
						"action", string(event.Action),
					)
				}
			}
		}
	}
}
