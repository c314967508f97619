package audit

import (
	"context"
	"log/slog"
)

// Worker drains buffered audit events into a sink. Delivery failures are
// logged and the event is dropped; audit never blocks customer operations.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run blocks until ctx is done or the inbox is closed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.sink.Append(ctx, event); err != nil && w.logger != nil {
				w.logger.WarnContext(ctx, "audit delivery failed",
					"action", event.Action,
					"customer_id", event.CustomerID,
					"error", err,
				)
			}
		}
	}
}
