package audit

import (
	"context"
	"log/slog"

	id "hackhub/pkg/domain"
)

// Worker drains lifecycle events from a channel into a sink so slow sinks
// (a broker, a remote store) never sit on the request path. Append failures
// are logged and the worker keeps draining.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist lifecycle event",
					"team_id", event.TeamID.String(),
					"field", event.Field,
					"error", err.Error(),
				)
			}
		}
	}
}

// ChannelSink is the Store handed to the Publisher when a Worker does the
// actual persistence. Append hands the event to the worker; a full inbox
// drops the event rather than stalling a lifecycle operation.
type ChannelSink struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewChannelSink(inbox chan<- Event, logger *slog.Logger) *ChannelSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelSink{inbox: inbox, logger: logger}
}

func (s *ChannelSink) Append(ctx context.Context, event Event) error {
	select {
	case s.inbox <- event:
		return nil
	default:
		s.logger.WarnContext(ctx, "event inbox full, dropping lifecycle event",
			"team_id", event.TeamID.String(),
			"field", event.Field,
		)
		return nil
	}
}

// ListByTeam is not available through the channel; reads go to the backing store.
func (s *ChannelSink) ListByTeam(ctx context.Context, teamID id.TeamID) ([]Event, error) {
	return nil, errWriteOnly
}
