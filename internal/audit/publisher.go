package audit

import (
	"context"
	"time"

	id "hackhub/pkg/domain"
)

// Publisher captures structured lifecycle events. It is append-only and uses
// the storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	return p.store.Append(ctx, base)
}

func (p *Publisher) List(ctx context.Context, teamID id.TeamID) ([]Event, error) {
	return p.store.ListByTeam(ctx, teamID)
}
