package audit

import (
	"context"
	"errors"
	"time"

	id "hackhub/pkg/domain"
)

// Event records one successful lifecycle transition. It is emitted from
// domain logic and kept transport-agnostic so stores and sinks can fan out;
// notification delivery is the consuming gateway's concern, not ours.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	TeamID    id.TeamID `json:"team_id"`
	Actor     string    `json:"actor"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
}

// Lifecycle fields reported in events.
const (
	FieldApplicationStatus = "application_status"
	FieldPaymentStatus     = "payment_status"
	FieldProposal          = "proposal"
	FieldTeam              = "team"
)

// Store is the persistence sink for emitted events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByTeam(ctx context.Context, teamID id.TeamID) ([]Event, error)
}

// errWriteOnly is returned by sinks that can only accept events.
var errWriteOnly = errors.New("event sink is write-only")
