package audit

import (
	"context"
	"sync"

	id "hackhub/pkg/domain"
)

// InMemoryStore keeps events in process. Default sink for tests and for
// deployments without a broker configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByTeam(_ context.Context, teamID id.TeamID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.TeamID == teamID {
			out = append(out, e)
		}
	}
	return out, nil
}
