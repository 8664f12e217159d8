// Package team provides stores for application records. The in-memory
// implementation backs unit tests and single-node deployments; the postgres
// implementation is the durable option. Both serialize mutations per team
// via Execute so concurrent admin actions cannot interleave.
package team

import (
	"context"
	"sort"
	"sync"

	"hackhub/internal/registration/models"
	id "hackhub/pkg/domain"
	"hackhub/pkg/platform/sentinel"
)

// InMemory stores teams behind a single mutex. Execute holds the write lock
// across validate and mutate, so no observer can see a half-applied
// transition. Reads hand out copies; callers never share the stored struct.
type InMemory struct {
	mu    sync.RWMutex
	teams map[id.TeamID]*models.Team
}

func NewInMemory() *InMemory {
	return &InMemory{teams: make(map[id.TeamID]*models.Team)}
}

func (s *InMemory) Create(_ context.Context, team *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.teams[team.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *team
	s.teams[team.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, teamID id.TeamID) (*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// List returns all teams ordered by creation time (id as tiebreak) so
// admin listings are stable between calls.
func (s *InMemory) List(_ context.Context) ([]*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Team, 0, len(s.teams))
	for _, t := range s.teams {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// Execute atomically validates and mutates one team under the store lock.
// The mutation is applied to a scratch copy and only published if neither
// callback fails, so a rejected operation leaves the record untouched.
func (s *InMemory) Execute(
	_ context.Context,
	teamID id.TeamID,
	validate func(*models.Team) error,
	mutate func(*models.Team),
) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.teams[teamID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	scratch := *stored
	if validate != nil {
		if err := validate(&scratch); err != nil {
			return nil, err
		}
	}
	mutate(&scratch)
	s.teams[teamID] = &scratch

	result := scratch
	return &result, nil
}

// Delete removes the team and returns its last state for event emission.
func (s *InMemory) Delete(_ context.Context, teamID id.TeamID) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	delete(s.teams, teamID)
	cp := *t
	return &cp, nil
}
