// Package rating provides stores for judge evaluations, keyed by
// (judge, team). Upserts for the same pair are serialized; different pairs
// proceed in parallel — there is no global write lock.
package rating

import (
	"context"
	"hash/fnv"
	"sync"

	"hackhub/internal/judging/models"
	id "hackhub/pkg/domain"
	"hackhub/pkg/platform/sentinel"
)

type pairKey struct {
	judgeID id.JudgeID
	teamID  id.TeamID
}

const stripeCount = 64

// InMemory stores ratings in a sync.Map of immutable *Rating values. A
// stored rating is never mutated in place: an upsert builds a replacement
// and swaps the pointer, so readers can never observe a partially-written
// set of scores. Striped mutexes serialize the read-modify-write per pair
// (SubmittedAt survives a replacement) without a store-wide lock.
type InMemory struct {
	ratings sync.Map // pairKey -> *models.Rating
	stripes [stripeCount]sync.Mutex
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) stripe(key pairKey) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key.judgeID.String()))
	h.Write([]byte(key.teamID.String()))
	return &s.stripes[h.Sum32()%stripeCount]
}

// Upsert replaces or creates the rating for (judge, team) atomically.
// Returns the stored copy.
func (s *InMemory) Upsert(_ context.Context, rating *models.Rating) (*models.Rating, error) {
	key := pairKey{judgeID: rating.JudgeID, teamID: rating.TeamID}
	mu := s.stripe(key)
	mu.Lock()
	defer mu.Unlock()

	cp := *rating
	if prev, ok := s.ratings.Load(key); ok {
		cp.SubmittedAt = prev.(*models.Rating).SubmittedAt
	}
	s.ratings.Store(key, &cp)

	result := cp
	return &result, nil
}

func (s *InMemory) Find(_ context.Context, judgeID id.JudgeID, teamID id.TeamID) (*models.Rating, error) {
	v, ok := s.ratings.Load(pairKey{judgeID: judgeID, teamID: teamID})
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *(v.(*models.Rating))
	return &cp, nil
}

// ListByTeam snapshots all ratings for a team. Order is unspecified; the
// result feeds aggregation only.
func (s *InMemory) ListByTeam(_ context.Context, teamID id.TeamID) ([]*models.Rating, error) {
	var out []*models.Rating
	s.ratings.Range(func(k, v any) bool {
		if k.(pairKey).teamID == teamID {
			cp := *(v.(*models.Rating))
			out = append(out, &cp)
		}
		return true
	})
	return out, nil
}

// RemoveTeam bulk-deletes every rating referencing the team.
func (s *InMemory) RemoveTeam(_ context.Context, teamID id.TeamID) error {
	s.ratings.Range(func(k, v any) bool {
		if k.(pairKey).teamID == teamID {
			s.ratings.Delete(k)
		}
		return true
	})
	return nil
}
