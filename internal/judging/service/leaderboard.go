package service

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"hackhub/internal/judging/models"
	regmodels "hackhub/internal/registration/models"
	id "hackhub/pkg/domain"
)

// aggregateConcurrency bounds the fan-out when ranking many teams.
const aggregateConcurrency = 8

// Aggregate recomputes a team's score from the rating store at call time.
// Zero ratings yields all-zero means, never NaN, so ranking stays total.
func (s *Service) Aggregate(ctx context.Context, teamID id.TeamID) (models.AggregatedScore, error) {
	if s.metrics != nil {
		defer s.metrics.ObserveAggregate(time.Now())
	}

	if _, err := s.requireTeam(ctx, teamID); err != nil {
		return models.AggregatedScore{}, err
	}
	ratings, err := s.ratings.ListByTeam(ctx, teamID)
	if err != nil {
		return models.AggregatedScore{}, wrapRatingErr(err)
	}
	return models.AggregateRatings(teamID, ratings), nil
}

// Rank produces the leaderboard: shortlisted teams with at least one
// rating, ordered by overall score descending. Ties break on judge count
// (more-evaluated teams first), then team id ascending, so the order is a
// deterministic total order and repeated calls on the same snapshot are
// identical. Ranks are 1-based positions; ties still get distinct ranks.
func (s *Service) Rank(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if s.metrics != nil {
		defer s.metrics.ObserveLeaderboard(time.Now())
	}

	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "leaderboard cache read failed", "error", err.Error())
		} else if ok {
			if s.metrics != nil {
				s.metrics.LeaderboardCacheHit.WithLabelValues("hit").Inc()
			}
			return entries, nil
		}
		if s.metrics != nil {
			s.metrics.LeaderboardCacheHit.WithLabelValues("miss").Inc()
		}
	}

	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, wrapRatingErr(err)
	}

	var shortlisted []*regmodels.Team
	for _, t := range teams {
		if t.IsShortlisted() {
			shortlisted = append(shortlisted, t)
		}
	}

	// Each goroutine writes its own slot; no shared state beyond the slice.
	entries := make([]models.LeaderboardEntry, len(shortlisted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aggregateConcurrency)
	for i, team := range shortlisted {
		g.Go(func() error {
			ratings, err := s.ratings.ListByTeam(gctx, team.ID)
			if err != nil {
				return wrapRatingErr(err)
			}
			agg := models.AggregateRatings(team.ID, ratings)
			entries[i] = models.LeaderboardEntry{
				TeamID:     team.ID,
				TeamName:   team.Name,
				Overall:    agg.Overall,
				JudgeCount: agg.JudgeCount,
				Criteria:   agg.Criteria,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := entries[:0]
	for _, e := range entries {
		if e.JudgeCount >= 1 {
			ranked = append(ranked, e)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Overall != ranked[j].Overall {
			return ranked[i].Overall > ranked[j].Overall
		}
		if ranked[i].JudgeCount != ranked[j].JudgeCount {
			return ranked[i].JudgeCount > ranked[j].JudgeCount
		}
		return ranked[i].TeamID.String() < ranked[j].TeamID.String()
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ranked); err != nil {
			s.logger.WarnContext(ctx, "leaderboard cache write failed", "error", err.Error())
		}
	}
	return ranked, nil
}

// InvalidateLeaderboard drops the cached snapshot. The lifecycle manager
// calls this when a transition changes shortlist membership; those writes
// happen outside this module, so the cache cannot observe them itself.
func (s *Service) InvalidateLeaderboard(ctx context.Context) {
	s.invalidateCache(ctx)
}
