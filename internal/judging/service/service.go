// Package service implements the judging core: the rating store contract
// (one rating per judge/team pair), on-demand score aggregation, and
// deterministic leaderboard ranking.
package service

import (
	"context"
	"errors"
	"log/slog"

	judgemetrics "hackhub/internal/judging/metrics"
	"hackhub/internal/judging/models"
	regmodels "hackhub/internal/registration/models"
	id "hackhub/pkg/domain"
	dErrors "hackhub/pkg/domain-errors"
	"hackhub/pkg/platform/sentinel"
)

// RatingStore persists evaluations keyed by (judge, team). Upsert must be
// atomic per pair; reads must never expose a partially-written rating.
type RatingStore interface {
	Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	Find(ctx context.Context, judgeID id.JudgeID, teamID id.TeamID) (*models.Rating, error)
	ListByTeam(ctx context.Context, teamID id.TeamID) ([]*models.Rating, error)
	RemoveTeam(ctx context.Context, teamID id.TeamID) error
}

// TeamReader is the read-only slice of the team store the judging module
// needs: existence and shortlist checks plus enumeration for ranking.
type TeamReader interface {
	FindByID(ctx context.Context, teamID id.TeamID) (*regmodels.Team, error)
	List(ctx context.Context) ([]*regmodels.Team, error)
}

// LeaderboardCache is the optional snapshot cache. When nil, every Rank call
// recomputes; when set, it must be invalidated on every rating write, team
// removal, and shortlist membership change.
type LeaderboardCache interface {
	Get(ctx context.Context) ([]models.LeaderboardEntry, bool, error)
	Set(ctx context.Context, entries []models.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

// Service orchestrates ratings, aggregation, and ranking.
type Service struct {
	ratings RatingStore
	teams   TeamReader
	cache   LeaderboardCache
	logger  *slog.Logger
	metrics *judgemetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithCache(cache LeaderboardCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithMetrics(m *judgemetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(ratings RatingStore, teams TeamReader, opts ...Option) *Service {
	s := &Service{
		ratings: ratings,
		teams:   teams,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// invalidateCache drops the leaderboard snapshot after a write. Cache
// failures are logged, not returned: the source of truth already changed.
func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate leaderboard cache",
			"error", err.Error(),
		)
	}
}

func wrapRatingErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "rating not found")
	case dErrors.CodeOf(err) != dErrors.CodeInternal:
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "rating store failure")
	}
}

// requireTeam loads the team or reports UnknownTeam.
func (s *Service) requireTeam(ctx context.Context, teamID id.TeamID) (*regmodels.Team, error) {
	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "team not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "team lookup failure")
	}
	return team, nil
}
