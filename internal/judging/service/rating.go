package service

import (
	"context"

	"hackhub/internal/judging/models"
	id "hackhub/pkg/domain"
	dErrors "hackhub/pkg/domain-errors"
	"hackhub/pkg/requestcontext"
)

// UpsertRating records or replaces a judge's evaluation of a team. Only
// shortlisted teams are judgeable. A resubmission takes the new values;
// exactly one rating ever exists per (judge, team) pair.
func (s *Service) UpsertRating(ctx context.Context, judgeID id.JudgeID, teamID id.TeamID, scores models.CriterionScores, comment string) (*models.Rating, error) {
	team, err := s.requireTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.IsShortlisted() {
		return nil, dErrors.New(dErrors.CodeNotJudgeable, "only shortlisted teams can be rated")
	}

	rating, err := models.NewRating(judgeID, teamID, scores, comment, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	stored, err := s.ratings.Upsert(ctx, rating)
	if err != nil {
		return nil, wrapRatingErr(err)
	}

	s.invalidateCache(ctx)
	if s.metrics != nil {
		s.metrics.RatingsUpserted.Inc()
	}
	s.logger.InfoContext(ctx, "rating stored",
		"judge_id", judgeID.String(),
		"team_id", teamID.String(),
	)
	return stored, nil
}

// GetRating fetches one judge's rating for a team, or not_found.
func (s *Service) GetRating(ctx context.Context, judgeID id.JudgeID, teamID id.TeamID) (*models.Rating, error) {
	rating, err := s.ratings.Find(ctx, judgeID, teamID)
	if err != nil {
		return nil, wrapRatingErr(err)
	}
	return rating, nil
}

// ListRatingsForTeam returns every stored rating for a team. The team must
// exist; a deleted team reports not_found rather than an empty list.
func (s *Service) ListRatingsForTeam(ctx context.Context, teamID id.TeamID) ([]*models.Rating, error) {
	if _, err := s.requireTeam(ctx, teamID); err != nil {
		return nil, err
	}
	ratings, err := s.ratings.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, wrapRatingErr(err)
	}
	return ratings, nil
}

// RemoveTeam bulk-deletes a team's ratings. Invoked by the lifecycle
// manager's DeleteTeam cascade; the team record itself is not consulted
// because it is already gone.
func (s *Service) RemoveTeam(ctx context.Context, teamID id.TeamID) error {
	if err := s.ratings.RemoveTeam(ctx, teamID); err != nil {
		return wrapRatingErr(err)
	}
	s.invalidateCache(ctx)
	return nil
}
