package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackhub/internal/judging/models"
	ratingstore "hackhub/internal/judging/store/rating"
	regmodels "hackhub/internal/registration/models"
	teamstore "hackhub/internal/registration/store/team"
	id "hackhub/pkg/domain"
	dErrors "hackhub/pkg/domain-errors"
)

type fakeCache struct {
	entries     []models.LeaderboardEntry
	populated   bool
	sets        int
	invalidates int
}

func (c *fakeCache) Get(context.Context) ([]models.LeaderboardEntry, bool, error) {
	return c.entries, c.populated, nil
}

func (c *fakeCache) Set(_ context.Context, entries []models.LeaderboardEntry) error {
	c.entries = entries
	c.populated = true
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.entries = nil
	c.populated = false
	c.invalidates++
	return nil
}

type fixture struct {
	svc     *Service
	teams   *teamstore.InMemory
	ratings *ratingstore.InMemory
	cache   *fakeCache
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		teams:   teamstore.NewInMemory(),
		ratings: ratingstore.NewInMemory(),
		cache:   &fakeCache{},
	}
	f.svc = New(f.ratings, f.teams, WithCache(f.cache))
	f.ctx = context.Background()
	return f
}

func (f *fixture) addTeam(t *testing.T, name string, status regmodels.ApplicationStatus) *regmodels.Team {
	t.Helper()
	team, err := regmodels.NewTeam(id.NewTeamID(), name, regmodels.TeamTypeTeam, 2, regmodels.TrackWeb, time.Now().UTC())
	require.NoError(t, err)
	if status != regmodels.ApplicationPendingProposal {
		now := time.Now().UTC()
		team.ApplyProposal("doc", now)
		switch status {
		case regmodels.ApplicationUnderReview, regmodels.ApplicationShortlisted, regmodels.ApplicationRejected:
			team.ApplySetApplicationStatus(regmodels.ApplicationUnderReview, now)
		}
		if status == regmodels.ApplicationShortlisted || status == regmodels.ApplicationRejected {
			team.ApplySetApplicationStatus(status, now)
		}
	}
	require.NoError(t, f.teams.Create(f.ctx, team))
	return team
}

func (f *fixture) rate(t *testing.T, teamID id.TeamID, base int) {
	t.Helper()
	_, err := f.svc.UpsertRating(f.ctx, id.NewJudgeID(), teamID, models.CriterionScores{
		Innovation:   base,
		Technicality: base,
		Presentation: base,
		Feasibility:  base,
		Impact:       base,
	}, "")
	require.NoError(t, err)
}

func TestUpsertRating(t *testing.T) {
	t.Run("rates a shortlisted team", func(t *testing.T) {
		f := newFixture(t)
		team := f.addTeam(t, "alpha", regmodels.ApplicationShortlisted)
		judgeID := id.NewJudgeID()

		rating, err := f.svc.UpsertRating(f.ctx, judgeID, team.ID, models.CriterionScores{Innovation: 9, Technicality: 8, Presentation: 10, Feasibility: 7, Impact: 9}, "strong demo")

		require.NoError(t, err)
		assert.Equal(t, judgeID, rating.JudgeID)
		assert.Equal(t, "strong demo", rating.Comment)
		assert.Equal(t, 1, f.cache.invalidates)
	})

	t.Run("replacement keeps one rating per pair", func(t *testing.T) {
		f := newFixture(t)
		team := f.addTeam(t, "alpha", regmodels.ApplicationShortlisted)
		judgeID := id.NewJudgeID()

		_, err := f.svc.UpsertRating(f.ctx, judgeID, team.ID, models.CriterionScores{Innovation: 5, Technicality: 5, Presentation: 5, Feasibility: 5, Impact: 5}, "")
		require.NoError(t, err)
		_, err = f.svc.UpsertRating(f.ctx, judgeID, team.ID, models.CriterionScores{Innovation: 8, Technicality: 8, Presentation: 8, Feasibility: 8, Impact: 8}, "")
		require.NoError(t, err)

		listed, err := f.svc.ListRatingsForTeam(f.ctx, team.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, 8, listed[0].Scores.Innovation)
	})

	t.Run("non-shortlisted team is not judgeable", func(t *testing.T) {
		f := newFixture(t)
		for _, status := range []regmodels.ApplicationStatus{
			regmodels.ApplicationPendingProposal,
			regmodels.ApplicationUnderReview,
			regmodels.ApplicationRejected,
		} {
			team := f.addTeam(t, "team-"+string(status), status)

			_, err := f.svc.UpsertRating(f.ctx, id.NewJudgeID(), team.ID, models.CriterionScores{Innovation: 5, Technicality: 5, Presentation: 5, Feasibility: 5, Impact: 5}, "")

			require.Error(t, err, string(status))
			assert.True(t, dErrors.HasCode(err, dErrors.CodeNotJudgeable), string(status))
		}
	})

	t.Run("unknown team is not_found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpsertRating(f.ctx, id.NewJudgeID(), id.NewTeamID(), models.CriterionScores{Innovation: 5, Technicality: 5, Presentation: 5, Feasibility: 5, Impact: 5}, "")

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("out-of-range score is invalid_score", func(t *testing.T) {
		f := newFixture(t)
		team := f.addTeam(t, "alpha", regmodels.ApplicationShortlisted)

		_, err := f.svc.UpsertRating(f.ctx, id.NewJudgeID(), team.ID, models.CriterionScores{Innovation: 11, Technicality: 5, Presentation: 5, Feasibility: 5, Impact: 5}, "")

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidScore))
	})
}

func TestListRatingsForTeam(t *testing.T) {
	t.Run("deleted team reports not_found, not empty", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ListRatingsForTeam(f.ctx, id.NewTeamID())

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestAggregate(t *testing.T) {
	t.Run("no ratings yields zeros", func(t *testing.T) {
		f := newFixture(t)
		team := f.addTeam(t, "alpha", regmodels.ApplicationShortlisted)

		agg, err := f.svc.Aggregate(f.ctx, team.ID)

		require.NoError(t, err)
		assert.Equal(t, 0, agg.JudgeCount)
		assert.Zero(t, agg.Overall)
	})

	t.Run("means across judges", func(t *testing.T) {
		f := newFixture(t)
		team := f.addTeam(t, "alpha", regmodels.ApplicationShortlisted)
		_, err := f.svc.UpsertRating(f.ctx, id.NewJudgeID(), team.ID, models.CriterionScores{Innovation: 9, Technicality: 8, Presentation: 10, Feasibility: 7, Impact: 9}, "")
		require.NoError(t, err)
		_, err = f.svc.UpsertRating(f.ctx, id.NewJudgeID(), team.ID, models.CriterionScores{Innovation: 7, Technicality: 7, Presentation: 7, Feasibility: 7, Impact: 7}, "")
		require.NoError(t, err)

		agg, err := f.svc.Aggregate(f.ctx, team.ID)

		require.NoError(t, err)
		assert.Equal(t, 2, agg.JudgeCount)
		assert.InDelta(t, 7.8, agg.Overall, 1e-9)
		assert.InDelta(t, 8.5, agg.Criteria[models.CriterionPresentation], 1e-9)
	})

	t.Run("unknown team is not_found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Aggregate(f.ctx, id.NewTeamID())

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestRank(t *testing.T) {
	t.Run("orders by overall descending", func(t *testing.T) {
		f := newFixture(t)
		low := f.addTeam(t, "low", regmodels.ApplicationShortlisted)
		high := f.addTeam(t, "high", regmodels.ApplicationShortlisted)
		f.rate(t, low.ID, 4)
		f.rate(t, high.ID, 9)

		ranked, err := f.svc.Rank(f.ctx)

		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, high.ID, ranked[0].TeamID)
		assert.Equal(t, 1, ranked[0].Rank)
		assert.Equal(t, low.ID, ranked[1].TeamID)
		assert.Equal(t, 2, ranked[1].Rank)
	})

	t.Run("excludes unrated and non-shortlisted teams", func(t *testing.T) {
		f := newFixture(t)
		rated := f.addTeam(t, "rated", regmodels.ApplicationShortlisted)
		f.addTeam(t, "unrated", regmodels.ApplicationShortlisted)
		rejected := f.addTeam(t, "rejected", regmodels.ApplicationRejected)
		f.rate(t, rated.ID, 6)
		// Ratings for a team that later left the shortlist must not rank it.
		_, err := f.ratings.Upsert(f.ctx, mustRating(t, rejected.ID, 10))
		require.NoError(t, err)

		ranked, err := f.svc.Rank(f.ctx)

		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Equal(t, rated.ID, ranked[0].TeamID)
	})

	t.Run("ties break on judge count then team id", func(t *testing.T) {
		f := newFixture(t)
		once := f.addTeam(t, "once", regmodels.ApplicationShortlisted)
		twice := f.addTeam(t, "twice", regmodels.ApplicationShortlisted)
		f.rate(t, once.ID, 7)
		f.rate(t, twice.ID, 7)
		f.rate(t, twice.ID, 7)

		ranked, err := f.svc.Rank(f.ctx)

		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, twice.ID, ranked[0].TeamID, "more judges wins the tie")

		// Full tie falls back to team id ascending.
		f2 := newFixture(t)
		a := f2.addTeam(t, "a", regmodels.ApplicationShortlisted)
		b := f2.addTeam(t, "b", regmodels.ApplicationShortlisted)
		f2.rate(t, a.ID, 7)
		f2.rate(t, b.ID, 7)

		tied, err := f2.svc.Rank(f2.ctx)
		require.NoError(t, err)
		require.Len(t, tied, 2)
		assert.Less(t, tied[0].TeamID.String(), tied[1].TeamID.String())
		assert.Equal(t, []int{1, 2}, []int{tied[0].Rank, tied[1].Rank})
	})

	t.Run("repeated calls on the same snapshot are identical", func(t *testing.T) {
		f := newFixture(t)
		for i, name := range []string{"a", "b", "c", "d"} {
			team := f.addTeam(t, name, regmodels.ApplicationShortlisted)
			f.rate(t, team.ID, 3+i)
		}
		f.cache.populated = false // force recompute both times
		first, err := f.svc.Rank(f.ctx)
		require.NoError(t, err)

		f.cache.populated = false
		second, err := f.svc.Rank(f.ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("serves the cached snapshot and refills after invalidation", func(t *testing.T) {
		f := newFixture(t)
		team := f.addTeam(t, "alpha", regmodels.ApplicationShortlisted)
		f.rate(t, team.ID, 8)

		_, err := f.svc.Rank(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, f.cache.sets)

		_, err = f.svc.Rank(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, f.cache.sets, "second call must hit the cache")

		f.rate(t, team.ID, 9) // invalidates
		_, err = f.svc.Rank(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, f.cache.sets)
	})

	t.Run("lifecycle invalidation forces a recompute", func(t *testing.T) {
		f := newFixture(t)
		team := f.addTeam(t, "alpha", regmodels.ApplicationShortlisted)
		f.rate(t, team.ID, 8)
		_, err := f.svc.Rank(f.ctx)
		require.NoError(t, err)
		require.True(t, f.cache.populated)

		f.svc.InvalidateLeaderboard(f.ctx)

		assert.False(t, f.cache.populated)
		_, err = f.svc.Rank(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, f.cache.sets)
	})
}

func TestRemoveTeam(t *testing.T) {
	t.Run("drops ratings and invalidates the cache", func(t *testing.T) {
		f := newFixture(t)
		team := f.addTeam(t, "alpha", regmodels.ApplicationShortlisted)
		f.rate(t, team.ID, 7)
		before := f.cache.invalidates

		require.NoError(t, f.svc.RemoveTeam(f.ctx, team.ID))

		assert.Equal(t, before+1, f.cache.invalidates)
		listed, err := f.ratings.ListByTeam(f.ctx, team.ID)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})
}

func mustRating(t *testing.T, teamID id.TeamID, base int) *models.Rating {
	t.Helper()
	rating, err := models.NewRating(id.NewJudgeID(), teamID, models.CriterionScores{
		Innovation:   base,
		Technicality: base,
		Presentation: base,
		Feasibility:  base,
		Impact:       base,
	}, "", time.Now().UTC())
	require.NoError(t, err)
	return rating
}
