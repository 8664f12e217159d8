package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackhub/internal/audit"
	"hackhub/internal/files"
	"hackhub/internal/registration/models"
	teamstore "hackhub/internal/registration/store/team"
	id "hackhub/pkg/domain"
	dErrors "hackhub/pkg/domain-errors"
	"hackhub/pkg/requestcontext"
)

type fakeJudging struct {
	removed       []id.TeamID
	invalidations int
	err           error
}

func (f *fakeJudging) RemoveTeam(_ context.Context, teamID id.TeamID) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, teamID)
	return nil
}

func (f *fakeJudging) InvalidateLeaderboard(context.Context) {
	f.invalidations++
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string) (bool, error) {
	return false, errors.New("object store unreachable")
}

type fixture struct {
	svc      *Service
	teams    *teamstore.InMemory
	registry *files.InMemoryRegistry
	judging  *fakeJudging
	events   *audit.InMemoryStore
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		teams:    teamstore.NewInMemory(),
		registry: files.NewInMemoryRegistry(),
		judging:  &fakeJudging{},
		events:   audit.NewInMemoryStore(),
	}
	f.svc = New(f.teams, f.judging, f.registry,
		WithPublisher(audit.NewPublisher(f.events)),
	)
	ctx := requestcontext.WithActor(context.Background(), "admin-1", requestcontext.RoleAdmin)
	f.ctx = requestcontext.WithTime(ctx, time.Now().UTC())
	return f
}

func (f *fixture) upload(t *testing.T, ref string) string {
	t.Helper()
	require.NoError(t, f.registry.Record(f.ctx, ref, "uploader"))
	return ref
}

func (f *fixture) register(t *testing.T) *models.Team {
	t.Helper()
	team, err := f.svc.RegisterTeam(f.ctx, RegisterTeamInput{
		Name:        "rocket crew",
		Type:        models.TeamTypeTeam,
		MemberCount: 3,
		Track:       models.TrackAI,
	})
	require.NoError(t, err)
	return team
}

func (f *fixture) shortlist(t *testing.T, teamID id.TeamID) *models.Team {
	t.Helper()
	_, err := f.svc.SubmitProposal(f.ctx, teamID, f.upload(t, "doc-"+teamID.String()))
	require.NoError(t, err)
	_, err = f.svc.SetApplicationStatus(f.ctx, teamID, models.ApplicationUnderReview)
	require.NoError(t, err)
	team, err := f.svc.SetApplicationStatus(f.ctx, teamID, models.ApplicationShortlisted)
	require.NoError(t, err)
	return team
}

func TestRegisterTeam(t *testing.T) {
	t.Run("starts at pending_proposal", func(t *testing.T) {
		f := newFixture(t)

		team := f.register(t)

		assert.Equal(t, models.ApplicationPendingProposal, team.ApplicationStatus)
		assert.Equal(t, models.PaymentNone, team.PaymentStatus)

		events, err := f.events.ListByTeam(f.ctx, team.ID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.FieldTeam, events[0].Field)
		assert.Equal(t, "admin-1", events[0].Actor)
	})

	t.Run("invalid input maps to validation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RegisterTeam(f.ctx, RegisterTeamInput{
			Name:        "solo",
			Type:        models.TeamTypeIndividual,
			MemberCount: 3,
			Track:       models.TrackWeb,
		})

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("inline proposal starts at pending", func(t *testing.T) {
		f := newFixture(t)
		ref := f.upload(t, "doc-inline")

		team, err := f.svc.RegisterTeam(f.ctx, RegisterTeamInput{
			Name:        "crew",
			Type:        models.TeamTypeTeam,
			MemberCount: 2,
			Track:       models.TrackWeb,
			ProposalRef: ref,
		})

		require.NoError(t, err)
		assert.Equal(t, models.ApplicationPending, team.ApplicationStatus)
		assert.True(t, team.HasProposal)
	})

	t.Run("unknown proposal ref is rejected before creation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RegisterTeam(f.ctx, RegisterTeamInput{
			Name:        "crew",
			Type:        models.TeamTypeTeam,
			MemberCount: 2,
			Track:       models.TrackWeb,
			ProposalRef: "never-uploaded",
		})

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

		teams, err := f.svc.ListTeams(f.ctx)
		require.NoError(t, err)
		assert.Empty(t, teams)
	})
}

func TestSubmitProposal(t *testing.T) {
	t.Run("first submission advances to pending", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)

		updated, err := f.svc.SubmitProposal(f.ctx, team.ID, f.upload(t, "doc-1"))

		require.NoError(t, err)
		assert.Equal(t, models.ApplicationPending, updated.ApplicationStatus)

		events, err := f.events.ListByTeam(f.ctx, team.ID)
		require.NoError(t, err)
		last := events[len(events)-1]
		assert.Equal(t, audit.FieldApplicationStatus, last.Field)
		assert.Equal(t, string(models.ApplicationPendingProposal), last.OldValue)
		assert.Equal(t, string(models.ApplicationPending), last.NewValue)
	})

	t.Run("resubmission at pending is idempotent on status", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)
		_, err := f.svc.SubmitProposal(f.ctx, team.ID, f.upload(t, "doc-1"))
		require.NoError(t, err)

		updated, err := f.svc.SubmitProposal(f.ctx, team.ID, f.upload(t, "doc-2"))

		require.NoError(t, err)
		assert.Equal(t, models.ApplicationPending, updated.ApplicationStatus)
		assert.Equal(t, "doc-2", updated.ProposalRef)

		events, err := f.events.ListByTeam(f.ctx, team.ID)
		require.NoError(t, err)
		last := events[len(events)-1]
		assert.Equal(t, audit.FieldProposal, last.Field)
		assert.Equal(t, "updated", last.NewValue)
	})

	t.Run("resolver outage surfaces as dependency_failure and leaves state alone", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)
		f.svc.files = failingResolver{}

		_, err := f.svc.SubmitProposal(f.ctx, team.ID, "doc-1")

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDependencyFailure))

		stored, err := f.svc.GetTeam(f.ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationPendingProposal, stored.ApplicationStatus)
		assert.False(t, stored.HasProposal)
	})

	t.Run("unknown team is not_found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.SubmitProposal(f.ctx, id.NewTeamID(), f.upload(t, "doc-1"))

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestSetApplicationStatus(t *testing.T) {
	t.Run("walks the full lifecycle", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)

		shortlisted := f.shortlist(t, team.ID)

		assert.Equal(t, models.ApplicationShortlisted, shortlisted.ApplicationStatus)
	})

	t.Run("illegal transition is rejected and state untouched", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)

		_, err := f.svc.SetApplicationStatus(f.ctx, team.ID, models.ApplicationShortlisted)

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))

		stored, err := f.svc.GetTeam(f.ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationPendingProposal, stored.ApplicationStatus)
	})

	t.Run("rejected team can be shortlisted on appeal", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)
		_, err := f.svc.SubmitProposal(f.ctx, team.ID, f.upload(t, "doc-1"))
		require.NoError(t, err)
		_, err = f.svc.SetApplicationStatus(f.ctx, team.ID, models.ApplicationUnderReview)
		require.NoError(t, err)
		_, err = f.svc.SetApplicationStatus(f.ctx, team.ID, models.ApplicationRejected)
		require.NoError(t, err)

		updated, err := f.svc.SetApplicationStatus(f.ctx, team.ID, models.ApplicationShortlisted)

		require.NoError(t, err)
		assert.Equal(t, models.ApplicationShortlisted, updated.ApplicationStatus)
	})

	t.Run("leaving shortlisted voids payment and emits both events", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)
		f.shortlist(t, team.ID)
		_, err := f.svc.SubmitPayment(f.ctx, team.ID, f.upload(t, "proof-1"))
		require.NoError(t, err)

		updated, err := f.svc.SetApplicationStatus(f.ctx, team.ID, models.ApplicationRejected)

		require.NoError(t, err)
		assert.Equal(t, models.PaymentNone, updated.PaymentStatus)
		assert.Empty(t, updated.PaymentProofRef)

		events, err := f.events.ListByTeam(f.ctx, team.ID)
		require.NoError(t, err)
		last := events[len(events)-1]
		assert.Equal(t, audit.FieldPaymentStatus, last.Field)
		assert.Equal(t, string(models.PaymentNone), last.NewValue)
	})

	t.Run("shortlist membership changes drop the leaderboard snapshot", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)
		_, err := f.svc.SubmitProposal(f.ctx, team.ID, f.upload(t, "doc-1"))
		require.NoError(t, err)
		_, err = f.svc.SetApplicationStatus(f.ctx, team.ID, models.ApplicationUnderReview)
		require.NoError(t, err)
		assert.Equal(t, 0, f.judging.invalidations, "pre-shortlist transitions leave the snapshot alone")

		_, err = f.svc.SetApplicationStatus(f.ctx, team.ID, models.ApplicationShortlisted)
		require.NoError(t, err)
		assert.Equal(t, 1, f.judging.invalidations)

		_, err = f.svc.SetApplicationStatus(f.ctx, team.ID, models.ApplicationRejected)
		require.NoError(t, err)
		assert.Equal(t, 2, f.judging.invalidations, "a demoted team must not linger in a cached leaderboard")
	})
}

func TestPaymentOperations(t *testing.T) {
	t.Run("submission before shortlist is payment_not_applicable", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)

		_, err := f.svc.SubmitPayment(f.ctx, team.ID, f.upload(t, "proof-1"))

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodePaymentNotApplicable))
	})

	t.Run("shortlisted team submits and gets approved", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)
		f.shortlist(t, team.ID)

		submitted, err := f.svc.SubmitPayment(f.ctx, team.ID, f.upload(t, "proof-1"))
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, submitted.PaymentStatus)

		approved, err := f.svc.SetPaymentStatus(f.ctx, team.ID, models.PaymentApproved)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentApproved, approved.PaymentStatus)
	})

	t.Run("approved payment blocks resubmission", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)
		f.shortlist(t, team.ID)
		_, err := f.svc.SubmitPayment(f.ctx, team.ID, f.upload(t, "proof-1"))
		require.NoError(t, err)
		_, err = f.svc.SetPaymentStatus(f.ctx, team.ID, models.PaymentApproved)
		require.NoError(t, err)

		_, err = f.svc.SubmitPayment(f.ctx, team.ID, f.upload(t, "proof-2"))

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	t.Run("rejected payment allows resubmission", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)
		f.shortlist(t, team.ID)
		_, err := f.svc.SubmitPayment(f.ctx, team.ID, f.upload(t, "proof-1"))
		require.NoError(t, err)
		_, err = f.svc.SetPaymentStatus(f.ctx, team.ID, models.PaymentRejected)
		require.NoError(t, err)

		resubmitted, err := f.svc.SubmitPayment(f.ctx, team.ID, f.upload(t, "proof-2"))

		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, resubmitted.PaymentStatus)
		assert.Equal(t, "proof-2", resubmitted.PaymentProofRef)
	})

	t.Run("status change on non-shortlisted team is payment_not_applicable", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)

		_, err := f.svc.SetPaymentStatus(f.ctx, team.ID, models.PaymentApproved)

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodePaymentNotApplicable))
	})
}

func TestDeleteTeam(t *testing.T) {
	t.Run("cascades rating removal", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)

		require.NoError(t, f.svc.DeleteTeam(f.ctx, team.ID))

		require.Len(t, f.judging.removed, 1)
		assert.Equal(t, team.ID, f.judging.removed[0])

		_, err := f.svc.GetTeam(f.ctx, team.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("unknown team is not_found", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.DeleteTeam(f.ctx, id.NewTeamID())

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("cascade failure does not resurrect the team", func(t *testing.T) {
		f := newFixture(t)
		team := f.register(t)
		f.judging.err = errors.New("rating store down")

		require.NoError(t, f.svc.DeleteTeam(f.ctx, team.ID))

		_, err := f.svc.GetTeam(f.ctx, team.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
