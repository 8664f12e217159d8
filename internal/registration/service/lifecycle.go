package service

import (
	"context"

	"hackhub/internal/audit"
	"hackhub/internal/registration/models"
	id "hackhub/pkg/domain"
	dErrors "hackhub/pkg/domain-errors"
	"hackhub/pkg/requestcontext"
)

// RegisterTeamInput carries the validated registration payload. ProposalRef
// is optional; when present the proposal is submitted in the same operation
// and the team starts at pending instead of pending_proposal.
type RegisterTeamInput struct {
	Name        string
	Type        models.TeamType
	MemberCount int
	Track       models.Track
	ProposalRef string
}

// RegisterTeam creates a new application record.
func (s *Service) RegisterTeam(ctx context.Context, in RegisterTeamInput) (*models.Team, error) {
	now := requestcontext.Now(ctx)

	team, err := models.NewTeam(id.NewTeamID(), in.Name, in.Type, in.MemberCount, in.Track, now)
	if err != nil {
		// Convert invariant violations to validation errors for API response
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if in.ProposalRef != "" {
		if err := s.resolveRef(ctx, in.ProposalRef); err != nil {
			return nil, err
		}
		team.ApplyProposal(in.ProposalRef, now)
	}

	if err := s.teams.Create(ctx, team); err != nil {
		return nil, wrapTeamErr(err)
	}

	s.emit(ctx, audit.Event{
		TeamID:   team.ID,
		Field:    audit.FieldTeam,
		NewValue: "registered",
	})
	if s.metrics != nil {
		s.metrics.TeamsRegistered.Inc()
	}
	return team, nil
}

// GetTeam fetches one application record.
func (s *Service) GetTeam(ctx context.Context, teamID id.TeamID) (*models.Team, error) {
	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		return nil, wrapTeamErr(err)
	}
	return team, nil
}

// ListTeams returns all application records for the admin console.
func (s *Service) ListTeams(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, wrapTeamErr(err)
	}
	return teams, nil
}

// SubmitProposal attaches a proposal document. From pending_proposal the
// application advances to pending; at any later stage the call is an
// idempotent update of the stored reference (participants may re-upload a
// revised proposal), never an error.
func (s *Service) SubmitProposal(ctx context.Context, teamID id.TeamID, documentRef string) (*models.Team, error) {
	if err := s.resolveRef(ctx, documentRef); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var oldStatus models.ApplicationStatus
	var advanced bool
	team, err := s.teams.Execute(ctx, teamID,
		nil,
		func(t *models.Team) {
			oldStatus = t.ApplicationStatus
			advanced = t.ApplyProposal(documentRef, now)
		},
	)
	if err != nil {
		return nil, wrapTeamErr(err)
	}

	if advanced {
		s.emit(ctx, audit.Event{
			TeamID:   team.ID,
			Field:    audit.FieldApplicationStatus,
			OldValue: string(oldStatus),
			NewValue: string(team.ApplicationStatus),
		})
		if s.metrics != nil {
			s.metrics.ApplicationTransitions.WithLabelValues(string(team.ApplicationStatus)).Inc()
		}
	} else {
		s.emit(ctx, audit.Event{
			TeamID:   team.ID,
			Field:    audit.FieldProposal,
			NewValue: "updated",
		})
	}
	return team, nil
}

// SetApplicationStatus performs an admin-driven status transition, validated
// against the transition table inside the store's critical section.
func (s *Service) SetApplicationStatus(ctx context.Context, teamID id.TeamID, next models.ApplicationStatus) (*models.Team, error) {
	now := requestcontext.Now(ctx)
	var oldStatus models.ApplicationStatus
	var oldPayment models.PaymentStatus
	team, err := s.teams.Execute(ctx, teamID,
		func(t *models.Team) error {
			oldStatus = t.ApplicationStatus
			oldPayment = t.PaymentStatus
			return t.CanSetApplicationStatus(next)
		},
		func(t *models.Team) {
			t.ApplySetApplicationStatus(next, now)
		},
	)
	if err != nil {
		return nil, wrapTeamErr(err)
	}

	s.emit(ctx, audit.Event{
		TeamID:   team.ID,
		Field:    audit.FieldApplicationStatus,
		OldValue: string(oldStatus),
		NewValue: string(team.ApplicationStatus),
	})
	if team.PaymentStatus != oldPayment {
		s.emit(ctx, audit.Event{
			TeamID:   team.ID,
			Field:    audit.FieldPaymentStatus,
			OldValue: string(oldPayment),
			NewValue: string(team.PaymentStatus),
		})
	}
	// The leaderboard lists only shortlisted teams, so a membership change
	// makes any cached snapshot stale.
	wasShortlisted := oldStatus == models.ApplicationShortlisted
	if wasShortlisted != (team.ApplicationStatus == models.ApplicationShortlisted) {
		s.judging.InvalidateLeaderboard(ctx)
	}
	if s.metrics != nil {
		s.metrics.ApplicationTransitions.WithLabelValues(string(next)).Inc()
	}
	return team, nil
}

// SubmitPayment records payment proof for a shortlisted team. A new proof
// supersedes the previous one.
func (s *Service) SubmitPayment(ctx context.Context, teamID id.TeamID, proofRef string) (*models.Team, error) {
	if err := s.resolveRef(ctx, proofRef); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var oldPayment models.PaymentStatus
	team, err := s.teams.Execute(ctx, teamID,
		func(t *models.Team) error {
			oldPayment = t.PaymentStatus
			return t.CanSubmitPayment()
		},
		func(t *models.Team) {
			t.ApplySubmitPayment(proofRef, now)
		},
	)
	if err != nil {
		return nil, wrapTeamErr(err)
	}

	s.emit(ctx, audit.Event{
		TeamID:   team.ID,
		Field:    audit.FieldPaymentStatus,
		OldValue: string(oldPayment),
		NewValue: string(team.PaymentStatus),
	})
	if s.metrics != nil {
		s.metrics.PaymentTransitions.WithLabelValues(string(models.PaymentPending)).Inc()
	}
	return team, nil
}

// SetPaymentStatus performs an admin-driven payment transition. Only legal
// while the application is shortlisted.
func (s *Service) SetPaymentStatus(ctx context.Context, teamID id.TeamID, next models.PaymentStatus) (*models.Team, error) {
	now := requestcontext.Now(ctx)
	var oldPayment models.PaymentStatus
	team, err := s.teams.Execute(ctx, teamID,
		func(t *models.Team) error {
			oldPayment = t.PaymentStatus
			return t.CanSetPaymentStatus(next)
		},
		func(t *models.Team) {
			t.ApplySetPaymentStatus(next, now)
		},
	)
	if err != nil {
		return nil, wrapTeamErr(err)
	}

	s.emit(ctx, audit.Event{
		TeamID:   team.ID,
		Field:    audit.FieldPaymentStatus,
		OldValue: string(oldPayment),
		NewValue: string(team.PaymentStatus),
	})
	if s.metrics != nil {
		s.metrics.PaymentTransitions.WithLabelValues(string(next)).Inc()
	}
	return team, nil
}

// DeleteTeam removes the record and cascades deletion of its ratings so the
// rating store never references a missing team.
func (s *Service) DeleteTeam(ctx context.Context, teamID id.TeamID) error {
	team, err := s.teams.Delete(ctx, teamID)
	if err != nil {
		return wrapTeamErr(err)
	}

	if err := s.judging.RemoveTeam(ctx, teamID); err != nil {
		// The team row is gone; log the orphaned ratings rather than
		// resurrecting a half-deleted record.
		s.logger.ErrorContext(ctx, "failed to cascade rating deletion",
			"team_id", teamID.String(),
			"error", err.Error(),
		)
	}

	s.emit(ctx, audit.Event{
		TeamID:   team.ID,
		Field:    audit.FieldTeam,
		OldValue: string(team.ApplicationStatus),
		NewValue: "deleted",
	})
	if s.metrics != nil {
		s.metrics.TeamsDeleted.Inc()
	}
	return nil
}
