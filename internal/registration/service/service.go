// Package service implements the application lifecycle manager: guarded
// status transitions, proposal and payment submission, and team deletion
// with rating cleanup.
package service

import (
	"context"
	"errors"
	"log/slog"

	"hackhub/internal/audit"
	regmetrics "hackhub/internal/registration/metrics"
	"hackhub/internal/registration/models"
	id "hackhub/pkg/domain"
	dErrors "hackhub/pkg/domain-errors"
	"hackhub/pkg/platform/sentinel"
	"hackhub/pkg/requestcontext"
)

// TeamStore persists application records. Execute must hold a per-team lock
// (mutex or FOR UPDATE) across both callbacks so validate-then-mutate is atomic.
type TeamStore interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, teamID id.TeamID) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Execute(ctx context.Context, teamID id.TeamID, validate func(*models.Team) error, mutate func(*models.Team)) (*models.Team, error)
	Delete(ctx context.Context, teamID id.TeamID) (*models.Team, error)
}

// JudgingGateway is the slice of the judging module the lifecycle manager
// calls back into: rating cleanup when a team is deleted, and leaderboard
// snapshot invalidation when a transition changes shortlist membership.
type JudgingGateway interface {
	RemoveTeam(ctx context.Context, teamID id.TeamID) error
	InvalidateLeaderboard(ctx context.Context)
}

// FileResolver answers whether a document reference was actually uploaded.
type FileResolver interface {
	Resolve(ctx context.Context, ref string) (bool, error)
}

// EventPublisher receives lifecycle events for audit and notification fan-out.
type EventPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the team application lifecycle.
type Service struct {
	teams     TeamStore
	judging   JudgingGateway
	files     FileResolver
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *regmetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *regmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(teams TeamStore, judging JudgingGateway, files FileResolver, opts ...Option) *Service {
	s := &Service{
		teams:   teams,
		judging: judging,
		files:   files,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// emit reports a committed transition. Emission failures are logged, never
// propagated: the state change has already been published and callers must
// not observe a rolled-back-looking error for a completed operation.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	event.Actor = requestcontext.ActorID(ctx)
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit lifecycle event",
			"team_id", event.TeamID.String(),
			"field", event.Field,
			"error", err.Error(),
		)
	}
}

// resolveRef validates that a document reference exists before any state is
// touched. Resolver failures surface as the retryable dependency class.
func (s *Service) resolveRef(ctx context.Context, ref string) error {
	if ref == "" {
		return dErrors.New(dErrors.CodeBadRequest, "document reference is required")
	}
	exists, err := s.files.Resolve(ctx, ref)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeDependencyFailure, "file storage unavailable")
	}
	if !exists {
		return dErrors.New(dErrors.CodeBadRequest, "document reference was never uploaded")
	}
	return nil
}

func wrapTeamErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "team not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "team already exists")
	case dErrors.CodeOf(err) != dErrors.CodeInternal:
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "team store failure")
	}
}
