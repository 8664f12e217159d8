package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hackhub/internal/judging/models"
	"hackhub/internal/platform/middleware"
	"hackhub/internal/transport/http/shared"
	id "hackhub/pkg/domain"
	dErrors "hackhub/pkg/domain-errors"
	"hackhub/pkg/requestcontext"
)

// Service defines the judging operations the handler delegates to.
type Service interface {
	UpsertRating(ctx context.Context, judgeID id.JudgeID, teamID id.TeamID, scores models.CriterionScores, comment string) (*models.Rating, error)
	ListRatingsForTeam(ctx context.Context, teamID id.TeamID) ([]*models.Rating, error)
	Aggregate(ctx context.Context, teamID id.TeamID) (models.AggregatedScore, error)
	Rank(ctx context.Context) ([]models.LeaderboardEntry, error)
}

// Handler exposes the judging module over HTTP.
type Handler struct {
	logger  *slog.Logger
	judging Service
}

// New creates a judging Handler.
func New(judging Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, judging: judging}
}

// Register mounts the rating routes. They are registered as flat patterns so
// they coexist with the registration subtree mounted under /teams.
func (h *Handler) Register(r chi.Router) {
	judgeOnly := middleware.RequireRole(requestcontext.RoleJudge)
	r.With(judgeOnly).Put("/teams/{teamID}/ratings", h.handleUpsertRating)
	r.With(judgeOnly).Get("/teams/{teamID}/ratings", h.handleListRatings)
	r.With(judgeOnly).Get("/teams/{teamID}/score", h.handleAggregate)
}

// RegisterPublic mounts the spectator-facing leaderboard route. It carries no
// identity requirement and must be registered outside the identity chain.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/leaderboard", h.handleLeaderboard)
}

type upsertRatingRequest struct {
	Scores  models.CriterionScores `json:"scores"`
	Comment string                 `json:"comment,omitempty"`
}

func (h *Handler) handleUpsertRating(w http.ResponseWriter, r *http.Request) {
	teamID, err := id.ParseTeamID(chi.URLParam(r, "teamID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	// The rating is attributed to the authenticated judge, never to a
	// judge id named in the payload.
	judgeID, err := id.ParseJudgeID(requestcontext.ActorID(r.Context()))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "caller is not a judge"))
		return
	}

	var req upsertRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	rating, err := h.judging.UpsertRating(r.Context(), judgeID, teamID, req.Scores, req.Comment)
	if err != nil {
		h.writeServiceError(w, r, "upsert rating", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, rating)
}

func (h *Handler) handleListRatings(w http.ResponseWriter, r *http.Request) {
	teamID, err := id.ParseTeamID(chi.URLParam(r, "teamID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	ratings, err := h.judging.ListRatingsForTeam(r.Context(), teamID)
	if err != nil {
		h.writeServiceError(w, r, "list ratings", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ratings)
}

func (h *Handler) handleAggregate(w http.ResponseWriter, r *http.Request) {
	teamID, err := id.ParseTeamID(chi.URLParam(r, "teamID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	score, err := h.judging.Aggregate(r.Context(), teamID)
	if err != nil {
		h.writeServiceError(w, r, "aggregate score", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, score)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.judging.Rank(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "rank leaderboard", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(r.Context(), "failed to "+op,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
	}
	shared.WriteError(w, err)
}
