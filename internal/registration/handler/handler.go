package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hackhub/internal/registration/models"
	"hackhub/internal/registration/service"
	"hackhub/internal/transport/http/shared"
	id "hackhub/pkg/domain"
	dErrors "hackhub/pkg/domain-errors"
	"hackhub/pkg/requestcontext"

	"hackhub/internal/platform/middleware"
)

// Service defines the lifecycle operations the handler delegates to.
type Service interface {
	RegisterTeam(ctx context.Context, in service.RegisterTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, teamID id.TeamID) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	SubmitProposal(ctx context.Context, teamID id.TeamID, documentRef string) (*models.Team, error)
	SetApplicationStatus(ctx context.Context, teamID id.TeamID, next models.ApplicationStatus) (*models.Team, error)
	SubmitPayment(ctx context.Context, teamID id.TeamID, proofRef string) (*models.Team, error)
	SetPaymentStatus(ctx context.Context, teamID id.TeamID, next models.PaymentStatus) (*models.Team, error)
	DeleteTeam(ctx context.Context, teamID id.TeamID) error
}

// Handler exposes the registration module over HTTP.
type Handler struct {
	logger *slog.Logger
	teams  Service
}

// New creates a registration Handler.
func New(teams Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, teams: teams}
}

// Register mounts the team routes. The shared middleware chain (request id,
// identity, logging) is installed by the router; only role gates live here.
func (h *Handler) Register(r chi.Router) {
	r.Route("/teams", func(r chi.Router) {
		r.With(middleware.RequireRole(requestcontext.RoleParticipant)).
			Post("/", h.handleRegisterTeam)
		r.With(middleware.RequireRole()).
			Get("/", h.handleListTeams)

		r.Route("/{teamID}", func(r chi.Router) {
			r.Get("/", h.handleGetTeam)
			r.With(middleware.RequireRole(requestcontext.RoleParticipant)).
				Post("/proposal", h.handleSubmitProposal)
			r.With(middleware.RequireRole()).
				Put("/status", h.handleSetApplicationStatus)
			r.With(middleware.RequireRole(requestcontext.RoleParticipant)).
				Post("/payment", h.handleSubmitPayment)
			r.With(middleware.RequireRole()).
				Put("/payment", h.handleSetPaymentStatus)
			r.With(middleware.RequireRole()).
				Delete("/", h.handleDeleteTeam)
		})
	})
}

func (h *Handler) teamIDFromURL(r *http.Request) (id.TeamID, error) {
	return id.ParseTeamID(chi.URLParam(r, "teamID"))
}

func (h *Handler) handleRegisterTeam(w http.ResponseWriter, r *http.Request) {
	var req registerTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	team, err := h.teams.RegisterTeam(r.Context(), service.RegisterTeamInput{
		Name:        req.Name,
		Type:        models.TeamType(req.TeamType),
		MemberCount: req.MemberCount,
		Track:       models.Track(req.Track),
		ProposalRef: req.ProposalRef,
	})
	if err != nil {
		h.writeServiceError(w, r, "register team", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, team)
}

func (h *Handler) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := h.teamIDFromURL(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	team, err := h.teams.GetTeam(r.Context(), teamID)
	if err != nil {
		h.writeServiceError(w, r, "get team", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, team)
}

func (h *Handler) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.ListTeams(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list teams", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, teams)
}

func (h *Handler) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	teamID, err := h.teamIDFromURL(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req submitProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		shared.WriteError(w, err)
		return
	}
	team, err := h.teams.SubmitProposal(r.Context(), teamID, req.DocumentRef)
	if err != nil {
		h.writeServiceError(w, r, "submit proposal", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, team)
}

func (h *Handler) handleSetApplicationStatus(w http.ResponseWriter, r *http.Request) {
	teamID, err := h.teamIDFromURL(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req setApplicationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		shared.WriteError(w, err)
		return
	}
	team, err := h.teams.SetApplicationStatus(r.Context(), teamID, models.ApplicationStatus(req.Status))
	if err != nil {
		h.writeServiceError(w, r, "set application status", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, team)
}

func (h *Handler) handleSubmitPayment(w http.ResponseWriter, r *http.Request) {
	teamID, err := h.teamIDFromURL(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req submitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		shared.WriteError(w, err)
		return
	}
	team, err := h.teams.SubmitPayment(r.Context(), teamID, req.ProofRef)
	if err != nil {
		h.writeServiceError(w, r, "submit payment", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, team)
}

func (h *Handler) handleSetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	teamID, err := h.teamIDFromURL(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req setPaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		shared.WriteError(w, err)
		return
	}
	team, err := h.teams.SetPaymentStatus(r.Context(), teamID, models.PaymentStatus(req.Status))
	if err != nil {
		h.writeServiceError(w, r, "set payment status", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, team)
}

func (h *Handler) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := h.teamIDFromURL(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.teams.DeleteTeam(r.Context(), teamID); err != nil {
		h.writeServiceError(w, r, "delete team", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError logs unexpected failures and lets coded errors map to
// their stable statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(r.Context(), "failed to "+op,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
	}
	shared.WriteError(w, err)
}
