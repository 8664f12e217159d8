package files

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hackhub/internal/transport/http/shared"
	dErrors "hackhub/pkg/domain-errors"
	"hackhub/pkg/requestcontext"
)

// Handler accepts upload notifications from the file pipeline. The bytes
// live elsewhere; this endpoint only makes the reference resolvable.
type Handler struct {
	registry Registry
}

func NewHandler(registry Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/files", h.handleRecord)
}

type recordFileRequest struct {
	Ref string `json:"ref"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req recordFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Ref == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "ref is required"))
		return
	}
	if err := h.registry.Record(r.Context(), req.Ref, requestcontext.ActorID(r.Context())); err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeDependencyFailure, "recording file reference"))
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]string{"ref": req.Ref})
}
