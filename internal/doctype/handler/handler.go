package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"customer-service/internal/doctype/models"
	dErrors "customer-service/pkg/domain-errors"
	"customer-service/pkg/platform/httputil"
	"customer-service/pkg/requestcontext"
)

// Lister is the read side of the doc type registry.
type Lister interface {
	List(ctx context.Context) ([]*models.DocType, error)
}

// Handler serves the doc type catalogue.
type Handler struct {
	types  Lister
	logger *slog.Logger
}

func New(types Lister, logger *slog.Logger) *Handler {
	return &Handler{types: types, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/doc-types", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	types, err := h.types.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list doc types",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list doc types"))
		return
	}
	out := make([]models.DocTypeResponse, 0, len(types))
	for _, dt := range types {
		out = append(out, dt.ToResponse())
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
