package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"customer-service/internal/customer/models"
	dErrors "customer-service/pkg/domain-errors"
	"customer-service/pkg/platform/httputil"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/requestcontext"
)

// Service defines the customer operations exposed over HTTP.
type Service interface {
	AddCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.CustomerResponse, error)
	LookupByExternalUser(ctx context.Context, userID int64) (*models.CustomerResponse, error)
	FetchByID(ctx context.Context, customerID int64) (*models.CustomerResponse, error)
	Update(ctx context.Context, customerID int64, patch models.Patch) (*models.CustomerResponse, error)
	SoftDelete(ctx context.Context, customerID int64) (*models.CustomerResponse, error)
	ListPaged(ctx context.Context, page, pageSize int, nameFilter string) (paging.Result[models.CustomerResponse], error)
}

// Handler handles customer endpoints.
type Handler struct {
	logger    *slog.Logger
	customers Service
}

// New creates a new customer Handler.
func New(customers Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, customers: customers}
}

// Register registers the customer routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/by-user/{userId}", h.handleLookupByUser)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateCustomerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	resp, err := h.customers.AddCustomer(ctx, req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to create customer")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := httputil.QueryInt(r, "page", 1)
	pageSize := httputil.QueryInt(r, "page_size", paging.DefaultPageSize)

	result, err := h.customers.ListPaged(ctx, page, pageSize, r.URL.Query().Get("name"))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list customers")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleLookupByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.ParseID(chi.URLParam(r, "userId"), "userId")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := h.customers.LookupByExternalUser(ctx, userID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to look up customer")
		return
	}
	if resp == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no active customer for user"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := h.customers.FetchByID(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to fetch customer")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id, err := httputil.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateCustomerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	resp, err := h.customers.Update(ctx, id, req.Patch())
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to update customer")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := h.customers.SoftDelete(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to delete customer")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	} else {
		h.logger.WarnContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	}
	httputil.WriteError(w, err)
}
