package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"customer-service/internal/kyc/models"
	dErrors "customer-service/pkg/domain-errors"
	"customer-service/pkg/platform/httputil"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/requestcontext"
)

// DefaultMaxUploadBytes bounds a whole multipart request body.
const DefaultMaxUploadBytes = 10 << 20

// Form field names shared by the create and update endpoints.
const (
	fieldCustomerID         = "customer_id"
	fieldDocTypeID          = "doc_type_id"
	fieldRemarks            = "remarks"
	fieldVerificationStatus = "verification_status"
	fieldFile               = "file"
)

// Service defines the kyc operations exposed over HTTP.
type Service interface {
	AddKyc(ctx context.Context, req *models.AddKycRequest) (*models.KycResponse, error)
	GetByID(ctx context.Context, kycID int64) (*models.KycResponse, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]models.KycResponse, error)
	Update(ctx context.Context, kycID int64, patch models.Patch) (*models.KycResponse, error)
	SoftDelete(ctx context.Context, kycID int64) (*models.KycResponse, error)
	ListPaged(ctx context.Context, page, pageSize int, verificationStatus string) (paging.Result[models.KycResponse], error)
}

// Handler handles kyc endpoints.
type Handler struct {
	logger         *slog.Logger
	kycs           Service
	maxUploadBytes int64
}

type Option func(*Handler)

// WithMaxUploadBytes overrides DefaultMaxUploadBytes.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// New creates a new kyc Handler.
func New(kycs Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{logger: logger, kycs: kycs, maxUploadBytes: DefaultMaxUploadBytes}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the kyc routes with the chi router. The per-customer
// listing lives under /customers so it is registered on the root router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/kyc", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
	r.Get("/customers/{id}/kyc", h.handleListByCustomer)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.parseForm(w, r); err != nil {
		httputil.WriteError(w, err)
		return
	}
	customerID, err := httputil.ParseID(r.FormValue(fieldCustomerID), fieldCustomerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	docTypeID, err := httputil.ParseID(r.FormValue(fieldDocTypeID), fieldDocTypeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	file, err := readFile(r)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to read upload")
		return
	}

	resp, err := h.kycs.AddKyc(ctx, &models.AddKycRequest{CustomerID: customerID, DocTypeID: docTypeID, File: file})
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to submit kyc document")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := httputil.QueryInt(r, "page", 1)
	pageSize := httputil.QueryInt(r, "page_size", paging.DefaultPageSize)

	result, err := h.kycs.ListPaged(ctx, page, pageSize, r.URL.Query().Get(fieldVerificationStatus))
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list kyc documents")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := h.kycs.GetByID(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to fetch kyc document")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListByCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	customerID, err := httputil.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := h.kycs.GetByCustomerID(ctx, customerID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list customer documents")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httputil.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.parseForm(w, r); err != nil {
		httputil.WriteError(w, err)
		return
	}
	patch, err := patchFromForm(r)
	if err != nil {
		h.writeServiceError(ctx, w, err, "invalid kyc update")
		return
	}

	resp, err := h.kycs.Update(ctx, id, patch)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to update kyc document")
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
	resp, err := h.kycs.SoftDelete(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to delete kyc document")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dErrors.New(dErrors.CodeValidation, "request body too large")
		}
		return dErrors.New(dErrors.CodeBadRequest, "expected a multipart/form-data body")
	}
	return nil
}

// patchFromForm maps present form fields onto a Patch. A field sent empty is
// still present: an empty remarks value clears the remarks.
func patchFromForm(r *http.Request) (models.Patch, error) {
	var patch models.Patch
	if v, ok := formField(r, fieldRemarks); ok {
		patch.Remarks = &v
	}
	if v, ok := formField(r, fieldCustomerID); ok {
		id, err := httputil.OptionalID(v, fieldCustomerID)
		if err != nil {
			return patch, err
		}
		patch.CustomerID = id
	}
	if v, ok := formField(r, fieldDocTypeID); ok {
		id, err := httputil.OptionalID(v, fieldDocTypeID)
		if err != nil {
			return patch, err
		}
		patch.DocTypeID = id
	}
	if v, ok := formField(r, fieldVerificationStatus); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return patch, dErrors.New(dErrors.CodeValidation, "verification_status must not be empty")
		}
		patch.VerificationStatus = &v
	}
	file, err := readFile(r)
	if err != nil {
		return patch, err
	}
	patch.File = file
	return patch, nil
}

func formField(r *http.Request, name string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// readFile returns the uploaded file part, or nil when none was sent.
func readFile(r *http.Request) (*models.File, error) {
	f, header, err := r.FormFile(fieldFile)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid file part")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read upload")
	}
	return &models.File{Name: header.Filename, Content: content}, nil
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	} else {
		h.logger.WarnContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	}
	httputil.WriteError(w, err)
}
