package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"customer-service/internal/audit"
	"customer-service/internal/documents"
	kycmetrics "customer-service/internal/kyc/metrics"
	"customer-service/internal/kyc/models"
	dErrors "customer-service/pkg/domain-errors"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/platform/sentinel"
	"customer-service/pkg/platform/tracing"
	"customer-service/pkg/requestcontext"
)

// Store is the kyc persistence port. ErrNotFound covers missing and
// soft-deleted rows; ErrConflict signals a duplicate active document or
// doc_ref_no.
type Store interface {
	CustomerExistsActive(ctx context.Context, customerID int64) (bool, error)
	Create(ctx context.Context, k *models.Kyc) error
	FindActiveByID(ctx context.Context, id int64) (*models.Kyc, error)
	ListActiveByCustomer(ctx context.Context, customerID int64) ([]*models.Kyc, error)
	HasActiveDocument(ctx context.Context, customerID, docTypeID, excludeID int64) (bool, error)
	Save(ctx context.Context, k *models.Kyc) error
	ListActive(ctx context.Context, filter models.ListFilter, req paging.Request) ([]*models.Kyc, int, error)
}

// DocTypes checks doc type existence among non-deleted types.
type DocTypes interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service owns all writes to kyc records and the document upload workflow.
type Service struct {
	kycs              Store
	docTypes          DocTypes
	storage           documents.Storage
	logger            *slog.Logger
	auditPublisher    AuditPublisher
	metrics           *kycmetrics.Metrics
	tracer            trace.Tracer
	allowEmptyListing bool
	newDocRefNo       func() string
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *kycmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithEmptyDocumentListAllowed makes GetByCustomerID return an empty list
// instead of NotFound for a customer without documents.
func WithEmptyDocumentListAllowed() Option {
	return func(s *Service) {
		s.allowEmptyListing = true
	}
}

// WithDocRefNoGenerator overrides the doc_ref_no source (tests).
func WithDocRefNoGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newDocRefNo = fn
	}
}

// New constructs a Service.
func New(kycs Store, docTypes DocTypes, storage documents.Storage, opts ...Option) *Service {
	s := &Service{
		kycs:        kycs,
		docTypes:    docTypes,
		storage:     storage,
		tracer:      tracing.Tracer("customer-service/kyc"),
		newDocRefNo: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddKyc validates and stores a new document, then records it as Pending.
// The file is written before the row; if the row cannot be written the file
// is deleted again.
func (s *Service) AddKyc(ctx context.Context, req *models.AddKycRequest) (_ *models.KycResponse, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "kyc.AddKyc",
		attribute.Int64("customer.id", req.CustomerID), attribute.Int64("doc_type.id", req.DocTypeID))
	defer func() { tracing.End(span, err) }()
	defer s.observe("add", time.Now())

	if err := s.requireCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	if req.File == nil || req.File.Size() == 0 {
		s.reject("missing_file")
		return nil, dErrors.New(dErrors.CodeValidation, "file is required")
	}
	if !req.File.IsPDF() {
		s.reject("not_pdf")
		return nil, dErrors.New(dErrors.CodeValidation, "only .pdf documents are accepted")
	}
	if err := s.requireDocType(ctx, req.DocTypeID); err != nil {
		return nil, err
	}
	if err := s.guardDuplicate(ctx, req.CustomerID, req.DocTypeID, 0); err != nil {
		return nil, err
	}

	stored, err := s.storage.Store(ctx, req.File.Content, req.File.Name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store document")
	}

	k := models.NewKyc(req.CustomerID, req.DocTypeID, stored.Reference, stored.Checksum, s.newDocRefNo(), requestcontext.Now(ctx))
	if err := s.kycs.Create(ctx, k); err != nil {
		s.compensate(ctx, stored.Reference)
		if errors.Is(err, sentinel.ErrConflict) {
			s.reject("duplicate")
			return nil, dErrors.New(dErrors.CodeConflict, "a document of this type is already on file for the customer")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record document")
	}

	s.logAudit(ctx, audit.EventKycSubmitted, k)
	if s.metrics != nil {
		s.metrics.DocumentsSubmitted.Inc()
		s.metrics.UploadBytes.Observe(float64(stored.Size))
	}
	return s.reload(ctx, k.ID)
}

func (s *Service) GetByID(ctx context.Context, kycID int64) (_ *models.KycResponse, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "kyc.GetByID", attribute.Int64("kyc.id", kycID))
	defer func() { tracing.End(span, err) }()

	k, err := s.kycs.FindActiveByID(ctx, kycID)
	if err != nil {
		return nil, wrapKycErr(err, "failed to load document")
	}
	resp := k.ToResponse()
	return &resp, nil
}

// GetByCustomerID lists a customer's active documents. An empty result is
// NotFound unless the service was built with WithEmptyDocumentListAllowed.
func (s *Service) GetByCustomerID(ctx context.Context, customerID int64) (_ []models.KycResponse, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "kyc.GetByCustomerID", attribute.Int64("customer.id", customerID))
	defer func() { tracing.End(span, err) }()

	rows, err := s.kycs.ListActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	if len(rows) == 0 && !s.allowEmptyListing {
		return nil, dErrors.New(dErrors.CodeNotFound, "no documents found for customer")
	}
	out := make([]models.KycResponse, 0, len(rows))
	for _, k := range rows {
		out = append(out, k.ToResponse())
	}
	return out, nil
}

// Update applies the patch in a fixed order: simple fields, customer
// reassignment, doc type reassignment, replacement file, verification status.
func (s *Service) Update(ctx context.Context, kycID int64, patch models.Patch) (_ *models.KycResponse, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "kyc.Update", attribute.Int64("kyc.id", kycID))
	defer func() { tracing.End(span, err) }()
	defer s.observe("update", time.Now())

	k, err := s.kycs.FindActiveByID(ctx, kycID)
	if err != nil {
		return nil, wrapKycErr(err, "failed to load document")
	}

	if patch.Remarks != nil {
		k.Remarks = *patch.Remarks
	}
	if patch.CustomerID != nil {
		if err := s.requireCustomer(ctx, *patch.CustomerID); err != nil {
			return nil, err
		}
		k.CustomerID = *patch.CustomerID
	}
	if patch.DocTypeID != nil {
		if err := s.requireDocType(ctx, *patch.DocTypeID); err != nil {
			return nil, err
		}
		k.DocTypeID = *patch.DocTypeID
	}

	var newReference string
	// An empty upload means no replacement.
	if patch.File != nil && patch.File.Size() > 0 {
		if patch.File.Size() > models.MaxUpdateFileSize {
			s.reject("too_large")
			return nil, dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("file exceeds the %d KiB limit", models.MaxUpdateFileSize/1024))
		}
		if !patch.File.IsPDF() {
			s.reject("not_pdf")
			return nil, dErrors.New(dErrors.CodeValidation, "only .pdf documents are accepted")
		}
		if err := s.guardDuplicate(ctx, k.CustomerID, k.DocTypeID, k.ID); err != nil {
			return nil, err
		}
		stored, err := s.storage.Store(ctx, patch.File.Content, patch.File.Name)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store document")
		}
		newReference = stored.Reference
		k.FilePath = stored.Reference
		k.DocChecksum = stored.Checksum
	}

	if patch.VerificationStatus != nil {
		k.VerificationStatus = *patch.VerificationStatus
	}
	now := requestcontext.Now(ctx)
	k.ModifiedAt = &now

	if err := s.kycs.Save(ctx, k); err != nil {
		if newReference != "" {
			s.compensate(ctx, newReference)
		}
		if errors.Is(err, sentinel.ErrConflict) {
			s.reject("duplicate")
		}
		return nil, wrapKycErr(err, "failed to update document")
	}

	s.logAudit(ctx, audit.EventKycUpdated, k)
	return s.reload(ctx, k.ID)
}

// SoftDelete stamps the deletion and returns the record as it stood.
func (s *Service) SoftDelete(ctx context.Context, kycID int64) (_ *models.KycResponse, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "kyc.SoftDelete", attribute.Int64("kyc.id", kycID))
	defer func() { tracing.End(span, err) }()
	defer s.observe("delete", time.Now())

	k, err := s.kycs.FindActiveByID(ctx, kycID)
	if err != nil {
		return nil, wrapKycErr(err, "failed to load document")
	}
	k.MarkDeleted(requestcontext.Now(ctx))
	if err := s.kycs.Save(ctx, k); err != nil {
		return nil, wrapKycErr(err, "failed to delete document")
	}

	s.logAudit(ctx, audit.EventKycDeleted, k)
	if s.metrics != nil {
		s.metrics.DocumentsDeleted.Inc()
	}
	resp := k.ToResponse()
	return &resp, nil
}

// ListPaged lists active documents newest first, optionally filtered by
// verification status (case-insensitive exact match).
func (s *Service) ListPaged(ctx context.Context, page, pageSize int, verificationStatus string) (_ paging.Result[models.KycResponse], err error) {
	req := paging.Clamp(page, pageSize)
	ctx, span := tracing.Start(ctx, s.tracer, "kyc.ListPaged",
		attribute.Int("page", req.Page), attribute.Int("page_size", req.PageSize))
	defer func() { tracing.End(span, err) }()
	defer s.observe("list", time.Now())

	filter := models.ListFilter{VerificationStatus: strings.TrimSpace(verificationStatus)}
	rows, total, err := s.kycs.ListActive(ctx, filter, req)
	if err != nil {
		return paging.Result[models.KycResponse]{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	items := make([]models.KycResponse, 0, len(rows))
	for _, k := range rows {
		items = append(items, k.ToResponse())
	}
	return paging.NewResult(items, req, total), nil
}

func (s *Service) requireCustomer(ctx context.Context, customerID int64) error {
	exists, err := s.kycs.CustomerExistsActive(ctx, customerID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check customer")
	}
	if !exists {
		return dErrors.New(dErrors.CodeNotFound, "customer not found")
	}
	return nil
}

func (s *Service) requireDocType(ctx context.Context, docTypeID int64) error {
	exists, err := s.docTypes.Exists(ctx, docTypeID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check document type")
	}
	if !exists {
		return dErrors.New(dErrors.CodeNotFound, "document type not found")
	}
	return nil
}

// guardDuplicate rejects a second active document for the pair. The unique
// index catches what slips through concurrently.
func (s *Service) guardDuplicate(ctx context.Context, customerID, docTypeID, excludeID int64) error {
	dup, err := s.kycs.HasActiveDocument(ctx, customerID, docTypeID, excludeID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing documents")
	}
	if dup {
		s.reject("duplicate")
		return dErrors.New(dErrors.CodeConflict, "a document of this type is already on file for the customer")
	}
	return nil
}

func (s *Service) reload(ctx context.Context, kycID int64) (*models.KycResponse, error) {
	k, err := s.kycs.FindActiveByID(ctx, kycID)
	if err != nil {
		return nil, wrapKycErr(err, "failed to load document")
	}
	resp := k.ToResponse()
	return &resp, nil
}

func (s *Service) compensate(ctx context.Context, reference string) {
	if s.metrics != nil {
		s.metrics.Compensations.Inc()
	}
	// The request may already be cancelled; the cleanup must still run.
	if err := s.storage.Delete(context.WithoutCancel(ctx), reference); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to remove orphaned document",
			"reference", reference,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.Action, k *models.Kyc) {
	requestID := requestcontext.RequestID(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event),
			"event", string(event),
			"log_type", "audit",
			"kyc_id", k.ID,
			"customer_id", k.CustomerID,
			"doc_ref_no", k.DocRefNo,
			"request_id", requestID,
		)
	}
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:     string(event),
		CustomerID: k.CustomerID,
		KycID:      k.ID,
		Status:     k.VerificationStatus,
		RequestID:  requestID,
	}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "event", string(event), "error", err)
	}
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.Reject(reason)
	}
}

func (s *Service) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}

func wrapKycErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "document not found")
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "a document of this type is already on file for the customer")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
