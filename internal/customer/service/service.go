package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"customer-service/internal/audit"
	customermetrics "customer-service/internal/customer/metrics"
	"customer-service/internal/customer/models"
	"customer-service/internal/userdirectory"
	dErrors "customer-service/pkg/domain-errors"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/platform/sentinel"
	"customer-service/pkg/platform/tracing"
	"customer-service/pkg/requestcontext"
)

// Store is the customer persistence port. Implementations return sentinel
// errors: ErrNotFound for missing or soft-deleted rows, ErrConflict when the
// one-active-customer-per-user rule is violated.
type Store interface {
	Create(ctx context.Context, c *models.CustomerDetails) error
	FindActiveByID(ctx context.Context, id int64) (*models.CustomerDetails, error)
	FindActiveByUserID(ctx context.Context, userID int64) (*models.CustomerDetails, error)
	ExistsAny(ctx context.Context, id int64) (bool, error)
	ExistsActive(ctx context.Context, id int64) (bool, error)
	Save(ctx context.Context, c *models.CustomerDetails) error
	ListActive(ctx context.Context, filter models.ListFilter, req paging.Request) ([]*models.CustomerDetails, int, error)
}

// UserDirectory resolves external users. GetUserByID returns (nil, nil) for
// an unknown user.
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID int64) (*userdirectory.User, error)
	GetAllUsers(ctx context.Context) ([]userdirectory.User, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service owns all writes to customer records.
type Service struct {
	customers      Store
	directory      UserDirectory
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *customermetrics.Metrics
	tracer         trace.Tracer
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

func WithMetrics(m *customermetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(customers Store, directory UserDirectory, opts ...Option) *Service {
	s := &Service{
		customers: customers,
		directory: directory,
		tracer:    tracing.Tracer("customer-service/customer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCustomer creates a pending customer for an external user. The user must
// be known to the directory and must not already have an active customer.
func (s *Service) AddCustomer(ctx context.Context, req *models.CreateCustomerRequest) (_ *models.CustomerResponse, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "customer.AddCustomer", attribute.Int64("user.id", req.UserID))
	defer func() { tracing.End(span, err) }()
	defer s.observe("add", time.Now())

	user, err := s.directory.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, wrapDirectoryErr(err)
	}
	if user == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}

	// Fast path; the unique index settles races.
	if _, err := s.customers.FindActiveByUserID(ctx, req.UserID); err == nil {
		s.incrementConflict()
		return nil, dErrors.New(dErrors.CodeConflict, "customer already exists for this user")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing customer")
	}

	c := models.NewCustomer(req.UserID, req.Profile(), requestcontext.Now(ctx))
	if err := s.customers.Create(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.incrementConflict()
			return nil, dErrors.New(dErrors.CodeConflict, "customer already exists for this user")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create customer")
	}

	s.logAudit(ctx, audit.EventCustomerCreated, c)
	if s.metrics != nil {
		s.metrics.CustomersCreated.Inc()
	}
	resp := c.ToResponse(user.Name, user.Email)
	return &resp, nil
}

// LookupByExternalUser returns the active customer of userID, or nil when
// there is none. Callers use it as a dedup check, so it does not enrich.
func (s *Service) LookupByExternalUser(ctx context.Context, userID int64) (_ *models.CustomerResponse, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "customer.LookupByExternalUser", attribute.Int64("user.id", userID))
	defer func() { tracing.End(span, err) }()

	c, err := s.customers.FindActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up customer")
	}
	resp := c.ToResponse("", "")
	return &resp, nil
}

func (s *Service) FetchByID(ctx context.Context, customerID int64) (_ *models.CustomerResponse, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "customer.FetchByID", attribute.Int64("customer.id", customerID))
	defer func() { tracing.End(span, err) }()
	defer s.observe("fetch", time.Now())

	c, err := s.customers.FindActiveByID(ctx, customerID)
	if err != nil {
		return nil, wrapCustomerErr(err, "failed to load customer")
	}
	return s.enrich(ctx, c), nil
}

// ExistsAny reports whether the customer row exists at all, soft-deleted or
// not.
func (s *Service) ExistsAny(ctx context.Context, customerID int64) (bool, error) {
	exists, err := s.customers.ExistsAny(ctx, customerID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check customer")
	}
	return exists, nil
}

// ExistsActive reports whether a non-deleted customer exists.
func (s *Service) ExistsActive(ctx context.Context, customerID int64) (bool, error) {
	exists, err := s.customers.ExistsActive(ctx, customerID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check customer")
	}
	return exists, nil
}

// Update applies the supplied patch fields to an active customer.
func (s *Service) Update(ctx context.Context, customerID int64, patch models.Patch) (_ *models.CustomerResponse, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "customer.Update", attribute.Int64("customer.id", customerID))
	defer func() { tracing.End(span, err) }()
	defer s.observe("update", time.Now())

	c, err := s.customers.FindActiveByID(ctx, customerID)
	if err != nil {
		return nil, wrapCustomerErr(err, "failed to load customer")
	}
	c.ApplyPatch(patch, requestcontext.Now(ctx))
	if err := s.customers.Save(ctx, c); err != nil {
		return nil, wrapCustomerErr(err, "failed to update customer")
	}

	s.logAudit(ctx, audit.EventCustomerUpdated, c)
	return s.enrich(ctx, c), nil
}

// SoftDelete stamps the deletion and returns the record as it stood.
func (s *Service) SoftDelete(ctx context.Context, customerID int64) (_ *models.CustomerResponse, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "customer.SoftDelete", attribute.Int64("customer.id", customerID))
	defer func() { tracing.End(span, err) }()
	defer s.observe("delete", time.Now())

	c, err := s.customers.FindActiveByID(ctx, customerID)
	if err != nil {
		return nil, wrapCustomerErr(err, "failed to load customer")
	}
	c.MarkDeleted(requestcontext.Now(ctx))
	if err := s.customers.Save(ctx, c); err != nil {
		return nil, wrapCustomerErr(err, "failed to delete customer")
	}

	s.logAudit(ctx, audit.EventCustomerDeleted, c)
	if s.metrics != nil {
		s.metrics.CustomersDeleted.Inc()
	}
	return s.enrich(ctx, c), nil
}

// ListPaged returns active customers newest first. A non-empty nameFilter is
// matched case-insensitively against directory display names and narrows
// the query before counting, so TotalItems is the filtered count.
func (s *Service) ListPaged(ctx context.Context, page, pageSize int, nameFilter string) (_ paging.Result[models.CustomerResponse], err error) {
	req := paging.Clamp(page, pageSize)
	ctx, span := tracing.Start(ctx, s.tracer, "customer.ListPaged",
		attribute.Int("page", req.Page), attribute.Int("page_size", req.PageSize))
	defer func() { tracing.End(span, err) }()
	defer s.observe("list", time.Now())

	nameFilter = strings.TrimSpace(nameFilter)
	users, dirErr := s.directory.GetAllUsers(ctx)

	var filter models.ListFilter
	if nameFilter != "" {
		// Filtering needs the directory; enrichment alone does not.
		if dirErr != nil {
			return paging.Result[models.CustomerResponse]{}, wrapDirectoryErr(dirErr)
		}
		filter = models.ListFilter{RestrictToUsers: true, UserIDs: userdirectory.MatchName(users, nameFilter)}
		if len(filter.UserIDs) == 0 {
			return paging.NewResult[models.CustomerResponse](nil, req, 0), nil
		}
	} else if dirErr != nil {
		s.enrichmentFailed(ctx, dirErr, "user_list")
		users = nil
	}

	rows, total, err := s.customers.ListActive(ctx, filter, req)
	if err != nil {
		return paging.Result[models.CustomerResponse]{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list customers")
	}

	index := userdirectory.Index(users)
	items := make([]models.CustomerResponse, 0, len(rows))
	for _, c := range rows {
		u := index[c.UserID]
		items = append(items, c.ToResponse(u.Name, u.Email))
	}
	return paging.NewResult(items, req, total), nil
}

// enrich fills identity fields from the directory. Failures leave them empty.
func (s *Service) enrich(ctx context.Context, c *models.CustomerDetails) *models.CustomerResponse {
	var name, email string
	user, err := s.directory.GetUserByID(ctx, c.UserID)
	switch {
	case err != nil:
		s.enrichmentFailed(ctx, err, "customer_id", c.ID)
	case user != nil:
		name, email = user.Name, user.Email
	}
	resp := c.ToResponse(name, email)
	return &resp
}

func (s *Service) enrichmentFailed(ctx context.Context, err error, attrs ...any) {
	if s.metrics != nil {
		s.metrics.EnrichmentFailures.Inc()
	}
	if s.logger != nil {
		args := append([]any{"error", err, "request_id", requestcontext.RequestID(ctx)}, attrs...)
		s.logger.WarnContext(ctx, "user enrichment failed", args...)
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.Action, c *models.CustomerDetails) {
	requestID := requestcontext.RequestID(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event),
			"event", string(event),
			"log_type", "audit",
			"customer_id", c.ID,
			"user_id", c.UserID,
			"request_id", requestID,
		)
	}
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:     string(event),
		CustomerID: c.ID,
		UserID:     c.UserID,
		Status:     c.Status,
		RequestID:  requestID,
	}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "event", string(event), "error", err)
	}
}

func (s *Service) incrementConflict() {
	if s.metrics != nil {
		s.metrics.Conflicts.Inc()
	}
}

func (s *Service) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}

func wrapCustomerErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "customer not found")
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "customer already exists for this user")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// wrapDirectoryErr keeps the cause but classifies directory failures so the
// transport layer can tell them apart from core failures.
func wrapDirectoryErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "user directory timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "user directory unavailable")
}
