package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"customer-service/internal/audit"
	customermetrics "customer-service/internal/customer/metrics"
	"customer-service/internal/customer/models"
	"customer-service/internal/customer/service/mocks"
	"customer-service/internal/customer/store"
	"customer-service/internal/userdirectory"
	dErrors "customer-service/pkg/domain-errors"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/platform/sentinel"
	"customer-service/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks UserDirectory
type CustomerServiceSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	directory *mocks.MockUserDirectory
	store     *store.InMemory
	sink      *audit.MemorySink
	metrics   *customermetrics.Metrics
	service   *Service
}

func TestCustomerServiceSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.ctrl = gomock.NewController(s.T())
	s.directory = mocks.NewMockUserDirectory(s.ctrl)
	s.store = store.NewInMemory()
	s.sink = audit.NewMemorySink()
	s.metrics = customermetrics.New(prometheus.NewRegistry())
	s.service = New(s.store, s.directory,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(audit.NewPublisher(s.sink)),
		WithMetrics(s.metrics),
	)
}

func (s *CustomerServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func user(id int64, name string) *userdirectory.User {
	return &userdirectory.User{UserID: id, Name: name, Email: fmt.Sprintf("user%d@example.com", id)}
}

func (s *CustomerServiceSuite) seed(userID int64, at time.Time) *models.CustomerDetails {
	c := models.NewCustomer(userID, models.Profile{}, at)
	s.Require().NoError(s.store.Create(s.ctx, c))
	return c
}

func (s *CustomerServiceSuite) TestAddCustomer() {
	s.Run("creates pending customer enriched from the directory", func() {
		s.directory.EXPECT().GetUserByID(gomock.Any(), int64(42)).Return(user(42, "Ann Lee"), nil)

		resp, err := s.service.AddCustomer(s.ctx, &models.CreateCustomerRequest{UserID: 42, Occupation: "Pilot"})
		s.Require().NoError(err)
		s.Equal(models.StatusPending, resp.Status)
		s.Equal("Ann Lee", resp.Name)
		s.Equal("Pilot", resp.Occupation)
		s.Equal(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), resp.CreatedAt)
		s.Equal([]string{string(audit.EventCustomerCreated)}, s.sink.Actions())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.CustomersCreated))
	})

	s.Run("second customer for the same user is a conflict", func() {
		s.directory.EXPECT().GetUserByID(gomock.Any(), int64(42)).Return(user(42, "Ann Lee"), nil)

		_, err := s.service.AddCustomer(s.ctx, &models.CreateCustomerRequest{UserID: 42})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Conflicts))
	})

	s.Run("unknown user is not found", func() {
		s.directory.EXPECT().GetUserByID(gomock.Any(), int64(7)).Return(nil, nil)

		_, err := s.service.AddCustomer(s.ctx, &models.CreateCustomerRequest{UserID: 7})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("directory failure propagates with its cause", func() {
		cause := fmt.Errorf("dial tcp: %w", sentinel.ErrUnavailable)
		s.directory.EXPECT().GetUserByID(gomock.Any(), int64(8)).Return(nil, cause)

		_, err := s.service.AddCustomer(s.ctx, &models.CreateCustomerRequest{UserID: 8})
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.ErrorIs(err, sentinel.ErrUnavailable)
	})

	s.Run("deadline is reported as timeout", func() {
		s.directory.EXPECT().GetUserByID(gomock.Any(), int64(9)).Return(nil, context.DeadlineExceeded)

		_, err := s.service.AddCustomer(s.ctx, &models.CreateCustomerRequest{UserID: 9})
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}

// TestRecreateAfterSoftDelete covers create, conflicting create, delete,
// then a successful create for the same user.
func (s *CustomerServiceSuite) TestRecreateAfterSoftDelete() {
	s.directory.EXPECT().GetUserByID(gomock.Any(), int64(42)).Return(user(42, "Ann"), nil).AnyTimes()

	first, err := s.service.AddCustomer(s.ctx, &models.CreateCustomerRequest{UserID: 42})
	s.Require().NoError(err)

	_, err = s.service.AddCustomer(s.ctx, &models.CreateCustomerRequest{UserID: 42})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	deleted, err := s.service.SoftDelete(s.ctx, first.CustomerID)
	s.Require().NoError(err)
	s.Equal(first.CustomerID, deleted.CustomerID)

	second, err := s.service.AddCustomer(s.ctx, &models.CreateCustomerRequest{UserID: 42})
	s.Require().NoError(err)
	s.NotEqual(first.CustomerID, second.CustomerID)
}

func (s *CustomerServiceSuite) TestSoftDeletedCustomerIsGone() {
	c := s.seed(5, time.Now())
	s.directory.EXPECT().GetUserByID(gomock.Any(), int64(5)).Return(user(5, "Bo"), nil)

	_, err := s.service.SoftDelete(s.ctx, c.ID)
	s.Require().NoError(err)

	_, err = s.service.FetchByID(s.ctx, c.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	status := "Approved"
	_, err = s.service.Update(s.ctx, c.ID, models.Patch{Status: &status})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.SoftDelete(s.ctx, c.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	lookup, err := s.service.LookupByExternalUser(s.ctx, 5)
	s.Require().NoError(err)
	s.Nil(lookup)

	anyExists, err := s.service.ExistsAny(s.ctx, c.ID)
	s.Require().NoError(err)
	s.True(anyExists, "row is never physically removed")

	active, err := s.service.ExistsActive(s.ctx, c.ID)
	s.Require().NoError(err)
	s.False(active)

	s.Equal([]string{string(audit.EventCustomerDeleted)}, s.sink.Actions())
}

func (s *CustomerServiceSuite) TestFetchByIDEnrichmentIsBestEffort() {
	c := s.seed(5, time.Now())

	s.Run("enriched when the directory answers", func() {
		s.directory.EXPECT().GetUserByID(gomock.Any(), int64(5)).Return(user(5, "Bo"), nil)
		resp, err := s.service.FetchByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal("Bo", resp.Name)
		s.Equal("user5@example.com", resp.Email)
	})

	s.Run("directory failure leaves identity empty", func() {
		s.directory.EXPECT().GetUserByID(gomock.Any(), int64(5)).Return(nil, errors.New("boom"))
		resp, err := s.service.FetchByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Empty(resp.Name)
		s.Empty(resp.Email)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.EnrichmentFailures))
	})

	s.Run("unknown user leaves identity empty", func() {
		s.directory.EXPECT().GetUserByID(gomock.Any(), int64(5)).Return(nil, nil)
		resp, err := s.service.FetchByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Empty(resp.Name)
	})
}

func (s *CustomerServiceSuite) TestUpdateAppliesOnlySuppliedFields() {
	c := s.seed(5, time.Now())
	c.PhoneNumber = "+100"
	s.Require().NoError(s.store.Save(s.ctx, c))
	s.directory.EXPECT().GetUserByID(gomock.Any(), int64(5)).Return(user(5, "Bo"), nil)

	status := "Verified"
	resp, err := s.service.Update(s.ctx, c.ID, models.Patch{Status: &status})
	s.Require().NoError(err)
	s.Equal("Verified", resp.Status)
	s.Equal("+100", resp.PhoneNumber)
	s.NotNil(resp.ModifiedAt)

	stored, err := s.store.FindActiveByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(int64(5), *stored.ModifiedBy)
}

func (s *CustomerServiceSuite) TestListPaged() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	users := []userdirectory.User{
		{UserID: 1, Name: "Anna Smith"},
		{UserID: 2, Name: "Bob Jones"},
		{UserID: 3, Name: "Joanne Park"},
		{UserID: 4, Name: "Carl Diaz"},
	}
	for i, u := range users {
		s.seed(u.UserID, base.Add(time.Duration(i)*time.Hour))
	}

	s.Run("name filter narrows before counting", func() {
		s.directory.EXPECT().GetAllUsers(gomock.Any()).Return(users, nil)

		result, err := s.service.ListPaged(s.ctx, 1, 10, "ANN")
		s.Require().NoError(err)
		s.Equal(2, result.TotalItems)
		s.Require().Len(result.Items, 2)
		s.Equal("Joanne Park", result.Items[0].Name, "newest first")
		s.Equal("Anna Smith", result.Items[1].Name)
	})

	s.Run("no name match is an empty page", func() {
		s.directory.EXPECT().GetAllUsers(gomock.Any()).Return(users, nil)

		result, err := s.service.ListPaged(s.ctx, 1, 10, "zed")
		s.Require().NoError(err)
		s.Zero(result.TotalItems)
		s.NotNil(result.Items)
		s.Empty(result.Items)
	})

	s.Run("clamps paging input", func() {
		s.directory.EXPECT().GetAllUsers(gomock.Any()).Return(users, nil).Times(3)

		result, err := s.service.ListPaged(s.ctx, 0, 0, "")
		s.Require().NoError(err)
		s.Equal(1, result.Page)
		s.Equal(10, result.PageSize)
		s.Len(result.Items, 4)

		result, err = s.service.ListPaged(s.ctx, -3, 1000, "")
		s.Require().NoError(err)
		s.Equal(1, result.Page)
		s.Equal(100, result.PageSize)

		result, err = s.service.ListPaged(s.ctx, 2, 3, "")
		s.Require().NoError(err)
		s.Equal(4, result.TotalItems)
		s.LessOrEqual(len(result.Items), result.PageSize)
		s.Len(result.Items, 1)
	})

	s.Run("largest page is empty", func() {
		s.directory.EXPECT().GetAllUsers(gomock.Any()).Return(users, nil)

		var result paging.Result[models.CustomerResponse]
		s.Require().NotPanics(func() {
			var err error
			result, err = s.service.ListPaged(s.ctx, math.MaxInt, 100, "")
			s.Require().NoError(err)
		})
		s.Equal(math.MaxInt, result.Page)
		s.Equal(4, result.TotalItems)
		s.Empty(result.Items)
	})

	s.Run("enrichment failure without filter still lists", func() {
		s.directory.EXPECT().GetAllUsers(gomock.Any()).Return(nil, errors.New("boom"))

		result, err := s.service.ListPaged(s.ctx, 1, 10, "")
		s.Require().NoError(err)
		s.Equal(4, result.TotalItems)
		s.Empty(result.Items[0].Name)
	})

	s.Run("filter needs the directory", func() {
		s.directory.EXPECT().GetAllUsers(gomock.Any()).Return(nil, sentinel.ErrUnavailable)

		_, err := s.service.ListPaged(s.ctx, 1, 10, "ann")
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}
