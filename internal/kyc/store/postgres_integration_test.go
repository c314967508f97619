//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	customermodels "customer-service/internal/customer/models"
	customerstore "customer-service/internal/customer/store"
	dtmodels "customer-service/internal/doctype/models"
	dtstore "customer-service/internal/doctype/store"
	"customer-service/internal/kyc/models"
	"customer-service/internal/kyc/store"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/platform/sentinel"
	"customer-service/pkg/testutil/containers"
)

type PostgresKycSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *store.PostgresStore
	customers *customerstore.PostgresStore
	docTypes  *dtstore.PostgresStore
	customer  int64
	docType   int64
}

func TestPostgresKycSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresKycSuite))
}

func (s *PostgresKycSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.customers = customerstore.NewPostgres(s.postgres.DB)
	s.docTypes = dtstore.NewPostgres(s.postgres.DB)
}

func (s *PostgresKycSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "kyc", "customer_details", "doc_types"))

	c := customermodels.NewCustomer(1, customermodels.Profile{}, time.Now())
	s.Require().NoError(s.customers.Create(ctx, c))
	s.customer = c.ID

	dt := &dtmodels.DocType{Name: "Passport", CreatedAt: time.Now()}
	s.Require().NoError(s.docTypes.Create(ctx, dt))
	s.docType = dt.ID
}

func (s *PostgresKycSuite) TestCreateAndFindJoined() {
	ctx := context.Background()
	k := models.NewKyc(s.customer, s.docType, "/uploads/kyc/a.pdf", "abc", "ref-1", time.Now().UTC())
	s.Require().NoError(s.store.Create(ctx, k))
	s.NotZero(k.ID)

	got, err := s.store.FindActiveByID(ctx, k.ID)
	s.Require().NoError(err)
	s.Equal("ref-1", got.DocRefNo)
	s.Require().NotNil(got.DocType)
	s.Equal("Passport", got.DocType.Name)

	exists, err := s.store.CustomerExistsActive(ctx, s.customer)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *PostgresKycSuite) TestDuplicateDocRefNo() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, models.NewKyc(s.customer, s.docType, "", "", "ref-1", time.Now())))

	err := s.store.Create(ctx, models.NewKyc(s.customer, s.docType, "", "", "ref-1", time.Now()))
	s.ErrorIs(err, sentinel.ErrConflict)
}

// TestConcurrentSubmissionsForSameType verifies the partial unique index
// admits exactly one active document per customer and type.
func (s *PostgresKycSuite) TestConcurrentSubmissionsForSameType() {
	ctx := context.Background()
	const goroutines = 20

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := models.NewKyc(s.customer, s.docType, fmt.Sprintf("/uploads/kyc/%d.pdf", i), "sum", fmt.Sprintf("ref-%d", i), time.Now())
			err := s.store.Create(ctx, k)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			default:
				s.T().Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *PostgresKycSuite) TestSoftDeleteAndList() {
	ctx := context.Background()
	k := models.NewKyc(s.customer, s.docType, "/uploads/kyc/a.pdf", "sum", "ref-1", time.Now().UTC())
	s.Require().NoError(s.store.Create(ctx, k))

	rows, total, err := s.store.ListActive(ctx, models.ListFilter{VerificationStatus: "PENDING"}, paging.Clamp(1, 10))
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Len(rows, 1)

	k.MarkDeleted(time.Now().UTC())
	s.Require().NoError(s.store.Save(ctx, k))

	_, err = s.store.FindActiveByID(ctx, k.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	has, err := s.store.HasActiveDocument(ctx, s.customer, s.docType, 0)
	s.Require().NoError(err)
	s.False(has)

	byCustomer, err := s.store.ListActiveByCustomer(ctx, s.customer)
	s.Require().NoError(err)
	s.Empty(byCustomer)
}
