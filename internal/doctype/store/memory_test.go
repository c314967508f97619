package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"customer-service/internal/doctype/models"
	"customer-service/pkg/platform/sentinel"
)

type DocTypeStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *DocTypeStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestDocTypeStoreSuite(t *testing.T) {
	suite.Run(t, new(DocTypeStoreSuite))
}

func (s *DocTypeStoreSuite) TestSeedDefaultsIsIdempotent() {
	s.Require().NoError(SeedDefaults(s.ctx, s.store))
	s.Require().NoError(SeedDefaults(s.ctx, s.store))

	types, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(types, len(Defaults))
	s.Equal("Driving Licence", types[0].Name, "listed by name")
}

func (s *DocTypeStoreSuite) TestExistsIgnoresRetired() {
	dt := &models.DocType{Name: "Residence Permit"}
	s.Require().NoError(s.store.Create(s.ctx, dt))

	exists, err := s.store.Exists(s.ctx, dt.ID)
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.store.Retire(s.ctx, dt.ID, time.Now()))

	exists, err = s.store.Exists(s.ctx, dt.ID)
	s.Require().NoError(err)
	s.False(exists)

	found, err := s.store.FindByID(s.ctx, dt.ID)
	s.Require().NoError(err)
	s.False(found.IsActive())

	s.ErrorIs(s.store.Retire(s.ctx, dt.ID, time.Now()), sentinel.ErrNotFound)
}

func (s *DocTypeStoreSuite) TestNameUniqueAmongActive() {
	first := &models.DocType{Name: "Passport"}
	s.Require().NoError(s.store.Create(s.ctx, first))

	err := s.store.Create(s.ctx, &models.DocType{Name: "PASSPORT"})
	s.ErrorIs(err, sentinel.ErrConflict)

	s.Require().NoError(s.store.Retire(s.ctx, first.ID, time.Now()))
	s.NoError(s.store.Create(s.ctx, &models.DocType{Name: "Passport"}))
}

func (s *DocTypeStoreSuite) TestFindUnknown() {
	_, err := s.store.FindByID(s.ctx, 404)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
