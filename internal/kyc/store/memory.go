package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	dtmodels "customer-service/internal/doctype/models"
	"customer-service/internal/kyc/models"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/platform/sentinel"
)

// CustomerChecker answers whether a non-deleted customer exists.
type CustomerChecker interface {
	ExistsActive(ctx context.Context, customerID int64) (bool, error)
}

// DocTypeFinder resolves doc types for the read-side join.
type DocTypeFinder interface {
	FindByID(ctx context.Context, id int64) (*dtmodels.DocType, error)
}

// InMemory mirrors the Postgres store, including the unique doc_ref_no and
// the one-active-document-per-type rule.
type InMemory struct {
	customers CustomerChecker
	docTypes  DocTypeFinder

	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*models.Kyc
}

func NewInMemory(customers CustomerChecker, docTypes DocTypeFinder) *InMemory {
	return &InMemory{
		customers: customers,
		docTypes:  docTypes,
		rows:      make(map[int64]*models.Kyc),
	}
}

func (s *InMemory) CustomerExistsActive(ctx context.Context, customerID int64) (bool, error) {
	return s.customers.ExistsActive(ctx, customerID)
}

func (s *InMemory) Create(_ context.Context, k *models.Kyc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUniqueLocked(k); err != nil {
		return err
	}
	s.nextID++
	k.ID = s.nextID
	s.rows[k.ID] = clone(k)
	return nil
}

func (s *InMemory) FindActiveByID(ctx context.Context, id int64) (*models.Kyc, error) {
	s.mu.RLock()
	k, ok := s.rows[id]
	if ok {
		k = clone(k)
	}
	s.mu.RUnlock()
	if !ok || !k.IsActive() {
		return nil, sentinel.ErrNotFound
	}
	return s.join(ctx, k)
}

func (s *InMemory) ListActiveByCustomer(ctx context.Context, customerID int64) ([]*models.Kyc, error) {
	rows := s.snapshot(func(k *models.Kyc) bool { return k.CustomerID == customerID })
	return s.joinAll(ctx, rows)
}

// HasActiveDocument reports whether another active row with a file exists
// for the pair. excludeID skips the caller's own row (0 skips nothing).
func (s *InMemory) HasActiveDocument(_ context.Context, customerID, docTypeID, excludeID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, k := range s.rows {
		if id != excludeID && k.IsActive() && k.HasFile() && k.CustomerID == customerID && k.DocTypeID == docTypeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemory) Save(_ context.Context, k *models.Kyc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.rows[k.ID]
	if !ok || !current.IsActive() {
		return sentinel.ErrNotFound
	}
	if err := s.checkUniqueLocked(k); err != nil {
		return err
	}
	s.rows[k.ID] = clone(k)
	return nil
}

func (s *InMemory) ListActive(ctx context.Context, filter models.ListFilter, req paging.Request) ([]*models.Kyc, int, error) {
	rows := s.snapshot(func(k *models.Kyc) bool {
		return filter.VerificationStatus == "" || strings.EqualFold(k.VerificationStatus, filter.VerificationStatus)
	})
	total := len(rows)
	start := min(req.Offset(), total)
	end := min(start+req.Limit(), total)
	page, err := s.joinAll(ctx, rows[start:end])
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// snapshot copies the active rows matching keep, newest first.
func (s *InMemory) snapshot(keep func(*models.Kyc) bool) []*models.Kyc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Kyc, 0)
	for _, k := range s.rows {
		if k.IsActive() && keep(k) {
			out = append(out, clone(k))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *InMemory) checkUniqueLocked(k *models.Kyc) error {
	for id, other := range s.rows {
		if id == k.ID {
			continue
		}
		if other.DocRefNo == k.DocRefNo {
			return fmt.Errorf("doc ref no %s: %w", k.DocRefNo, sentinel.ErrConflict)
		}
		if k.IsActive() && k.HasFile() && other.IsActive() && other.HasFile() &&
			other.CustomerID == k.CustomerID && other.DocTypeID == k.DocTypeID {
			return fmt.Errorf("active document for customer %d type %d: %w", k.CustomerID, k.DocTypeID, sentinel.ErrConflict)
		}
	}
	return nil
}

func (s *InMemory) join(ctx context.Context, k *models.Kyc) (*models.Kyc, error) {
	dt, err := s.docTypes.FindByID(ctx, k.DocTypeID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("join doc type: %w", err)
	}
	k.DocType = dt
	return k, nil
}

func (s *InMemory) joinAll(ctx context.Context, rows []*models.Kyc) ([]*models.Kyc, error) {
	for _, k := range rows {
		if _, err := s.join(ctx, k); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func clone(k *models.Kyc) *models.Kyc {
	cp := *k
	cp.DocType = nil
	return &cp
}
