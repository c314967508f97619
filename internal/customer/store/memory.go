package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"customer-service/internal/customer/models"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/platform/sentinel"
)

// InMemory mirrors the Postgres store, including the one-active-customer-per-
// user rule, under a single mutex.
type InMemory struct {
	mu        sync.RWMutex
	nextID    int64
	customers map[int64]*models.CustomerDetails
}

func NewInMemory() *InMemory {
	return &InMemory{customers: make(map[int64]*models.CustomerDetails)}
}

func (s *InMemory) Create(_ context.Context, c *models.CustomerDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeForUserLocked(c.UserID, 0) {
		return fmt.Errorf("customer for user %d: %w", c.UserID, sentinel.ErrConflict)
	}
	s.nextID++
	c.ID = s.nextID
	s.customers[c.ID] = clone(c)
	return nil
}

func (s *InMemory) FindActiveByID(_ context.Context, id int64) (*models.CustomerDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok || !c.IsActive() {
		return nil, sentinel.ErrNotFound
	}
	return clone(c), nil
}

func (s *InMemory) FindActiveByUserID(_ context.Context, userID int64) (*models.CustomerDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.UserID == userID && c.IsActive() {
			return clone(c), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ExistsAny(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.customers[id]
	return ok, nil
}

func (s *InMemory) ExistsActive(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	return ok && c.IsActive(), nil
}

// Save overwrites an active record. Saving a record whose stored copy is
// already deleted reports ErrNotFound.
func (s *InMemory) Save(_ context.Context, c *models.CustomerDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.customers[c.ID]
	if !ok || !current.IsActive() {
		return sentinel.ErrNotFound
	}
	if c.IsActive() && c.UserID != current.UserID && s.activeForUserLocked(c.UserID, c.ID) {
		return fmt.Errorf("customer for user %d: %w", c.UserID, sentinel.ErrConflict)
	}
	s.customers[c.ID] = clone(c)
	return nil
}

func (s *InMemory) ListActive(_ context.Context, filter models.ListFilter, req paging.Request) ([]*models.CustomerDetails, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var allowed map[int64]struct{}
	if filter.RestrictToUsers {
		allowed = make(map[int64]struct{}, len(filter.UserIDs))
		for _, id := range filter.UserIDs {
			allowed[id] = struct{}{}
		}
	}

	matched := make([]*models.CustomerDetails, 0)
	for _, c := range s.customers {
		if !c.IsActive() {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[c.UserID]; !ok {
				continue
			}
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := min(req.Offset(), total)
	end := min(start+req.Limit(), total)
	page := make([]*models.CustomerDetails, 0, end-start)
	for _, c := range matched[start:end] {
		page = append(page, clone(c))
	}
	return page, total, nil
}

func (s *InMemory) activeForUserLocked(userID, exceptID int64) bool {
	for id, c := range s.customers {
		if id != exceptID && c.UserID == userID && c.IsActive() {
			return true
		}
	}
	return false
}

func clone(c *models.CustomerDetails) *models.CustomerDetails {
	cp := *c
	return &cp
}
