package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"customer-service/internal/doctype/models"
	"customer-service/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded doc type registry for tests and local runs.
type InMemory struct {
	mu     sync.RWMutex
	nextID int64
	types  map[int64]*models.DocType
}

func NewInMemory() *InMemory {
	return &InMemory{types: make(map[int64]*models.DocType)}
}

// Create assigns an id and stores the type. Active names are unique,
// case-insensitively.
func (s *InMemory) Create(_ context.Context, dt *models.DocType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.types {
		if existing.IsActive() && strings.EqualFold(existing.Name, dt.Name) {
			return fmt.Errorf("doc type %q: %w", dt.Name, sentinel.ErrConflict)
		}
	}
	s.nextID++
	dt.ID = s.nextID
	if dt.CreatedAt.IsZero() {
		dt.CreatedAt = time.Now()
	}
	cp := *dt
	s.types[dt.ID] = &cp
	return nil
}

// Retire soft-deletes a type.
func (s *InMemory) Retire(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dt, ok := s.types[id]
	if !ok || !dt.IsActive() {
		return sentinel.ErrNotFound
	}
	dt.DeletedAt = &at
	return nil
}

func (s *InMemory) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dt, ok := s.types[id]
	return ok && dt.IsActive(), nil
}

// FindByID returns the type even when retired, so historical documents can
// still be rendered.
func (s *InMemory) FindByID(_ context.Context, id int64) (*models.DocType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dt, ok := s.types[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *dt
	return &cp, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.DocType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.DocType, 0, len(s.types))
	for _, dt := range s.types {
		if dt.IsActive() {
			cp := *dt
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
