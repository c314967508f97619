package documents

import (
	"context"
	"errors"
	"sync"
)

// ErrInjected is returned by MemoryStorage when a failure was requested.
var ErrInjected = errors.New("injected storage failure")

// MemoryStorage keeps documents in a map. Tests can make the next Store fail
// and inspect what is currently held.
type MemoryStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	failStore bool
	deleted   []string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{files: make(map[string][]byte)}
}

// FailStores makes every Store call fail until reset with false.
func (m *MemoryStorage) FailStores(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStore = fail
}

func (m *MemoryStorage) Store(ctx context.Context, content []byte, originalName string) (Stored, error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStore {
		return Stored{}, ErrInjected
	}
	ref := "/uploads/kyc/" + GeneratedName(originalName)
	m.files[ref] = append([]byte(nil), content...)
	return Stored{Reference: ref, Checksum: Checksum(content), Size: int64(len(content))}, nil
}

func (m *MemoryStorage) Delete(_ context.Context, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, reference)
	m.deleted = append(m.deleted, reference)
	return nil
}

// Has reports whether reference is currently stored.
func (m *MemoryStorage) Has(reference string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[reference]
	return ok
}

// Len is the number of stored documents.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// Deleted lists references passed to Delete, in call order.
func (m *MemoryStorage) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
