// Package documents persists uploaded KYC files behind a small capability
// interface. Callers store bytes first and delete the reference again when
// the owning database write fails.
package documents

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Stored describes a persisted document.
type Stored struct {
	// Reference is the retrievable relative path recorded on the KYC row.
	Reference string
	// Checksum is the hex BLAKE2b-256 digest of the stored bytes.
	Checksum string
	Size     int64
}

// Storage is the document persistence capability.
type Storage interface {
	Store(ctx context.Context, content []byte, originalName string) (Stored, error)
	Delete(ctx context.Context, reference string) error
}

// GeneratedName derives a collision-resistant file name from a fresh UUID
// and the base of the original name. Path components are dropped so a
// client-supplied name can never escape the storage root.
func GeneratedName(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "document"
	}
	return uuid.NewString() + "_" + base
}

// Checksum returns the hex BLAKE2b-256 digest of content.
func Checksum(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}
