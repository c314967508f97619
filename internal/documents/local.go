package documents

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage writes documents under an explicit root directory and hands
// out references under a public prefix (for example /uploads/kyc/<name>).
type LocalStorage struct {
	root         string
	publicPrefix string
}

// NewLocalStorage creates the root directory if needed.
func NewLocalStorage(root, publicPrefix string) (*LocalStorage, error) {
	if root == "" {
		return nil, errors.New("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStorage{
		root:         abs,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}, nil
}

// Store writes to a temp file in the root and renames it into place, so a
// failed write never leaves a partial document behind.
func (s *LocalStorage) Store(ctx context.Context, content []byte, originalName string) (Stored, error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}
	name := GeneratedName(originalName)

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return Stored{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return Stored{}, fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return Stored{}, fmt.Errorf("sync document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return Stored{}, fmt.Errorf("close document: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.root, name)); err != nil {
		cleanup()
		return Stored{}, fmt.Errorf("commit document: %w", err)
	}

	return Stored{
		Reference: path.Join(s.publicPrefix, name),
		Checksum:  Checksum(content),
		Size:      int64(len(content)),
	}, nil
}

// Delete removes a stored document. A reference that is already gone is not
// an error.
func (s *LocalStorage) Delete(_ context.Context, reference string) error {
	full, err := s.resolve(reference)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Open returns a reader for a stored reference.
func (s *LocalStorage) Open(reference string) (*os.File, error) {
	full, err := s.resolve(reference)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (s *LocalStorage) resolve(reference string) (string, error) {
	name := strings.TrimPrefix(reference, s.publicPrefix+"/")
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid document reference %q", reference)
	}
	return filepath.Join(s.root, name), nil
}
