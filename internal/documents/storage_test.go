package documents

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		suffix   string
	}{
		{"plain", "passport.pdf", "_passport.pdf"},
		{"strips directories", "../../etc/id.pdf", "_id.pdf"},
		{"strips windows directories", `C:\scans\id.PDF`, "_id.PDF"},
		{"empty", "", "_document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratedName(tt.original)
			assert.True(t, strings.HasSuffix(got, tt.suffix), got)
			assert.NotContains(t, got, "/")
		})
	}

	assert.NotEqual(t, GeneratedName("a.pdf"), GeneratedName("a.pdf"))
}

func TestChecksumIsStable(t *testing.T) {
	assert.Equal(t, Checksum([]byte("%PDF-1.7")), Checksum([]byte("%PDF-1.7")))
	assert.Len(t, Checksum(nil), 64)
}

func TestLocalStorage_StoreAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/uploads/kyc/")
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("%PDF-1.7 test")
	stored, err := s.Store(ctx, content, "passport.pdf")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.Reference, "/uploads/kyc/"))
	assert.True(t, strings.HasSuffix(stored.Reference, "_passport.pdf"))
	assert.Equal(t, int64(len(content)), stored.Size)
	assert.Equal(t, Checksum(content), stored.Checksum)

	f, err := s.Open(stored.Reference)
	require.NoError(t, err)
	got, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, content, got)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	require.NoError(t, s.Delete(ctx, stored.Reference))
	_, err = os.Stat(filepath.Join(root, filepath.Base(stored.Reference)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, stored.Reference), "deleting twice is fine")
}

func TestLocalStorage_RejectsForeignReferences(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads/kyc")
	require.NoError(t, err)

	assert.Error(t, s.Delete(context.Background(), "/uploads/kyc/../secrets"))
	assert.Error(t, s.Delete(context.Background(), ""))
}

func TestLocalStorage_CancelledContext(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads/kyc")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Store(ctx, []byte("x"), "a.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStorage(t *testing.T) {
	m := NewMemoryStorage()
	ctx := context.Background()

	stored, err := m.Store(ctx, []byte("pdf"), "id.pdf")
	require.NoError(t, err)
	assert.True(t, m.Has(stored.Reference))

	m.FailStores(true)
	_, err = m.Store(ctx, []byte("pdf"), "id.pdf")
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, stored.Reference))
	assert.False(t, m.Has(stored.Reference))
	assert.Equal(t, []string{stored.Reference}, m.Deleted())
}
