package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreResolve(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "guides"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "guides", "funding.pdf"), []byte("%PDF"), 0o644))

	store := NewDiskStore(root)
	f, err := store.Resolve(context.Background(), "guides/funding.pdf")
	require.NoError(t, err)
	defer f.Content.Close()

	assert.Equal(t, "funding.pdf", f.Name)
	assert.Equal(t, int64(4), f.Size)
	assert.Equal(t, "application/pdf", f.ContentType)

	body, err := io.ReadAll(f.Content)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(body))
}

func TestDiskStoreMissingFile(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	_, err := store.Resolve(context.Background(), "guides/nope.pdf")
	assert.Error(t, err)
}

func TestDiskStoreRefusesTraversal(t *testing.T) {
	root := filepath.Join(t.TempDir(), "store")
	require.NoError(t, os.MkdirAll(root, 0o755))
	outside := filepath.Join(filepath.Dir(root), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("s"), 0o644))

	store := NewDiskStore(root)
	_, err := store.Resolve(context.Background(), "../secret.txt")
	assert.Error(t, err)
}
