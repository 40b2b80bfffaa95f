package disk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recipebookhq/recipebook-backend/pkg/config"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(context.Background(), config.MediaConfig{UploadDir: t.TempDir()}, nil)
	require.NoError(t, err)
	return store
}

func TestSaveAndRemove(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(context.Background(), "uploads/recipe/pic.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	require.Equal(t, "uploads/recipe/pic.jpg", rel)

	data, err := os.ReadFile(filepath.Join(store.Root(), "uploads", "recipe", "pic.jpg"))
	require.NoError(t, err)
	require.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Remove(context.Background(), rel))
	_, err = os.Stat(filepath.Join(store.Root(), "uploads", "recipe", "pic.jpg"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemoveMissingFileIsNoop(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Remove(context.Background(), "uploads/recipe/absent.png"))
}

func TestSaveRejectsEscapingPaths(t *testing.T) {
	store := newTestStore(t)

	for _, path := range []string{"", "../outside.txt", "/etc/passwd"} {
		_, err := store.Save(context.Background(), path, strings.NewReader("x"))
		require.Error(t, err, "path %q", path)
	}
}

func TestSaveOverwritesExistingFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(context.Background(), "uploads/recipe/pic.jpg", strings.NewReader("old"))
	require.NoError(t, err)
	_, err = store.Save(context.Background(), "uploads/recipe/pic.jpg", strings.NewReader("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store.Root(), "uploads", "recipe", "pic.jpg"))
	require.NoError(t, err)
	require.Equal(t, "new", string(data))
}
