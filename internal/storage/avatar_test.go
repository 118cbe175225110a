package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAvatarDisk(filepath.Join(dir, "profile_pics"))
	require.NoError(t, err)

	name, err := store.Save([]byte("image-bytes"), "Photo.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"), "extension is preserved lowercased, got %s", name)
	assert.NotContains(t, name, "Photo", "stored name is generated, not user-controlled")

	data, err := os.ReadFile(filepath.Join(store.Dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(store.Dir, name))
	assert.True(t, os.IsNotExist(err), "file is gone after Remove")
}

func TestSaveStripsPathParts(t *testing.T) {
	store, err := NewAvatarDisk(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save([]byte("x"), "../../etc/passwd.jpg")
	require.NoError(t, err)
	assert.NotContains(t, name, "/", "stored name must stay inside the directory")
	assert.True(t, strings.HasSuffix(name, ".jpg"))
}

func TestRemoveMissingIsNoop(t *testing.T) {
	store, err := NewAvatarDisk(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Remove("never-stored.png"), "missing file is not an error")
	assert.NoError(t, store.Remove(""), "empty name is not an error")
}

func TestDistinctNamesForSameUpload(t *testing.T) {
	store, err := NewAvatarDisk(t.TempDir())
	require.NoError(t, err)

	a, err := store.Save([]byte("x"), "me.png")
	require.NoError(t, err)
	b, err := store.Save([]byte("x"), "me.png")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "identical uploads must never collide")
}
