package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskMediaStoreSave(t *testing.T) {
	root := t.TempDir()

	store, err := NewDiskMediaStore(root)
	require.NoError(t, err)

	rel, err := store.Save("avatars", "photo.png", strings.NewReader("image-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "avatars"+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	content, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))

	// names never collide between saves of the same file
	other, err := store.Save("avatars", "photo.png", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.NotEqual(t, rel, other)
}

func TestDiskMediaStoreRemove(t *testing.T) {
	root := t.TempDir()

	store, err := NewDiskMediaStore(root)
	require.NoError(t, err)

	rel, err := store.Save("posts", "cover.png", strings.NewReader("image-bytes"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(rel))

	_, err = os.Stat(filepath.Join(root, rel))
	assert.True(t, os.IsNotExist(err))

	// removing a path that was never saved reports the miss
	assert.Error(t, store.Remove("posts/never-saved.png"))
}

func TestDiskMediaStoreKeepsExtension(t *testing.T) {
	store, err := NewDiskMediaStore(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("posts", "no-extension", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "", filepath.Ext(rel))

	rel, err = store.Save("posts", "cover.jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, ".jpeg", filepath.Ext(rel))
}
