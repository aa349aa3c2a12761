package storage

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) (*FileStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := Open("/data", WithFs(fs))
	require.NoError(t, err)
	return s, fs
}

func TestOpenCreatesDirectory(t *testing.T) {
	_, fs := openMem(t)

	ok, err := afero.DirExists(fs, "/data")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetGetRemove(t *testing.T) {
	s, fs := openMem(t)

	_, ok, err := s.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("theme", "dark"))
	v, ok, err := s.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	require.NoError(t, s.Set("theme", "light"))
	v, _, _ = s.Get("theme")
	assert.Equal(t, "light", v)

	leftover, err := afero.Exists(fs, "/data/theme.tmp")
	require.NoError(t, err)
	assert.False(t, leftover)

	require.NoError(t, s.Remove("theme"))
	_, ok, err = s.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveMissingKey(t *testing.T) {
	s, _ := openMem(t)
	assert.NoError(t, s.Remove("never-set"))
}

func TestEmptyValueIsStored(t *testing.T) {
	s, _ := openMem(t)
	require.NoError(t, s.Set("mathHistory", ""))

	v, ok, err := s.Get("mathHistory")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestInvalidKeys(t *testing.T) {
	s, _ := openMem(t)
	for _, key := range []string{"", ".", "..", "../escape", `a\b`, "nested/key"} {
		_, _, err := s.Get(key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
		assert.ErrorIs(t, s.Set(key, "v"), ErrInvalidKey, key)
		assert.ErrorIs(t, s.Remove(key), ErrInvalidKey, key)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir + "/nested")
	require.NoError(t, err)

	require.NoError(t, s.Set("preferredLanguage", "th"))

	reopened, err := Open(dir + "/nested")
	require.NoError(t, err)
	v, ok, err := reopened.Get("preferredLanguage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "th", v)
}
