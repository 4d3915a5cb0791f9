package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	s, err := OpenFileStorage(path)
	require.NoError(t, err)

	_, ok, err := s.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "reading must not create the file")
}

func TestFileStorage_WritesOwnerOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	s, err := OpenFileStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("token", "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"secret"}`, string(data))
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenFileStorage(path)
	require.Error(t, err)
}

func TestFileStorage_DeleteMissingKey(t *testing.T) {
	s, err := OpenFileStorage(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)
	assert.NoError(t, s.Delete("token"))
}
