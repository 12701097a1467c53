package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewFile(path)

	creds, err := s.Get()
	require.NoError(t, err)
	assert.True(t, creds.Empty())

	require.NoError(t, s.Set(Credentials{Token: "abc", Email: "admin@example.com"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	creds, err = s.Get()
	require.NoError(t, err)
	assert.Equal(t, "abc", creds.Token)
	assert.Equal(t, "admin@example.com", creds.Email)

	require.NoError(t, s.Clear())
	creds, err = s.Get()
	require.NoError(t, err)
	assert.True(t, creds.Empty())

	// clearing twice is fine
	require.NoError(t, s.Clear())
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFile(path).Get()
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	m := NewMemory(Credentials{Token: "t"})

	c, _ := m.Get()
	assert.Equal(t, "t", c.Token)

	require.NoError(t, m.Clear())
	c, _ = m.Get()
	assert.True(t, c.Empty())
}
