package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/folio/internal/tokenstore"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestState(t *testing.T) {
	d := openTest(t)

	_, ok, err := d.GetState("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.SetState("k", "v1"))
	require.NoError(t, d.SetState("k", "v2"))

	v, ok, err := d.GetState("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, d.DeleteState("k", "never-set"))
	_, ok, _ = d.GetState("k")
	assert.False(t, ok)
}

func TestTokenStore(t *testing.T) {
	s := NewTokenStore(openTest(t))

	c, err := s.Get()
	require.NoError(t, err)
	assert.True(t, c.Empty())

	require.NoError(t, s.Set(tokenstore.Credentials{Token: "tok", Email: "admin@example.com"}))

	c, err = s.Get()
	require.NoError(t, err)
	assert.Equal(t, tokenstore.Credentials{Token: "tok", Email: "admin@example.com"}, c)

	require.NoError(t, s.Clear())
	c, err = s.Get()
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	d, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d.SetState("k", "v"))
	require.NoError(t, d.Close())

	d, err = Open(path)
	require.NoError(t, err)
	defer d.Close()

	v, ok, err := d.GetState("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
