package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestGet_Absent_ReturnsNilNil(t *testing.T) {
	s := openMemory(t)

	v, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("old")))
	require.NoError(t, s.Set(ctx, "k", []byte("new")))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestDelete_RemovesKey(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"), "deleting an absent key is not an error")

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

// TestOpen_FileSurvivesReopen verifies that data written to a file database is
// visible after reopening and that migrations are idempotent.
func TestOpen_FileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "quotes.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "dqg-quotes-v2", []byte(`[]`)))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	v, err := reopened.Get(ctx, "dqg-quotes-v2")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), v)
}

func TestCheck(t *testing.T) {
	s := openMemory(t)

	assert.Equal(t, "sqlite-store", s.Name())
	assert.NoError(t, s.Check(context.Background()))
}
