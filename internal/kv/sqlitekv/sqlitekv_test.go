package sqlitekv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/standup/internal/kv"
)

func openTempStore(t *testing.T, quota int64) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "standup.db"), quota)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open("", 0)
	require.Error(t, err)
}

func TestUpsertAndRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTempStore(t, 0)

	_, ok, err := s.Get(ctx, "standup-entries")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "standup-entries", "[]"))
	require.NoError(t, s.Set(ctx, "standup-entries", `[{"id":"a"}]`))

	v, ok, err := s.Get(ctx, "standup-entries")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"id":"a"}]`, v)

	require.NoError(t, s.Remove(ctx, "standup-entries"))
	_, ok, err = s.Get(ctx, "standup-entries")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetOverQuota(t *testing.T) {
	t.Parallel()

	s := openTempStore(t, 4)
	err := s.Set(context.Background(), "k", "12345")
	require.ErrorIs(t, err, kv.ErrQuotaExceeded)
}

func TestCloseNilStore(t *testing.T) {
	t.Parallel()

	var s *Store
	require.NoError(t, s.Close())
}
