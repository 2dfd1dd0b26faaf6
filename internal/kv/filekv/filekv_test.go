package filekv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/standup/internal/kv"
)

func TestOpenRequiresDir(t *testing.T) {
	_, err := Open("  ", 0)
	require.Error(t, err)
}

func TestSetGetRemove(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	s, err := Open(dir, 0)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "standup-entries")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "standup-entries", `[{"id":"1"}]`))
	v, ok, err := s.Get(ctx, "standup-entries")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.Set(ctx, "standup-entries", `[]`))
	v, _, _ = s.Get(ctx, "standup-entries")
	require.Equal(t, `[]`, v)

	require.NoError(t, s.Remove(ctx, "standup-entries"))
	require.NoError(t, s.Remove(ctx, "standup-entries"))
	_, ok, err = s.Get(ctx, "standup-entries")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir, 0)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "k.json", files[0].Name())
}

func TestKeysAreEscaped(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir, 0)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "../escape", "v"))

	_, err = os.Stat(filepath.Join(dir, "..%2Fescape.json"))
	require.NoError(t, err)
}

func TestSetOverQuota(t *testing.T) {
	s, err := Open(t.TempDir(), 8)
	require.NoError(t, err)
	err = s.Set(context.Background(), "k", "0123456789")
	require.ErrorIs(t, err, kv.ErrQuotaExceeded)
}
