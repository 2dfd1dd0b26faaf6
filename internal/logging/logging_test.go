package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithoutPathIsNop(t *testing.T) {
	l, err := New("", "info", false)
	require.NoError(t, err)
	l.Info("dropped")
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "standup.log")
	l, err := New(path, "warn", false)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(b), "hidden")
	require.Contains(t, string(b), `"msg":"shown"`)
}

func TestVerboseForcesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standup.log")
	l, err := New(path, "error", true)
	require.NoError(t, err)
	l.Debug("details")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "details")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x.log"), "loud", false)
	require.Error(t, err)
}
