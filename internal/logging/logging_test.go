package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNop(t *testing.T) {
	logger, err := New("", "garbage")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fyi.log")

	logger, err := New(path, "debug")
	require.NoError(t, err)

	logger.Debug("progress started")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "progress started")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "fyi.log"), "loud")
	assert.Error(t, err)
}
