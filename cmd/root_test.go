package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/andpalmier/fyi/internal/msg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestVersionString(t *testing.T) {
	assert.Equal(t, "dev", versionString("dev", "none", "unknown"))
	assert.Equal(t, "1.2.0, commit abc123, built 2024-05-01",
		versionString("1.2.0", "abc123", "2024-05-01"))
}

func TestCommandsCoverEveryKind(t *testing.T) {
	root := newRootCommand("dev", "none", "unknown")

	for _, kind := range msg.Kinds() {
		name := strings.ToLower(kind.String())
		assert.NotNil(t, root.Command(name), "missing command for %s", name)
	}
	for _, name := range []string{"prompt", "print", "blank", "demo", "hash", "pipe"} {
		assert.NotNil(t, root.Command(name), "missing command %s", name)
	}
}

func TestExitCode(t *testing.T) {
	root := newRootCommand("dev", "none", "unknown")

	err := root.Run(context.Background(), []string{appName, "info", "--exit", "3", "hello"})
	require.Error(t, err)

	var exit cli.ExitCoder
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 3, exit.ExitCode())
}

func TestHashNeedsDirectory(t *testing.T) {
	root := newRootCommand("dev", "none", "unknown")
	err := root.Run(context.Background(), []string{appName, "hash"})
	assert.EqualError(t, err, "a directory is required")
}
