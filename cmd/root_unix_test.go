//go:build unix

package cmd

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestKeepaliveSurvivesSigint(t *testing.T) {
	root := newRootCommand("dev", "none", "unknown")

	var checked bool
	cmd := &cli.Command{
		Name:  appName,
		Flags: root.Flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, cfg, cleanup, err := setup(ctx, c)
			if err != nil {
				return err
			}

			require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))
			assert.Eventually(t, cfg.Shutdown.Load, time.Second, time.Millisecond)

			// The flag is up but the work carries on.
			assert.NoError(t, ctx.Err())

			cleanup()
			assert.ErrorIs(t, ctx.Err(), context.Canceled)
			checked = true
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), []string{appName, "--sigint", "keepalive", "--quiet"}))
	assert.True(t, checked)
}
