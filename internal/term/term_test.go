package term

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenNotATerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	s := NewScreen(f)
	t.Cleanup(s.Close)

	w, h, ok := s.Size()
	assert.False(t, ok)
	assert.Zero(t, w)
	assert.Zero(t, h)
	assert.False(t, IsTerminal(f))

	// Closing twice is harmless.
	s.Close()
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	tests := map[string]Policy{
		"":           PolicyDefault,
		"default":    PolicyDefault,
		"two-strike": PolicyTwoStrike,
		"Keepalive":  PolicyKeepalive,
	}
	for in, want := range tests {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePolicy("sometimes")
	assert.Error(t, err)
}

func TestInterruptNilCancel(t *testing.T) {
	i := NewInterrupt(PolicyTwoStrike, io.Discard, nil)
	i.exit = func(int) {}
	assert.NotPanics(t, i.handle)
	assert.True(t, i.Flag().Load())
}

func TestInterruptPolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy Policy
		// exit codes observed after the first and second signal
		exits []int
		// whether the work was cancelled by the first signal
		cancelled bool
	}{
		{name: "default", policy: PolicyDefault, exits: []int{1, 1}},
		{name: "two strike", policy: PolicyTwoStrike, exits: []int{1}, cancelled: true},
		{name: "keepalive", policy: PolicyKeepalive, exits: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			var exits []int
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			cancels := 0

			i := NewInterrupt(tt.policy, &out, func() {
				cancels++
				cancel()
			})
			i.exit = func(code int) { exits = append(exits, code) }

			assert.False(t, i.Flag().Load())
			i.handle()
			assert.True(t, i.Flag().Load())
			assert.Equal(t, tt.cancelled, ctx.Err() != nil)
			i.handle()

			assert.Equal(t, tt.exits, exits)
			if tt.cancelled {
				assert.Equal(t, 1, cancels)
			} else {
				assert.Zero(t, cancels)
				assert.NoError(t, ctx.Err())
			}
			assert.Equal(t, CursorUnhide, out.String(), "cursor restored exactly once")
		})
	}
}
