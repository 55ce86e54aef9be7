package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andpalmier/fyi/internal/fitted"
	"github.com/andpalmier/fyi/internal/msg"
	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTerm struct{}

func (fixedTerm) Size() (int, int, bool) { return 100, 30, true }

// syncBuffer is a bytes.Buffer safe for the ticker and workers to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig(animated bool) (Config, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	cfg := Config{
		Workers:  4,
		TickRate: time.Millisecond,
		Stdout:   stdout,
		Stderr:   stderr,
		Quiet:    true,
	}
	if animated {
		cfg.Terminal = fixedTerm{}
	}
	return cfg, stdout, stderr
}

func writeTree(t *testing.T) (string, map[string][]byte) {
	t.Helper()
	root := t.TempDir()

	files := map[string][]byte{
		"a.txt":         []byte("alpha"),
		"b/c.txt":       []byte("charlie"),
		"b/d/empty.txt": nil,
	}
	for name, data := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return root, files
}

func TestHash(t *testing.T) {
	for _, animated := range []bool{false, true} {
		t.Run(fmt.Sprintf("animated=%v", animated), func(t *testing.T) {
			root, files := writeTree(t)
			cfg, stdout, stderr := testConfig(animated)

			sums, err := Hash(context.Background(), cfg, root)
			require.NoError(t, err)
			require.Len(t, sums, len(files))

			for _, s := range sums {
				rel, err := filepath.Rel(root, s.Path)
				require.NoError(t, err)
				data := files[filepath.ToSlash(rel)]
				assert.Equal(t, xxhash.Sum64(data), s.Sum)
				assert.Equal(t, int64(len(data)), s.Size)
				assert.Contains(t, stdout.String(), fmt.Sprintf("%016x  %s\n", s.Sum, s.Path))
			}

			// Walk order is lexical.
			assert.True(t, strings.HasSuffix(sums[0].Path, "a.txt"))

			errOut := fitted.Strip(stderr.String())
			assert.Contains(t, errOut, "Read 12 B.")
			if animated {
				assert.Contains(t, errOut, "3 files in")
			}
		})
	}
}

func TestHashEmpty(t *testing.T) {
	cfg, _, _ := testConfig(false)
	_, err := Hash(context.Background(), cfg, t.TempDir())
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = Hash(context.Background(), cfg, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestPipe(t *testing.T) {
	cfg, stdout, _ := testConfig(false)
	input := strings.Repeat("fyi\n", 1000)

	n, err := Pipe(context.Background(), cfg, strings.NewReader(input), -1)
	require.NoError(t, err)
	assert.Equal(t, int64(len(input)), n)
	assert.Equal(t, input, stdout.String())
}

func TestPipeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg, stdout, _ := testConfig(false)
	_, err := Pipe(ctx, cfg, strings.NewReader("data"), 4)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stdout.String())
}

func TestDemo(t *testing.T) {
	cfg, _, stderr := testConfig(true)

	err := Demo(context.Background(), DemoConfig{
		Config:   cfg,
		YearRate: time.Microsecond,
		Numbers:  25,
	})
	require.NoError(t, err)

	out := fitted.Strip(stderr.String())
	assert.Contains(t, out, fmt.Sprintf("%d empires in", len(empires)))
	assert.Contains(t, out, "The Roman Empire lasted 1480 years.")
	assert.Contains(t, out, "Finished in")
}

func TestDemoPlain(t *testing.T) {
	cfg, _, stderr := testConfig(false)

	err := Demo(context.Background(), DemoConfig{
		Config:   cfg,
		YearRate: time.Microsecond,
		Numbers:  10,
	})
	require.NoError(t, err)
	assert.Contains(t, fitted.Strip(stderr.String()), "The Elamite Empire lasted 2500 years.")
}

func TestDemoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg, _, _ := testConfig(true)
	err := Demo(ctx, DemoConfig{Config: cfg})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintAndBlank(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, msg.New(msg.Success, "All good.")))
	assert.Equal(t, "Success: All good.\n", fitted.Strip(buf.String()))

	buf.Reset()
	require.NoError(t, Blank(&buf, 0))
	assert.Equal(t, "\n", buf.String())

	buf.Reset()
	require.NoError(t, Blank(&buf, 3))
	assert.Equal(t, "\n\n\n", buf.String())
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.answer), func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(strings.NewReader(tt.answer), &out, msg.New(msg.Confirm, "Continue?"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, fitted.Strip(out.String()), "Continue? [y/N]")
		})
	}
}
