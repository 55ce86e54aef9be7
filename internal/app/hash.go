package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/andpalmier/fyi/internal/msg"
	"github.com/andpalmier/fyi/internal/nice"
	"github.com/andpalmier/fyi/internal/runner"
	"github.com/cespare/xxhash/v2"
)

var ErrNoFiles = errors.New("no files found")

// FileSum is the xxhash64 digest of one file
type FileSum struct {
	Path string
	Sum  uint64
	Size int64
}

// Hash digests every regular file under root in parallel and writes one
// "<sum>  <path>" line per file to stdout, in walk order.
func Hash(ctx context.Context, cfg Config, root string) ([]FileSum, error) {
	cfg.setDefaults()

	paths, err := listFiles(root)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, root)
	}

	printHeader(cfg, "hash", [][2]string{
		{"Directory", root},
		{"Files", strconv.Itoa(len(paths))},
		{"Workers", strconv.Itoa(cfg.Workers)},
	})

	title := msg.New(msg.Info, "Hashing "+root)
	bar, err := startBar(cfg, len(paths), &title)
	if err != nil {
		return nil, err
	}
	defer stopBar(cfg, bar)

	sums := make([]FileSum, len(paths))
	var read atomic.Uint64

	jobs := make([]runner.Job, len(paths))
	for i, path := range paths {
		jobs[i] = runner.Job{
			Name: path,
			Run: func(ctx context.Context) error {
				sum, n, err := hashFile(ctx, path)
				if err != nil {
					return err
				}
				sums[i] = FileSum{Path: path, Sum: sum, Size: n}
				read.Add(uint64(n))
				return nil
			},
		}
	}

	results, runErr := runner.New(tracker(bar), runner.Config{
		Workers: cfg.Workers,
		Logger:  cfg.Logger,
	}).Run(ctx, jobs)

	out := sums[:0]
	for i, r := range results {
		if r.Error == nil {
			out = append(out, sums[i])
		}
	}
	for _, s := range out {
		fmt.Fprintf(cfg.Stdout, "%016x  %s\n", s.Sum, s.Path)
	}

	if bar != nil {
		bar.Finish()
		_ = bar.Summary(msg.Crunched, "file", "files").Print(cfg.Stderr)
	}
	_ = msg.New(msg.Info, "Read "+nice.Bytes(read.Load())+".").
		WithNewline(true).Print(cfg.Stderr)

	printFailures(cfg, results)
	return out, runErr
}

// listFiles returns the regular files under root in lexical order.
func listFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return paths, nil
}

func hashFile(ctx context.Context, path string) (uint64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	h := xxhash.New()
	n, err := io.Copy(h, contextReader{ctx: ctx, r: f})
	if err != nil {
		return 0, n, fmt.Errorf("failed to read: %w", err)
	}
	return h.Sum64(), n, nil
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
