// Package app holds the fyi programs: message printing, the progress demo,
// the directory hasher and the stdin pipe.
package app

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/andpalmier/fyi/internal/msg"
	"github.com/andpalmier/fyi/internal/progress"
	"github.com/andpalmier/fyi/internal/runner"
	"github.com/andpalmier/fyi/internal/term"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Config holds the settings shared by the long-running programs
type Config struct {
	Workers  int
	TickRate time.Duration
	Logger   *zap.Logger

	// Shutdown is raised by the SIGINT handler
	Shutdown *atomic.Bool

	Stdout io.Writer
	Stderr io.Writer

	// Terminal forces the progress bar on and reports its size. When nil the
	// bar is only shown if stderr is a terminal.
	Terminal progress.Terminal

	// Quiet suppresses the banner
	Quiet bool
}

func (c *Config) setDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// animated reports whether a progress bar should be drawn at all
func (c *Config) animated() bool {
	return c.Terminal != nil || term.IsTerminal(os.Stderr)
}

// startBar returns a running progress bar, or nil when output is not a
// terminal.
func startBar(cfg Config, total int, title *msg.Msg) (*progress.Progless, error) {
	if !cfg.animated() {
		return nil, nil
	}

	bar, err := progress.New(progress.Config{
		Total:    total,
		Title:    title,
		Writer:   cfg.Stderr,
		Terminal: cfg.Terminal,
		TickRate: cfg.TickRate,
		Shutdown: cfg.Shutdown,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start progress: %w", err)
	}

	if cfg.Terminal == nil {
		_, _ = io.WriteString(cfg.Stderr, progress.CursorHide)
	}
	return bar, nil
}

// stopBar erases bar and gives the cursor back.
func stopBar(cfg Config, bar *progress.Progless) {
	if bar == nil {
		return
	}
	bar.Close()
	if cfg.Terminal == nil {
		_, _ = io.WriteString(cfg.Stderr, progress.CursorUnhide)
	}
}

// tracker adapts a possibly nil bar to the runner.
func tracker(bar *progress.Progless) runner.Tracker {
	if bar == nil {
		return nil
	}
	return bar
}

// say prints m above the bar, or straight to stderr without one.
func say(cfg Config, bar *progress.Progless, m msg.Msg) {
	var err error
	if bar != nil {
		err = bar.PushMsg(m)
	} else {
		err = m.WithNewline(true).Print(cfg.Stderr)
	}
	if err != nil {
		cfg.Logger.Debug("message dropped", zap.Error(err))
	}
}

// printHeader displays the startup banner
func printHeader(cfg Config, title string, rows [][2]string) {
	if cfg.Quiet {
		return
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	magenta := color.New(color.FgMagenta, color.Bold).SprintFunc()

	fmt.Fprintln(cfg.Stderr, "")
	fmt.Fprintln(cfg.Stderr, cyan("┌─────────────────────────────────────────┐"))
	fmt.Fprintln(cfg.Stderr, cyan(fmt.Sprintf("│ %-39s │", "fyi "+title)))
	fmt.Fprintln(cfg.Stderr, cyan("└─────────────────────────────────────────┘"))
	fmt.Fprintln(cfg.Stderr, "")

	for _, row := range rows {
		fmt.Fprintf(cfg.Stderr, "%-12s %s\n", row[0]+":", magenta(row[1]))
	}
	fmt.Fprintln(cfg.Stderr, "")
}

// printFailures lists failed jobs under a warning line
func printFailures(cfg Config, results []runner.Result) {
	var failed []runner.Result
	for _, r := range results {
		if r.Error != nil {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return
	}

	warn := msg.New(msg.Warning, fmt.Sprintf("Completed with errors: %d succeeded, %d failed.",
		len(results)-len(failed), len(failed)))
	_ = warn.WithNewline(true).Print(cfg.Stderr)
	for _, r := range failed {
		fmt.Fprintf(cfg.Stderr, "  - %s: %v\n", r.Name, r.Error)
	}
}
