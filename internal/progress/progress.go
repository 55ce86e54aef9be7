// Package progress provides a thread-safe, steadily ticking progress bar for
// batches of work running across many goroutines.
//
// The bar, a done/total counter, a percentage, an elapsed-time clock, an
// optional title and the list of tasks currently in flight are drawn as one
// block on stderr and redrawn in place by a background ticker.
package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andpalmier/fyi/internal/msg"
	"github.com/andpalmier/fyi/internal/nice"
	"github.com/andpalmier/fyi/internal/term"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Cursor visibility sequences, for callers that want the cursor hidden while
// the bar is up.
const (
	CursorHide   = term.CursorHide
	CursorUnhide = term.CursorUnhide
)

// MaxTotal is the largest total a Progless can count to.
const MaxTotal = math.MaxUint32

// DefaultTickRate is how often the bar is repainted.
const DefaultTickRate = 60 * time.Millisecond

// Terminal reports the size of the screen being drawn on.
type Terminal interface {
	// Size returns the width and height in cells, or ok == false if unknown.
	Size() (width, height int, ok bool)
}

// Config configures a progress bar.
type Config struct {
	// Total is the number of tasks; it must be between 1 and MaxTotal
	Total int

	// Title is shown above the bar when set
	Title *msg.Msg

	// Writer receives the output (defaults to os.Stderr)
	Writer io.Writer

	// Terminal provides the screen size (defaults to stderr's terminal)
	Terminal Terminal

	// TickRate is the repaint interval (defaults to DefaultTickRate)
	TickRate time.Duration

	// Shutdown, when raised, swaps the title for an early-shutdown notice
	Shutdown *atomic.Bool

	// Logger receives debug events (defaults to a no-op logger)
	Logger *zap.Logger
}

// Progless is a running progress bar. It is safe for concurrent use from
// multiple goroutines.
type Progless struct {
	state  *state
	steady steady
	rate   time.Duration
	screen *term.Screen

	// lifecycle serializes Finish and Reset
	lifecycle sync.Mutex
}

// New validates cfg and starts a progress bar.
func New(cfg Config) (*Progless, error) {
	total, err := checkTotal(cfg.Total)
	if err != nil {
		return nil, err
	}

	p := &Progless{rate: cfg.TickRate}
	if p.rate <= 0 {
		p.rate = DefaultTickRate
	}

	out := cfg.Writer
	if out == nil {
		out = os.Stderr
	}

	t := cfg.Terminal
	if t == nil {
		p.screen = term.NewScreen(os.Stderr)
		t = p.screen
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p.state = newState(total, out, t, cfg.Shutdown, logger)
	if cfg.Title != nil {
		p.state.setTitle(cfg.Title)
	}
	p.steady.start(p.state, p.rate)

	logger.Debug("progress started",
		zap.Uint32("total", total),
		zap.Duration("tick_rate", p.rate))

	return p, nil
}

func checkTotal(total int) (uint32, error) {
	switch {
	case total <= 0:
		return 0, ErrEmptyTotal
	case uint64(total) > MaxTotal:
		return 0, ErrTotalOverflow
	}
	return uint32(total), nil
}

// Increment increases the done count by one.
func (p *Progless) Increment() { p.state.increment(1) }

// IncrementN increases the done count by n, stopping at the total.
func (p *Progless) IncrementN(n uint32) { p.state.increment(n) }

// SetDone sets the done count outright. Prefer Increment or task guards when
// several goroutines report progress, since this can move the count backward.
func (p *Progless) SetDone(n uint32) { p.state.setDone(n) }

// Task adds text to the list of active tasks and returns a guard that removes
// it again. The text is flattened to one plain line first. Nil is returned if
// nothing was added because the text was blank, already listed, or progress
// has stopped; calling Done or Cancel on it is still safe.
func (p *Progless) Task(text string) *TaskGuard {
	name, cycle, ok := p.state.add(text)
	if !ok {
		return nil
	}
	return &TaskGuard{state: p.state, name: name, cycle: cycle}
}

// Do runs fn as the task described by text. The task is counted as done when
// fn returns, even if it fails or panics. A blank or already listed text is
// not shown, but the work still counts.
func (p *Progless) Do(text string, fn func() error) error {
	if g := p.Task(text); g != nil {
		defer g.Done()
	} else {
		defer p.Increment()
	}
	return fn()
}

// SetTitle replaces the title line. A nil or empty message removes it.
func (p *Progless) SetTitle(m *msg.Msg) { p.state.setTitle(m) }

// SetTitleMessage replaces the title text, keeping the existing prefix.
func (p *Progless) SetTitleMessage(text string) { p.state.setTitleMessage(text) }

// SetReticulatingSplines sets a stock "app: Reticulating splines…" title.
func (p *Progless) SetReticulatingSplines(app string) {
	m := msg.Custom(app, color.FgHiMagenta, "Reticulating splines…")
	p.state.setTitle(&m)
}

// Sigint marks the run as winding down early, which replaces the title with a
// notice. Counting continues as normal; call Finish when the work stops.
func (p *Progless) Sigint() { p.state.sigint() }

// PushMsg prints m above the bar without garbling it. The bar is erased, the
// message printed and the bar redrawn, all while holding the lock so no tick
// can interleave.
func (p *Progless) PushMsg(m msg.Msg) error {
	s := p.state
	line := []byte(m.WithNewline(true).String())

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		if _, err := s.out.Write(line); err != nil {
			return fmt.Errorf("failed to push message: %w", err)
		}
		return nil
	}

	s.printBlankLocked()
	if _, err := s.out.Write(line); err != nil {
		return fmt.Errorf("failed to push message: %w", err)
	}
	s.tickLocked(true)
	return nil
}

// Finish stops the bar, erases it and waits for the ticker to exit. It
// returns the total elapsed time.
func (p *Progless) Finish() time.Duration {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	p.state.stop()
	p.steady.stop()
	return p.state.elapsed()
}

// Close finishes the bar and releases the terminal watcher, if one was
// created. The Progless must not be reset afterward.
func (p *Progless) Close() {
	p.Finish()
	if p.screen != nil {
		p.screen.Close()
	}
}

// Reset finishes the current run and starts a new one counting to total. A
// total of zero is ignored. Elapsed time keeps accumulating from the first
// start.
func (p *Progless) Reset(total uint32) {
	if total == 0 {
		return
	}
	p.reset(total)
}

// TryReset is Reset for totals that need validating.
func (p *Progless) TryReset(total int) error {
	t, err := checkTotal(total)
	if err != nil {
		return err
	}
	p.reset(t)
	return nil
}

func (p *Progless) reset(t uint32) {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	p.state.stop()
	p.steady.stop()
	p.state.restart(t)
	p.steady.start(p.state, p.rate)
}

// Running reports whether progress is still being tracked.
func (p *Progless) Running() bool { return p.state.running() }

// Done returns the number of finished tasks.
func (p *Progless) Done() uint32 {
	done, _ := p.state.counts()
	return done
}

// Total returns the number of tasks in the current run.
func (p *Progless) Total() uint32 {
	_, total := p.state.counts()
	return total
}

// Elapsed returns the time since the bar was created, frozen once it stops.
func (p *Progless) Elapsed() time.Duration { return p.state.elapsed() }

// Summary builds a message like "Crunched: 5 files in 2 seconds." using the
// singular or plural noun as the done count requires.
func (p *Progless) Summary(kind msg.Kind, singular, plural string) msg.Msg {
	done := p.Done()
	noun := plural
	if done == 1 {
		noun = singular
	}

	return msg.New(kind, fmt.Sprintf("%s %s in %s.",
		nice.Uint(done), noun, nice.Elapsed(p.Elapsed()))).
		WithNewline(true)
}

// Message builds a generic "Done: Finished in X." message.
func (p *Progless) Message() msg.Msg {
	return msg.New(msg.Done, "Finished in "+nice.Elapsed(p.Elapsed())+".").
		WithNewline(true)
}
