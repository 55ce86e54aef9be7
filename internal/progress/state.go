package progress

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andpalmier/fyi/internal/msg"
	"go.uber.org/zap"
)

// Tick flags. The low bits mark buffer parts that went stale since the last
// tick; they are only recomputed, at most once per tick, when set.
const (
	flagBar uint32 = 1 << iota
	flagDoing
	flagDone
	flagPercent
	flagTitle
	flagTotal
	flagTicking
	flagSigint

	flagsDirty   = flagBar | flagDoing | flagDone | flagPercent | flagTitle | flagTotal
	flagsNew     = flagTicking | flagsDirty
	flagsResized = flagBar | flagDoing | flagTitle
)

const (
	minDrawWidth = 40
	minBarWidth  = 10

	// barOverhead counts the fixed columns sharing a line with the bar: the
	// brackets and trailing spaces of the clock and the bar, the slash
	// between done and total, and the spaces after total.
	barOverhead = 11
)

const shutdownNotice = "Early shutdown in progress."

// rendered remembers what was last written so identical frames can be
// skipped and the old block erased before a new one goes out.
type rendered struct {
	hash   uint64
	width  int
	height int
	lines  int
}

// state is the shared progress data. Every field below mu is guarded by it;
// flags is atomic so the ticker can see whether it should keep going without
// taking the lock.
type state struct {
	flags atomic.Uint32

	mu sync.Mutex

	out      io.Writer
	term     Terminal
	shutdown *atomic.Bool
	logger   *zap.Logger
	now      func() time.Time

	buf     *buffer
	scratch []byte

	started  time.Time
	frozen   time.Duration
	lastSecs int64

	title *msg.Msg
	done  uint32
	total uint32
	doing map[string]task
	cycle uint32

	width  int
	height int
	last   rendered
}

func newState(total uint32, out io.Writer, t Terminal, shutdown *atomic.Bool, logger *zap.Logger) *state {
	s := &state{
		out:      out,
		term:     t,
		shutdown: shutdown,
		logger:   logger,
		now:      time.Now,
		buf:      newBuffer(),
		lastSecs: -1,
		total:    total,
		doing:    make(map[string]task),
	}
	s.started = s.now()
	s.flags.Store(flagsNew)
	return s
}

func (s *state) running() bool { return s.flags.Load()&flagTicking != 0 }

func (s *state) dirty(f uint32) { s.flags.Or(f) }

// clean clears f and reports whether any of it was set.
func (s *state) clean(f uint32) bool { return s.flags.And(^f)&f != 0 }

func (s *state) elapsedLocked() time.Duration {
	if s.running() {
		return s.now().Sub(s.started)
	}
	return s.frozen
}

func (s *state) elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *state) counts() (done, total uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done, s.total
}

// add registers a task description. ok is false when the description was
// unusable or already present, in which case nothing changed.
func (s *state) add(text string) (name string, cycle uint32, ok bool) {
	if !s.running() {
		return "", 0, false
	}

	t, err := newTask(text)
	if err != nil {
		s.logger.Debug("task ignored", zap.Error(err))
		return "", 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return "", 0, false
	}
	if _, dup := s.doing[t.text]; dup {
		return "", 0, false
	}

	s.doing[t.text] = t
	s.dirty(flagDoing)
	return t.text, s.cycle, true
}

// remove drops a task registered during cycle and optionally counts it as
// done. Removal and increment happen under one lock so two goroutines can
// never count the same task twice.
func (s *state) remove(name string, cycle uint32, inc bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() || cycle != s.cycle {
		return
	}
	if _, ok := s.doing[name]; !ok {
		return
	}

	delete(s.doing, name)
	s.dirty(flagDoing)
	if inc {
		s.setDoneLocked(uint64(s.done) + 1)
	}
}

func (s *state) increment(n uint32) {
	if n == 0 || !s.running() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDoneLocked(uint64(s.done) + uint64(n))
}

func (s *state) setDone(n uint32) {
	if !s.running() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDoneLocked(uint64(n))
}

func (s *state) setDoneLocked(n uint64) {
	if !s.running() {
		return
	}

	done := uint32(min(n, uint64(s.total)))
	switch {
	case done == s.done:
	case done == s.total:
		s.stopLocked()
	default:
		s.done = done
		s.dirty(flagDone | flagPercent | flagBar)
	}
}

func (s *state) setTitle(m *msg.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setTitleLocked(m)
}

func (s *state) setTitleLocked(m *msg.Msg) {
	if !s.running() {
		return
	}

	if m == nil || m.IsEmpty() {
		s.title = nil
	} else {
		t := m.WithNewline(true)
		s.title = &t
	}
	s.dirty(flagTitle)
}

// setTitleMessage swaps the title text, keeping whatever prefix it had.
func (s *state) setTitleMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t msg.Msg
	if s.title != nil {
		t = s.title.WithMessage(text)
	} else {
		t = msg.Plain(text)
	}
	s.setTitleLocked(&t)
}

func (s *state) sigint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sigintLocked()
}

// sigintLocked swaps the title for a shutdown notice, once. Counts are left
// alone; winding the work down is up to the caller.
func (s *state) sigintLocked() {
	if !s.running() || s.flags.Load()&flagSigint != 0 {
		return
	}
	s.dirty(flagSigint)

	t := msg.New(msg.Warning, shutdownNotice)
	s.setTitleLocked(&t)
}

func (s *state) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// stopLocked ends the run: done is forced to total, the task list emptied,
// the clock frozen and the block erased. It is a no-op once stopped.
func (s *state) stopLocked() {
	if !s.running() {
		return
	}

	s.frozen = s.now().Sub(s.started)
	s.flags.Store(0)
	s.done = s.total
	clear(s.doing)
	s.printBlankLocked()

	s.logger.Debug("progress stopped",
		zap.Uint32("done", s.done),
		zap.Duration("elapsed", s.frozen))
}

// restart begins a new cycle with a fresh total. The start time is kept so
// elapsed time keeps adding up across cycles.
func (s *state) restart(total uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	s.cycle++
	s.done = 0
	s.total = total
	s.title = nil
	s.lastSecs = -1
	clear(s.doing)
	s.flags.Store(flagsNew)

	s.logger.Debug("progress reset",
		zap.Uint32("total", total),
		zap.Uint32("cycle", s.cycle))
}
