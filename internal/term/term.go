// Package term answers questions about the terminal fyi draws on: how big it
// is, whether it is a terminal at all, and whether the user has asked us to
// stop.
package term

import (
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	xterm "golang.org/x/term"
)

// Cursor visibility sequences.
const (
	CursorHide   = "\x1b[?25l"
	CursorUnhide = "\x1b[?25h"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Screen reports the dimensions of the terminal behind a file descriptor.
//
// Where the platform delivers resize signals the dimensions are cached and
// only re-queried after a resize; elsewhere every call queries the terminal.
type Screen struct {
	fd     int
	width  atomic.Int32
	height atomic.Int32
	stale  atomic.Bool
	cached atomic.Bool
	stop   func()
}

// NewScreen returns a Screen for f. Call Close to release the resize watcher.
func NewScreen(f *os.File) *Screen {
	s := &Screen{fd: int(f.Fd())}
	s.stale.Store(true)
	if stop := watchResize(&s.stale); stop != nil {
		s.cached.Store(true)
		s.stop = stop
	}
	return s
}

// Size returns the terminal's width and height in cells. ok is false when the
// descriptor is not a terminal or the query fails.
func (s *Screen) Size() (width, height int, ok bool) {
	if !s.cached.Load() || s.stale.Swap(false) {
		w, h, err := xterm.GetSize(s.fd)
		if err != nil {
			w, h = 0, 0
		}
		s.width.Store(int32(w))
		s.height.Store(int32(h))
	}

	width, height = int(s.width.Load()), int(s.height.Load())
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// Close stops listening for resize signals. The Screen stays usable; it just
// queries the terminal on every call from then on.
func (s *Screen) Close() {
	s.cached.Store(false)
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}
