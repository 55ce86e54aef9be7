package progress

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"
)

// preprintLocked writes the buffer unless it is identical to the last frame
// at the same terminal size.
func (s *state) preprintLocked(force bool) {
	buf := s.buf.bytes()
	if len(buf) == 0 {
		s.printBlankLocked()
		return
	}

	hash := xxhash.Sum64(buf)
	if !force && hash == s.last.hash && s.width == s.last.width && s.height == s.last.height {
		return
	}

	// Erase and redraw in one write so nothing else on stderr can land in
	// between.
	out := appendErase(s.scratch[:0], s.last.lines)
	out = append(out, buf...)
	s.write(out)
	s.scratch = out

	s.last = rendered{
		hash:   hash,
		width:  s.width,
		height: s.height,
		lines:  bytes.Count(buf, []byte{'\n'}),
	}
}

// printBlankLocked erases whatever was printed last, if anything.
func (s *state) printBlankLocked() {
	s.last.hash = 0
	if s.last.lines == 0 {
		return
	}

	s.write(appendErase(s.scratch[:0], s.last.lines))
	s.last.lines = 0
}

// write sends p to the output. Failures are dropped: a broken stderr must
// not take the caller's work down with it.
func (s *state) write(p []byte) {
	if _, err := s.out.Write(p); err != nil {
		s.logger.Debug("progress write failed", zap.Error(err))
	}
}

// appendErase appends the sequence that moves the cursor back up over lines
// rows and clears from there to the end of the screen.
func appendErase(dst []byte, lines int) []byte {
	if lines <= 0 {
		return dst
	}
	dst = append(dst, '\r')
	dst = append(dst, ansi.CursorUp(lines)...)
	return append(dst, ansi.EraseScreenBelow...)
}
