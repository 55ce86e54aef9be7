package progress

import (
	"bytes"
	"slices"
	"time"

	"github.com/andpalmier/fyi/internal/nice"
)

// tick brings the buffer up to date and repaints it if anything visible
// changed. It returns false once progress has stopped.
func (s *state) tick() bool {
	if !s.running() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked(false)
}

// tickLocked does the work of tick. force repaints even if the frame is
// identical to the last one, e.g. after a message was printed above it.
func (s *state) tickLocked(force bool) bool {
	if !s.running() {
		return false
	}

	if s.shutdown != nil && s.shutdown.Load() {
		s.sigintLocked()
	}

	s.tickDimensions()
	if s.width < minDrawWidth {
		s.printBlankLocked()
		return true
	}

	secs := s.tickElapsed()
	if !secs && !force && s.flags.Load()&flagsDirty == 0 {
		return true
	}

	// Numbers first: the bar gets whatever room they leave. The title goes
	// before the task list because it eats into the rows tasks can use.
	s.tickDone()
	s.tickTotal()
	s.tickPercent()
	s.tickTitle()
	s.tickDoing()
	s.tickBar()

	s.preprintLocked(force)
	return true
}

// tickDimensions records the terminal size, flagging the width- and
// height-dependent parts when it changed. One column is held back to stay
// clear of terminals that wrap early at the right edge.
func (s *state) tickDimensions() {
	width, height, ok := s.term.Size()
	if !ok {
		return
	}

	width--
	if width != s.width || height != s.height {
		s.width, s.height = width, height
		s.dirty(flagsResized)
	}
}

// tickElapsed rewrites the clock when a new second has started and reports
// whether it did.
func (s *state) tickElapsed() bool {
	elapsed := s.elapsedLocked()
	secs := int64(elapsed / time.Second)
	if secs == s.lastSecs {
		return false
	}

	s.lastSecs = secs
	s.buf.replaceString(partElapsed, nice.Clock(elapsed))
	return true
}

func (s *state) tickDone() {
	if s.clean(flagDone) {
		s.buf.replaceString(partDone, nice.Uint(s.done))
	}
}

func (s *state) tickTotal() {
	if s.clean(flagTotal) {
		s.buf.replaceString(partTotal, nice.Uint(s.total))
	}
}

func (s *state) tickPercent() {
	if s.clean(flagPercent) {
		s.buf.replaceString(partPercent, nice.Percent(s.done, s.total))
	}
}

func (s *state) tickTitle() {
	if !s.clean(flagTitle) {
		return
	}

	if s.title == nil {
		s.buf.truncate(partTitle)
	} else {
		s.buf.replaceString(partTitle, s.title.Fitted(s.width))
	}

	// The title claims a row the task list may have been using.
	s.dirty(flagDoing)
}

// taskRows returns how many task lines fit below the title and numbers.
func (s *state) taskRows() int {
	rows := s.height - 2
	if s.title != nil {
		rows--
	}
	return max(0, rows)
}

func (s *state) tickDoing() {
	if !s.clean(flagDoing) {
		return
	}

	rows := s.taskRows()
	if len(s.doing) == 0 || rows == 0 {
		s.buf.truncate(partDoing)
		return
	}

	names := make([]string, 0, len(s.doing))
	for name := range s.doing {
		names = append(names, name)
	}
	slices.Sort(names)
	if len(names) > rows {
		names = names[:rows]
	}

	out := make([]byte, 0, 256)
	out = append(out, "\x1b[35m"...)
	for _, name := range names {
		out = s.doing[name].appendTo(out, s.width)
	}
	out = append(out, "\x1b[0m"...)

	s.buf.replace(partDoing, out)
}

func (s *state) tickBar() {
	if !s.clean(flagBar) {
		return
	}

	space := s.width - barOverhead -
		s.buf.len(partElapsed) -
		s.buf.len(partDone) -
		s.buf.len(partTotal) -
		s.buf.len(partPercent)

	done, undone := barWidths(s.done, s.total, space)

	// Undone first: it only ever shrinks, leaving less to shift when done grows.
	if s.buf.len(partBarUndone) != undone {
		s.buf.replace(partBarUndone, bytes.Repeat([]byte{'-'}, undone))
	}
	if s.buf.len(partBarDone) != done {
		s.buf.replace(partBarDone, bytes.Repeat([]byte{'#'}, done))
	}
}

// barWidths splits space columns between the done and undone segments of the
// bar. The done share is floored, so the bar never looks further along than
// it is. Anything narrower than minBarWidth is not worth drawing.
func barWidths(done, total uint32, space int) (int, int) {
	if space < minBarWidth || total == 0 {
		return 0, 0
	}

	switch {
	case done == 0:
		return 0, space
	case done >= total:
		return space, 0
	}

	d := int(uint64(done) * uint64(space) / uint64(total))
	return d, space - d
}
