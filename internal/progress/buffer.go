package progress

// part names a resizable region of the render buffer.
type part int

const (
	partTitle part = iota
	partElapsed
	partBarDone
	partBarUndone
	partDone
	partTotal
	partPercent
	partDoing
	numParts
)

type span struct{ start, end int }

// buffer holds the whole rendered block in one byte slice. Each part is
// addressed by name; resizing a part shifts every part after it, so the
// static ANSI glue between parts never has to be rewritten.
type buffer struct {
	buf   []byte
	parts [numParts]span
}

// newBuffer lays out the progress block with empty or zeroed parts:
//
//	[title]
//	[00:00:00]  [#####-----]  0/0  0.00%
//	    ↳ task
func newBuffer() *buffer {
	b := &buffer{buf: make([]byte, 0, 256)}

	b.mark(partTitle, "")
	b.glue("\x1b[2m[\x1b[0;1m")
	b.mark(partElapsed, "00:00:00")
	b.glue("\x1b[0;2m]\x1b[0m  \x1b[2m[\x1b[0;1;96m")
	b.mark(partBarDone, "")
	b.glue("\x1b[0;1;34m")
	b.mark(partBarUndone, "")
	b.glue("\x1b[0;2m]\x1b[0m  \x1b[1;96m")
	b.mark(partDone, "0")
	b.glue("\x1b[0;2m/\x1b[0;1;34m")
	b.mark(partTotal, "0")
	b.glue("\x1b[0;1m  ")
	b.mark(partPercent, "0.00%")
	b.glue("\x1b[0m\n")
	b.mark(partDoing, "")

	return b
}

func (b *buffer) glue(s string) { b.buf = append(b.buf, s...) }

func (b *buffer) mark(p part, s string) {
	start := len(b.buf)
	b.buf = append(b.buf, s...)
	b.parts[p] = span{start: start, end: len(b.buf)}
}

// bytes returns the assembled block. The slice is only valid until the next
// mutation.
func (b *buffer) bytes() []byte { return b.buf }

// len returns the byte length of part p.
func (b *buffer) len(p part) int { return b.parts[p].end - b.parts[p].start }

// get returns the current contents of part p.
func (b *buffer) get(p part) []byte { return b.buf[b.parts[p].start:b.parts[p].end] }

// replace swaps the contents of part p for src.
func (b *buffer) replace(p part, src []byte) {
	s := b.parts[p]
	delta := len(src) - (s.end - s.start)

	switch {
	case delta > 0:
		tail := len(b.buf)
		b.buf = append(b.buf, make([]byte, delta)...)
		copy(b.buf[s.end+delta:], b.buf[s.end:tail])
	case delta < 0:
		copy(b.buf[s.end+delta:], b.buf[s.end:])
		b.buf = b.buf[:len(b.buf)+delta]
	}
	copy(b.buf[s.start:], src)

	if delta == 0 {
		return
	}
	b.parts[p].end += delta
	for i := p + 1; i < numParts; i++ {
		b.parts[i].start += delta
		b.parts[i].end += delta
	}
}

// replaceString is replace for string sources.
func (b *buffer) replaceString(p part, src string) { b.replace(p, []byte(src)) }

// truncate empties part p.
func (b *buffer) truncate(p part) {
	if b.len(p) != 0 {
		b.replace(p, nil)
	}
}
