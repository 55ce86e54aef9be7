// Package msg builds the short, prefixed status lines fyi prints, such as
// "Error: something broke." or "Crunched: 5 files in 2 seconds."
package msg

import (
	"io"
	"strings"
	"time"

	"github.com/andpalmier/fyi/internal/fitted"
	"github.com/fatih/color"
)

// Msg is an immutable status message. The With* methods return modified
// copies, so a Msg can be shared freely between goroutines.
type Msg struct {
	label   string
	attrs   []color.Attribute
	kind    Kind
	message string
	indent  int
	stamp   time.Time
	newline bool
}

// New returns a message with the prefix of the given kind.
func New(kind Kind, message string) Msg {
	m := Msg{kind: kind, message: message}
	if s, ok := kindStyles[kind]; ok {
		m.label = s.label
		m.attrs = s.attrs
	}
	return m
}

// Custom returns a message with an arbitrary prefix label printed in the
// given color. An empty label yields an unprefixed message.
func Custom(label string, fg color.Attribute, message string) Msg {
	return Msg{
		label:   strings.TrimSpace(label),
		attrs:   []color.Attribute{fg, color.Bold},
		message: message,
	}
}

// Plain returns a message without a prefix.
func Plain(message string) Msg { return New(None, message) }

// WithMessage replaces the message, keeping the prefix and flags.
func (m Msg) WithMessage(message string) Msg {
	m.message = message
	return m
}

// WithIndent indents the message by n levels of four spaces.
func (m Msg) WithIndent(n int) Msg {
	m.indent = max(0, n)
	return m
}

// WithNewline controls whether a trailing line break is rendered.
func (m Msg) WithNewline(on bool) Msg {
	m.newline = on
	return m
}

// WithTimestamp stamps the message with the current local time.
func (m Msg) WithTimestamp(on bool) Msg {
	if on {
		m.stamp = time.Now()
	} else {
		m.stamp = time.Time{}
	}
	return m
}

// Kind returns the kind the message was built with.
func (m Msg) Kind() Kind { return m.kind }

// Label returns the prefix label, e.g. "Warning".
func (m Msg) Label() string { return m.label }

// Message returns the text following the prefix.
func (m Msg) Message() string { return m.message }

// IsEmpty reports whether the message would render as nothing.
func (m Msg) IsEmpty() bool { return m.label == "" && m.message == "" }

// String renders the message, including ANSI colors when enabled.
func (m Msg) String() string {
	var b strings.Builder
	m.render(&b)
	if m.newline {
		b.WriteByte('\n')
	}
	return b.String()
}

// Fitted renders the message cropped to at most width columns. The trailing
// line break, if any, is kept.
func (m Msg) Fitted(width int) string {
	var b strings.Builder
	m.render(&b)

	out := fitted.Truncate(b.String(), width)
	if m.newline {
		out += "\n"
	}
	return out
}

// Print writes the message to w.
func (m Msg) Print(w io.Writer) error {
	_, err := io.WriteString(w, m.String())
	return err
}

func (m Msg) render(b *strings.Builder) {
	b.WriteString(strings.Repeat("    ", m.indent))
	if m.label != "" {
		b.WriteString(color.New(m.attrs...).Sprint(m.label + ":"))
		b.WriteByte(' ')
	}
	b.WriteString(m.message)
	if !m.stamp.IsZero() {
		b.WriteByte(' ')
		b.WriteString(color.New(color.Faint).Sprint("[" + m.stamp.Format("2006-01-02 15:04:05") + "]"))
	}
}
