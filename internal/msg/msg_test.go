package msg_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andpalmier/fyi/internal/fitted"
	"github.com/andpalmier/fyi/internal/msg"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	t.Parallel()

	for _, k := range msg.Kinds() {
		got, ok := msg.ParseKind(strings.ToLower(k.String()))
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}

	k, ok := msg.ParseKind("prompt")
	assert.True(t, ok)
	assert.Equal(t, msg.Confirm, k)

	_, ok = msg.ParseKind("nope")
	assert.False(t, ok)
	assert.Empty(t, msg.None.String())
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   msg.Msg
		want string
	}{
		{name: "plain", in: msg.Plain("hello"), want: "hello"},
		{name: "error", in: msg.New(msg.Error, "oops"), want: "Error: oops"},
		{name: "newline", in: msg.New(msg.Success, "yay").WithNewline(true), want: "Success: yay\n"},
		{name: "indent", in: msg.New(msg.Info, "hi").WithIndent(2), want: "        Info: hi"},
		{name: "custom", in: msg.Custom("Scanning", color.FgMagenta, "files"), want: "Scanning: files"},
		{name: "custom empty label", in: msg.Custom("  ", color.FgMagenta, "files"), want: "files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fitted.Strip(tt.in.String()))
		})
	}
}

func TestWithMessageKeepsPrefix(t *testing.T) {
	t.Parallel()

	m := msg.New(msg.Warning, "first").WithNewline(true)
	n := m.WithMessage("second")

	assert.Equal(t, "Warning: first\n", fitted.Strip(m.String()))
	assert.Equal(t, "Warning: second\n", fitted.Strip(n.String()))
	assert.Equal(t, msg.Warning, n.Kind())
	assert.Equal(t, "Warning", n.Label())
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	out := fitted.Strip(msg.New(msg.Info, "hi").WithTimestamp(true).String())
	assert.Regexp(t, `^Info: hi \[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\]$`, out)
}

func TestFitted(t *testing.T) {
	t.Parallel()

	m := msg.New(msg.Info, "a rather long message").WithNewline(true)
	out := m.Fitted(10)

	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Equal(t, "Info: a ra\n", fitted.Strip(out))
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, msg.New(msg.Done, "ok").WithNewline(true).Print(&buf))
	assert.Equal(t, "Done: ok\n", fitted.Strip(buf.String()))
	assert.True(t, msg.Plain("").IsEmpty())
	assert.False(t, msg.Plain("x").IsEmpty())
}
