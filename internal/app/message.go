package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/andpalmier/fyi/internal/msg"
)

// Print writes m on a line of its own.
func Print(w io.Writer, m msg.Msg) error {
	return m.WithNewline(true).Print(w)
}

// Blank writes count empty lines, at least one.
func Blank(w io.Writer, count int) error {
	_, err := io.WriteString(w, strings.Repeat("\n", max(1, count)))
	return err
}

// Confirm prints m as a yes/no question and reads the answer from in. Only
// "y" or "yes" count as agreement; anything else, including EOF, is a no.
func Confirm(in io.Reader, out io.Writer, m msg.Msg) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s \x1b[2m[y/N]\x1b[0m ", m.WithNewline(false)); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
