package progress

import "github.com/andpalmier/fyi/internal/fitted"

const (
	// taskPrefix leads every active task line.
	taskPrefix      = "    ↳ "
	taskPrefixWidth = 6

	maxTaskLen = 65_535
)

// task is a sanitized description of in-flight work along with its
// pre-computed display width.
type task struct {
	text  string
	width int
}

func newTask(src string) (task, error) {
	s := fitted.Sanitize(src)
	switch {
	case s == "":
		return task{}, ErrEmptyTask
	case len(s) > maxTaskLen:
		return task{}, ErrTaskOverflow
	}
	return task{text: s, width: fitted.Width(s)}, nil
}

// appendTo writes the task as one prefixed line no wider than width.
func (t task) appendTo(dst []byte, width int) []byte {
	avail := width - taskPrefixWidth
	if avail <= 0 {
		return dst
	}

	text := t.text
	if t.width > avail {
		text = fitted.Truncate(text, avail)
		if text == "" {
			return dst
		}
	}

	dst = append(dst, taskPrefix...)
	dst = append(dst, text...)
	return append(dst, '\n')
}
