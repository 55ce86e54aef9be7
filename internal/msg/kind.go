package msg

import (
	"strings"

	"github.com/fatih/color"
)

// Kind identifies the prefix a message is printed with.
type Kind uint8

// Built-in message kinds.
const (
	None Kind = iota
	Confirm
	Crunched
	Debug
	Done
	Error
	Info
	Notice
	Success
	Task
	Warning
)

type kindStyle struct {
	label string
	attrs []color.Attribute
}

var kindStyles = map[Kind]kindStyle{
	Confirm:  {"Confirm", []color.Attribute{color.FgYellow, color.Bold}},
	Crunched: {"Crunched", []color.Attribute{color.FgHiGreen, color.Bold}},
	Debug:    {"Debug", []color.Attribute{color.FgHiCyan, color.Bold}},
	Done:     {"Done", []color.Attribute{color.FgHiGreen, color.Bold}},
	Error:    {"Error", []color.Attribute{color.FgHiRed, color.Bold}},
	Info:     {"Info", []color.Attribute{color.FgHiMagenta, color.Bold}},
	Notice:   {"Notice", []color.Attribute{color.FgHiMagenta, color.Bold}},
	Success:  {"Success", []color.Attribute{color.FgHiGreen, color.Bold}},
	Task:     {"Task", []color.Attribute{color.FgMagenta, color.Bold}},
	Warning:  {"Warning", []color.Attribute{color.FgHiYellow, color.Bold}},
}

// Kinds returns every kind that carries a prefix, in declaration order.
func Kinds() []Kind {
	return []Kind{Confirm, Crunched, Debug, Done, Error, Info, Notice, Success, Task, Warning}
}

// String returns the label printed for k, without the trailing colon.
func (k Kind) String() string {
	if s, ok := kindStyles[k]; ok {
		return s.label
	}
	return ""
}

// ParseKind maps a lowercase name such as "warning" to its Kind.
// "prompt" is accepted as an alias for "confirm".
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "prompt" {
		return Confirm, true
	}
	for _, k := range Kinds() {
		if strings.ToLower(k.String()) == name {
			return k, true
		}
	}
	return None, false
}
