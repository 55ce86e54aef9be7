package term

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
)

// Policy decides what a SIGINT does to the process.
type Policy int

const (
	// PolicyDefault restores the cursor and exits on the first SIGINT.
	PolicyDefault Policy = iota
	// PolicyTwoStrike raises the flag and cancels the work on the first SIGINT
	// and exits on the second.
	PolicyTwoStrike
	// PolicyKeepalive raises the flag and leaves the work running.
	PolicyKeepalive
)

// ParsePolicy maps "default", "two-strike" or "keepalive" to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return PolicyDefault, nil
	case "two-strike", "twostrike":
		return PolicyTwoStrike, nil
	case "keepalive", "keep-alive":
		return PolicyKeepalive, nil
	default:
		return PolicyDefault, fmt.Errorf("unknown sigint policy %q (valid: default, two-strike, keepalive)", name)
	}
}

// Interrupt tracks whether a SIGINT has arrived.
type Interrupt struct {
	policy Policy
	out    io.Writer
	cancel func()
	exit   func(int)
	killed atomic.Bool
}

// NewInterrupt returns an Interrupt that is not yet listening for signals.
// cancel, if not nil, is called when the policy says the work should stop.
func NewInterrupt(policy Policy, out io.Writer, cancel func()) *Interrupt {
	if cancel == nil {
		cancel = func() {}
	}
	return &Interrupt{policy: policy, out: out, cancel: cancel, exit: os.Exit}
}

// Flag is raised once the first SIGINT has been handled.
func (i *Interrupt) Flag() *atomic.Bool { return &i.killed }

// handle applies the policy to one incoming signal.
func (i *Interrupt) handle() {
	first := !i.killed.Swap(true)
	if first {
		_, _ = io.WriteString(i.out, CursorUnhide)
	}

	switch i.policy {
	case PolicyDefault:
		i.exit(1)
	case PolicyTwoStrike:
		if first {
			i.cancel()
		} else {
			i.exit(1)
		}
	case PolicyKeepalive:
	}
}

func (i *Interrupt) listen() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		for range ch {
			i.handle()
		}
	}()
}

var (
	interruptOnce sync.Once
	interrupt     *Interrupt
)

// Interrupts installs the process-wide SIGINT handler and returns its flag.
// Only the first call registers anything; later calls get the same flag
// whatever policy and cancel func they pass, so call it early.
func Interrupts(policy Policy, out io.Writer, cancel func()) *atomic.Bool {
	interruptOnce.Do(func() {
		interrupt = NewInterrupt(policy, out, cancel)
		interrupt.listen()
	})
	return interrupt.Flag()
}
