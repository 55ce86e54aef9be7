package progress

import "sync"

// TaskGuard represents one task shown in the active list. Releasing it with
// Done removes the task and counts it as finished; Cancel only removes it.
//
// Guards are meant to be released with defer. A nil *TaskGuard is valid and
// does nothing, and a guard left over from before a Reset is ignored.
type TaskGuard struct {
	state *state
	name  string
	cycle uint32
	once  sync.Once
}

// Name returns the sanitized task description.
func (g *TaskGuard) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

// Done removes the task and increments the done count by one.
func (g *TaskGuard) Done() { g.release(true) }

// Cancel removes the task without touching the done count.
func (g *TaskGuard) Cancel() { g.release(false) }

func (g *TaskGuard) release(inc bool) {
	if g == nil {
		return
	}
	g.once.Do(func() { g.state.remove(g.name, g.cycle, inc) })
}
