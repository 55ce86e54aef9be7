package progress

import (
	"sync"
	"time"

	"github.com/sourcegraph/conc"
)

// steady repaints a state on a fixed interval from a background goroutine,
// however fast or slow the actual work is going.
type steady struct {
	mu     sync.Mutex
	wg     *conc.WaitGroup
	cancel chan struct{}
}

// start launches a ticker for s, stopping any previous one first.
func (t *steady) start(s *state, rate time.Duration) {
	t.stop()

	cancel := make(chan struct{})
	wg := conc.NewWaitGroup()
	wg.Go(func() { runTicker(s, rate, cancel) })

	t.mu.Lock()
	t.cancel, t.wg = cancel, wg
	t.mu.Unlock()
}

// stop cancels the ticker and waits for its goroutine to return, so no tick
// (and no write) is in flight once it does. It must not be called from the
// ticker goroutine itself.
func (t *steady) stop() {
	t.mu.Lock()
	cancel, wg := t.cancel, t.wg
	t.cancel, t.wg = nil, nil
	t.mu.Unlock()

	if wg == nil {
		return
	}
	close(cancel)
	wg.Wait()
}

func runTicker(s *state, rate time.Duration, cancel <-chan struct{}) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			if !s.tick() {
				return
			}
		}
	}
}
