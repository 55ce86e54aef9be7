//go:build unix

package term

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

func watchResize(stale *atomic.Bool) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				stale.Store(true)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
