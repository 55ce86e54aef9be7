//go:build !unix

package term

import "sync/atomic"

// No SIGWINCH here; the screen is queried on every call instead.
func watchResize(*atomic.Bool) func() { return nil }
