/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

// wakeup is the Go-idiomatic equivalent of the self-pipe spec §4.6
// describes: a buffered channel of capacity 1 lets producers nudge
// the blocked dispatcher without ever blocking themselves, and the
// dispatcher drains it on every wake.
type wakeup struct {
	ch chan struct{}
}

func newWakeup() *wakeup {
	return &wakeup{ch: make(chan struct{}, 1)}
}

// signal wakes the dispatcher if it is blocked; it never blocks the
// caller.
func (w *wakeup) signal() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// drain empties any pending wake signal after the dispatcher wakes.
func (w *wakeup) drain() {
	select {
	case <-w.ch:
	default:
	}
}
