/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import "time"

// noTarget marks CurrentIndex as "no current target".
const noTarget = -1

// ZoneNotifyInfo is the per-zone notification state, ported from
// spec §3: the ordered secondary list, the current target, the
// in-flight message id, the socket and deadline for that target, the
// retry counter, and the socket's address family (for metrics).
//
// An admitted ZoneNotifyInfo has a valid CurrentIndex and a non-zero
// Deadline; Socket is non-nil after a successful send and stays nil
// after a failed one until a later attempt succeeds. The dispatcher is
// the only goroutine that mutates this struct once a zone is admitted.
type ZoneNotifyInfo struct {
	Key          ZoneKey
	Secondaries  []Endpoint
	CurrentIndex int
	MsgID        uint16
	Socket       UDPSocket
	SocketFamily Family
	RetryCount   int
	Deadline     time.Time

	// generation increments every time Socket is replaced (including
	// to nil on Finish). Reader goroutines tag their results with the
	// generation they were spawned under so the dispatcher can discard
	// reads that race a target advance.
	generation uint64
}

// PrepareNotifyOut arms the first send for this zone's notification
// cycle: resets the retry counter, points CurrentIndex at the first
// secondary (or "none" if there are none), and schedules a deadline
// initialTimeout from now. It does not allocate a socket — that
// happens lazily on the first send.
func (z *ZoneNotifyInfo) PrepareNotifyOut(clock Clock, initialTimeout time.Duration) {
	z.RetryCount = 0
	if len(z.Secondaries) == 0 {
		z.CurrentIndex = noTarget
		z.Deadline = time.Time{}
		return
	}
	z.CurrentIndex = 0
	z.Deadline = clock.Now().Add(initialTimeout)
}

// HasCurrentTarget reports whether CurrentIndex names a valid
// secondary.
func (z *ZoneNotifyInfo) HasCurrentTarget() bool {
	return z.CurrentIndex >= 0 && z.CurrentIndex < len(z.Secondaries)
}

// CurrentTarget returns the secondary at CurrentIndex, or the zero
// Endpoint and false if there is none.
func (z *ZoneNotifyInfo) CurrentTarget() (Endpoint, bool) {
	if !z.HasCurrentTarget() {
		return Endpoint{}, false
	}
	return z.Secondaries[z.CurrentIndex], true
}

// AdvanceTarget moves CurrentIndex to the next secondary, resetting
// the retry counter; once CurrentIndex runs past the end, the zone
// has no current target ("none").
func (z *ZoneNotifyInfo) AdvanceTarget() {
	z.RetryCount = 0
	z.CurrentIndex++
	if z.CurrentIndex >= len(z.Secondaries) {
		z.CurrentIndex = noTarget
	}
}

// Finish closes the outstanding socket (if any), clears the deadline
// and clears the current target, returning this ZoneNotifyInfo to
// idle.
func (z *ZoneNotifyInfo) Finish() {
	if z.Socket != nil {
		z.Socket.Close()
		z.Socket = nil
		z.generation++
	}
	z.Deadline = time.Time{}
	z.CurrentIndex = noTarget
}

// closeSocket releases the current socket without touching the
// target index or deadline — used when a target advances but the
// zone continues (the next send lazily opens a fresh socket).
func (z *ZoneNotifyInfo) closeSocket() {
	if z.Socket != nil {
		z.Socket.Close()
		z.Socket = nil
		z.generation++
	}
}
