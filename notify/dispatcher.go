/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Dispatcher is the single event loop described in spec §4.4: it owns
// every admitted zone's socket and deadline, multiplexes reads across
// them alongside a deadline timer and the wakeup channel, and exposes
// the fire-and-forget SendNotify/Start/Shutdown API from spec §6.
//
// Grounded on the teacher's tdnsd/refreshengine.go RefreshEngine — a
// single goroutine selecting over a ticker and several channels that
// mutate a private map keyed by zone name — generalized here to a
// bounded admission-controlled NOTIFY state machine instead of a
// refresh counter.
type Dispatcher struct {
	cfg      Config
	clock    Clock
	sockets  SocketFactory
	resolver *Resolver
	counters CounterStore
	logger   *log.Logger

	mu      sync.Mutex          // guards zones, waiting, pending, and the admission decision
	zones   map[string][]Endpoint // configured zone set: key.String() -> static secondaries
	waiting []ZoneKey

	// pending counts zones that have reserved an admission slot (passed
	// the cap check) but are not yet published into admitted — a
	// SendNotify call unlocks mu before resolving secondaries and
	// sending, so admitted.Count() alone is stale during that window.
	// promoteWaiting and SendNotify both compare against
	// admitted.Count()+pending, never admitted.Count() alone, so the
	// cap is never exceeded regardless of how the two interleave.
	pending int

	admitted cmap.ConcurrentMap[string, *ZoneNotifyInfo] // dispatcher-owned once published

	wake      *wakeup
	readCh    chan readEvent
	stopped   atomic.Bool
	startOnce sync.Once
	closeOnce sync.Once
	closedCh  chan struct{}
	wg        sync.WaitGroup
}

// NewDispatcher builds a Dispatcher ready to have zones registered and
// Start()ed. ds, sockets, counters, clock and logger are all seams
// (spec §9); pass nil for clock/logger/counters/sockets to get the
// production defaults.
func NewDispatcher(cfg Config, ds DataSource, sockets SocketFactory, counters CounterStore, clock Clock, logger *log.Logger) *Dispatcher {
	if sockets == nil {
		sockets = SystemSocketFactory{}
	}
	if counters == nil {
		counters = NewMapCounterStore()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}

	d := &Dispatcher{
		cfg:      cfg,
		clock:    clock,
		sockets:  sockets,
		resolver: &Resolver{DS: ds, Logger: logger},
		counters: counters,
		logger:   logger,
		zones:    make(map[string][]Endpoint),
		admitted: cmap.New[*ZoneNotifyInfo](),
		wake:     newWakeup(),
		readCh:   make(chan readEvent, cfg.MaxNotifyNum+8),
		closedCh: make(chan struct{}),
	}
	return d
}

// RegisterZone adds (name, class) to the configured zone set with its
// statically configured secondaries (may be empty — the resolver may
// still discover secondaries via NS records). A zone not registered
// here is "unknown" and SendNotify rejects it.
func (d *Dispatcher) RegisterZone(name string, class uint16, staticSecondaries []Endpoint) {
	zk := NewZoneKey(name, class)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.zones[zk.String()] = staticSecondaries
}

// Start launches the dispatcher worker if it is not already running;
// idempotent, matching spec §6's dispatcher() -> handle.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.run()
		}()
	})
}

// Shutdown stops the dispatcher and waits for its worker to exit,
// closing every outstanding socket and clearing admitted/waiting
// state, per spec §4.7.
func (d *Dispatcher) Shutdown() {
	d.stopped.Store(true)
	d.wake.signal()
	d.wg.Wait()
	d.closeOnce.Do(func() { close(d.closedCh) })
}

// SendNotify is the producer-facing, fire-and-forget API from spec
// §4.5/§6. It returns false (rejected) only if the zone key does not
// exist in the configured zone set; every other outcome — already
// admitted, already waiting, no secondaries, freshly admitted — is
// reported as accepted, matching the teacher's own "bool means call
// didn't fail" convention (tdns/notify.go's NotifyResponse.Error).
func (d *Dispatcher) SendNotify(name string, class string) bool {
	zoneClass, ok := ClassFromString(class)
	if !ok {
		zoneClass, _ = ClassFromString("")
	}
	zk := NewZoneKey(name, zoneClass)
	key := zk.String()

	d.mu.Lock()
	static, known := d.zones[key]
	if !known {
		d.mu.Unlock()
		return false
	}
	if d.admitted.Has(key) {
		d.mu.Unlock()
		return true
	}
	for _, w := range d.waiting {
		if w == zk {
			d.mu.Unlock()
			return true
		}
	}
	if d.admitted.Count()+d.pending >= d.cfg.MaxNotifyNum {
		d.waiting = append(d.waiting, zk)
		d.mu.Unlock()
		// A queued zone does not signal the wakeup: it would only
		// cause a spurious wake with nothing yet to do.
		return true
	}

	// Reserve the slot now, atomically with the cap check, then release
	// mu: resolving secondaries and sending must not block the
	// dispatcher's own goroutine (which also takes mu in promoteWaiting),
	// but admitted.Count() alone would be stale for any concurrent
	// SendNotify/promoteWaiting call made before this zone is actually
	// published below, letting both admit past the cap. pending closes
	// that window; see the field comment on Dispatcher.
	d.pending++
	d.mu.Unlock()

	// Resolving a local data source is not the network I/O the
	// no-blocking-on-the-public-API rule in spec §5 is about.
	discovered := d.resolver.Discover(zk.Name, zk.Class)
	secondaries := MergeSecondaries(static, discovered)
	if len(secondaries) == 0 {
		d.mu.Lock()
		d.pending--
		d.mu.Unlock()
		return true
	}

	zi := &ZoneNotifyInfo{Key: zk, Secondaries: secondaries}
	zi.PrepareNotifyOut(d.clock, d.cfg.InitialTimeout)

	// Fire the first send before publishing zi into the admitted map:
	// the dispatcher worker only ever touches a ZoneNotifyInfo it can
	// reach through that map, so sending first and publishing after
	// means the worker never observes zi mid-mutation. pending stays
	// incremented (reserving the slot) across this whole window and is
	// only released once zi is actually visible in admitted.
	d.send(zi, key)
	d.admitted.Set(key, zi)

	d.mu.Lock()
	d.pending--
	d.mu.Unlock()

	d.wake.signal()
	return true
}

// Snapshot returns a point-in-time view of admitted zones for
// operational visibility (spec §9 supplemented feature), not part of
// the core RFC 1996 contract.
type ZoneSnapshot struct {
	Zone         string
	Class        uint16
	CurrentIndex int
	RetryCount   int
	Deadline     time.Time
}

func (d *Dispatcher) Snapshot() []ZoneSnapshot {
	items := d.admitted.Items()
	out := make([]ZoneSnapshot, 0, len(items))
	for _, zi := range items {
		out = append(out, ZoneSnapshot{
			Zone:         zi.Key.Name,
			Class:        zi.Key.Class,
			CurrentIndex: zi.CurrentIndex,
			RetryCount:   zi.RetryCount,
			Deadline:     zi.Deadline,
		})
	}
	return out
}

// WaitingCount reports the number of zones currently queued behind
// the admission cap.
func (d *Dispatcher) WaitingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.waiting)
}

type readEvent struct {
	key        string
	generation uint64
	n          int
	data       [512]byte
	err        error
}

func (d *Dispatcher) spawnReader(key string, generation uint64, sock UDPSocket) {
	go func() {
		buf := make([]byte, 512)
		n, err := sock.ReadFrom(buf)
		var ev readEvent
		ev.key = key
		ev.generation = generation
		ev.n = n
		ev.err = err
		if n > 0 {
			copy(ev.data[:], buf[:n])
		}
		select {
		case d.readCh <- ev:
		case <-d.closedCh:
		}
	}()
}

// run is the single worker goroutine; see spec §4.4 for the numbered
// steps this mirrors.
func (d *Dispatcher) run() {
	for {
		if d.stopped.Load() {
			d.teardown()
			return
		}

		admittedItems := d.admitted.Items()
		var earliest time.Time
		hasDeadline := false
		for _, zi := range admittedItems {
			if !zi.Deadline.IsZero() {
				if !hasDeadline || zi.Deadline.Before(earliest) {
					earliest = zi.Deadline
					hasDeadline = true
				}
			}
		}

		var timerC <-chan time.Time
		var timer *time.Timer
		if hasDeadline {
			wait := earliest.Sub(d.clock.Now())
			if wait < 0 {
				wait = 0
			}
			timer = time.NewTimer(wait)
			timerC = timer.C
		}

		var reads []readEvent
		select {
		case ev := <-d.readCh:
			reads = append(reads, ev)
		case <-timerC:
		case <-d.wake.ch:
			d.wake.drain()
		}
		if timer != nil {
			timer.Stop()
		}

		if d.stopped.Load() {
			d.teardown()
			return
		}

	drainLoop:
		for {
			select {
			case ev := <-d.readCh:
				reads = append(reads, ev)
			default:
				break drainLoop
			}
		}
		for _, ev := range reads {
			d.dispatchEvent(eventRead, ev, nil, "")
		}

		now := d.clock.Now()
		for key, zi := range d.admitted.Items() {
			if !zi.Deadline.IsZero() && !zi.Deadline.After(now) {
				d.dispatchEvent(eventTimeout, readEvent{}, zi, key)
			}
		}

		d.promoteWaiting()
	}
}

func (d *Dispatcher) teardown() {
	for key, zi := range d.admitted.Items() {
		zi.Finish()
		d.admitted.Remove(key)
	}
	d.mu.Lock()
	d.waiting = nil
	d.mu.Unlock()
}

// dispatchEvent routes a single wake-driven event to its handler,
// matching spec §4.4's READ/TIMEOUT split. An event kind other than
// the two defined here would mean an iteration decided to act on a
// zone it had no business touching, which is a programming error, not
// a runtime condition to recover from.
func (d *Dispatcher) dispatchEvent(kind eventKind, ev readEvent, zi *ZoneNotifyInfo, key string) {
	switch kind {
	case eventRead:
		d.handleRead(ev)
	case eventTimeout:
		d.handleTimeout(zi, key)
	default:
		panic("notify: illegal event kind")
	}
}

func (d *Dispatcher) handleRead(ev readEvent) {
	zi, ok := d.admitted.Get(ev.key)
	if !ok || zi.generation != ev.generation {
		return // stale: zone finished or target advanced since this read was issued
	}

	var result ReplyResult
	if ev.err != nil {
		// spec §4.4 READ handler: a transient error reading the
		// socket is treated exactly like a bad response.
		result = BadReplyPacket
	} else {
		result = ValidateResponse(zi.MsgID, zi.Key.Name, zi.Key.Class, ev.data[:ev.n])
	}

	if result == ReplyOK {
		zi.closeSocket()
		zi.AdvanceTarget()
		if zi.HasCurrentTarget() {
			d.send(zi, ev.key)
		} else {
			d.finishZone(zi, ev.key)
		}
		return
	}

	d.logger.Printf("notify: zone %s: bad NOTIFY response (%s)", zi.Key.Name, result)
	d.handleTimeout(zi, ev.key)
}

func (d *Dispatcher) handleTimeout(zi *ZoneNotifyInfo, key string) {
	if zi.RetryCount < d.cfg.MaxTry {
		zi.RetryCount++
		if !d.send(zi, key) {
			// send() failing is equivalent to a timeout on this same
			// attempt, so the next attempt may proceed (spec §4.4 Send).
			d.handleTimeout(zi, key)
		}
		return
	}

	d.logger.Printf("notify: zone %s: retries exhausted on target %d", zi.Key.Name, zi.CurrentIndex)
	zi.RetryCount = 0
	zi.AdvanceTarget()
	if !zi.HasCurrentTarget() {
		d.finishZone(zi, key)
		return
	}
	if !d.send(zi, key) {
		d.handleTimeout(zi, key)
	}
}

func (d *Dispatcher) finishZone(zi *ZoneNotifyInfo, key string) {
	zi.Finish()
	d.admitted.Remove(key)
}

// send allocates a fresh socket for the current target, encodes a
// NOTIFY with a freshly chosen message id, sends it once and arms the
// next deadline. It returns false without incrementing any counter if
// socket allocation or the send itself fails — the caller treats that
// exactly like a timeout (spec §4.4 Send, §7).
func (d *Dispatcher) send(zi *ZoneNotifyInfo, key string) bool {
	target, ok := zi.CurrentTarget()
	if !ok {
		return false
	}
	zi.closeSocket()

	sock, err := d.sockets.NewSocket(target)
	if err != nil {
		d.logger.Printf("notify: zone %s: socket allocation failed for %s: %v", zi.Key.Name, target.IP, err)
		return false
	}

	msg, id := EncodeQuery(zi.Key.Name, zi.Key.Class)
	wire, err := msg.Pack()
	if err != nil {
		sock.Close()
		d.logger.Printf("notify: zone %s: failed to encode NOTIFY: %v", zi.Key.Name, err)
		return false
	}

	if err := sock.Send(wire); err != nil {
		sock.Close()
		d.logger.Printf("notify: zone %s: send to %s failed: %v", zi.Key.Name, target.IP, err)
		return false
	}

	zi.Socket = sock
	zi.SocketFamily = sock.Family()
	zi.MsgID = id
	zi.generation++
	gen := zi.generation

	if zi.RetryCount == 0 {
		zi.Deadline = d.clock.Now().Add(d.cfg.InitialTimeout)
	} else {
		zi.Deadline = d.clock.Now().Add(d.cfg.backoff(zi.RetryCount))
	}

	d.counters.Increment("zones", zi.Key.Name, familyMetric(sock.Family()))
	d.spawnReader(key, gen, sock)
	return true
}

func (d *Dispatcher) promoteWaiting() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.admitted.Count()+d.pending < d.cfg.MaxNotifyNum && len(d.waiting) > 0 {
		zk := d.waiting[0]
		d.waiting = d.waiting[1:]
		key := zk.String()

		static := d.zones[key]
		discovered := d.resolver.Discover(zk.Name, zk.Class)
		secondaries := MergeSecondaries(static, discovered)

		zi := &ZoneNotifyInfo{Key: zk, Secondaries: secondaries}
		zi.PrepareNotifyOut(d.clock, d.cfg.InitialTimeout)

		if !zi.HasCurrentTarget() {
			continue
		}
		d.send(zi, key)
		d.admitted.Set(key, zi)
	}
}
