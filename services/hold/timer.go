package hold

import (
	"sync"
	"time"

	"festivo/models"
	"festivo/utils"
)

// TimerEventKind distinguishes countdown ticks from terminal signals.
type TimerEventKind string

const (
	EventTick    TimerEventKind = "tick"
	EventExpire  TimerEventKind = "expire"
	EventRelease TimerEventKind = "release"
)

// TimerEvent is one countdown update for a held service.
type TimerEvent struct {
	Kind      TimerEventKind `json:"kind"`
	Remaining int            `json:"remaining"` // whole seconds until expiry
}

// Subscription is one observer's view of a hold countdown. The channel is
// closed after the terminal event (expire or release) is delivered.
type Subscription struct {
	HoldID string
	C      <-chan TimerEvent

	c      chan TimerEvent
	closed bool
}

// HoldSource lets the timer read current hold state without owning it.
type HoldSource interface {
	GetHold(holdID string) *models.SoftHold
}

// finishedRetention bounds how long a terminal event stays replayable for
// late subscribers. Matches the manager's inactive-hold retention so the two
// answer consistently about a recently finished hold.
const finishedRetention = 10 * time.Minute

// finishedMark records which terminal event a hold ended with and when.
type finishedMark struct {
	kind TimerEventKind
	at   time.Time
}

// ReservationTimer drives per-second countdowns for hold observers. Any
// number of observers may subscribe to the same hold and may re-subscribe
// after a remount; the terminal expire signal fires once per hold id
// regardless. An explicit release stops the countdown without an expire.
type ReservationTimer struct {
	mu       sync.Mutex
	subs     map[string][]*Subscription
	finished map[string]finishedMark // terminal events, pruned after finishedRetention

	source   HoldSource
	clock    utils.Clock
	stopOnce sync.Once
	done     chan struct{}
}

// TickInterval is the countdown granularity. One second is enough; there is
// no sub-second precision requirement.
const TickInterval = time.Second

// NewReservationTimer constructs the timer and starts its tick loop.
// Interval is configurable for tests; pass 0 for the default.
func NewReservationTimer(source HoldSource, clock utils.Clock, interval time.Duration) *ReservationTimer {
	if clock == nil {
		clock = utils.SystemClock()
	}
	if interval <= 0 {
		interval = TickInterval
	}
	t := &ReservationTimer{
		subs:     make(map[string][]*Subscription),
		finished: make(map[string]finishedMark),
		source:   source,
		clock:    clock,
		done:     make(chan struct{}),
	}
	go t.tickLoop(interval)
	return t
}

// Subscribe attaches an observer to a hold's countdown. Subscribing to a
// hold that already finished immediately yields the terminal event so a
// remounted observer still learns the outcome.
func (t *ReservationTimer) Subscribe(holdID string) *Subscription {
	sub := &Subscription{HoldID: holdID, c: make(chan TimerEvent, 8)}
	sub.C = sub.c

	t.mu.Lock()
	if mark, ok := t.finished[holdID]; ok {
		t.mu.Unlock()
		sub.c <- TimerEvent{Kind: mark.kind}
		close(sub.c)
		sub.closed = true
		return sub
	}
	t.subs[holdID] = append(t.subs[holdID], sub)
	t.mu.Unlock()
	return sub
}

// Unsubscribe detaches an observer without affecting the hold or other
// observers.
func (t *ReservationTimer) Unsubscribe(sub *Subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeLocked(sub)
}

// HoldExpired delivers the single-fire expire signal for a hold.
func (t *ReservationTimer) HoldExpired(holdID string) {
	t.finish(holdID, EventExpire)
}

// HoldReleased stops the countdown cleanly; no expire fires afterwards.
func (t *ReservationTimer) HoldReleased(holdID string) {
	t.finish(holdID, EventRelease)
}

// Stop terminates the tick loop and closes all subscriptions.
func (t *ReservationTimer) Stop() {
	t.stopOnce.Do(func() { close(t.done) })

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, subs := range t.subs {
		for _, sub := range subs {
			if !sub.closed {
				close(sub.c)
				sub.closed = true
			}
		}
	}
	t.subs = make(map[string][]*Subscription)
}

func (t *ReservationTimer) tickLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.tick()
		case <-t.done:
			return
		}
	}
}

// tick pushes a countdown update to every observer. A hold observed past
// its deadline expires here too, so observers never outlive the hold even
// if the manager's sweep has not reached it yet.
func (t *ReservationTimer) tick() {
	now := t.clock.Now()

	t.mu.Lock()
	for id, mark := range t.finished {
		if now.Sub(mark.at) > finishedRetention {
			delete(t.finished, id)
		}
	}
	ids := make([]string, 0, len(t.subs))
	for id := range t.subs {
		ids = append(ids, id)
	}
	t.mu.Unlock()
	for _, id := range ids {
		h := t.source.GetHold(id)
		if h == nil {
			t.finish(id, EventRelease)
			continue
		}
		if !h.IsActive {
			// Manager already deactivated it; its notification may still be
			// in flight. Treat a passed deadline as expiry, anything else as
			// release.
			if !h.ExpiresAt.After(now) {
				t.finish(id, EventExpire)
			} else {
				t.finish(id, EventRelease)
			}
			continue
		}
		remaining := int(h.ExpiresAt.Sub(now) / time.Second)
		if remaining <= 0 {
			t.finish(id, EventExpire)
			continue
		}
		t.broadcast(id, TimerEvent{Kind: EventTick, Remaining: remaining})
	}
}

// finish emits the terminal event for a hold exactly once and closes its
// subscriptions.
func (t *ReservationTimer) finish(holdID string, kind TimerEventKind) {
	t.mu.Lock()
	if _, done := t.finished[holdID]; done {
		t.mu.Unlock()
		return
	}
	t.finished[holdID] = finishedMark{kind: kind, at: t.clock.Now()}
	subs := t.subs[holdID]
	delete(t.subs, holdID)
	for _, sub := range subs {
		if sub.closed {
			continue
		}
		select {
		case sub.c <- TimerEvent{Kind: kind}:
		default:
		}
		close(sub.c)
		sub.closed = true
	}
	t.mu.Unlock()
}

// broadcast sends without blocking; a slow observer drops the tick rather
// than stalling the loop. Sends stay under the mutex so a concurrent finish
// cannot close a channel mid-send.
func (t *ReservationTimer) broadcast(holdID string, ev TimerEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.subs[holdID] {
		if sub.closed {
			continue
		}
		select {
		case sub.c <- ev:
		default:
		}
	}
}

func (t *ReservationTimer) removeLocked(target *Subscription) {
	subs := t.subs[target.HoldID]
	for i, sub := range subs {
		if sub == target {
			t.subs[target.HoldID] = append(subs[:i], subs[i+1:]...)
			if !sub.closed {
				close(sub.c)
				sub.closed = true
			}
			break
		}
	}
	if len(t.subs[target.HoldID]) == 0 {
		delete(t.subs, target.HoldID)
	}
}
