package service

import (
	"sync"
	"time"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/benbjohnson/clock"
)

// Poster runs fn on the event loop after the task currently executing.
type Poster interface {
	Post(fn func())
}

type TimerToken uint64

type pendingTimer struct {
	scope domain.ChannelID
	timer *clock.Timer
}

// Timers schedules delayed state transitions. Callbacks never run on the
// clock goroutine: they are posted to the event loop so they are ordered
// with event handling.
type Timers struct {
	clock clock.Clock
	loop  Poster

	mu      sync.Mutex
	next    TimerToken
	pending map[TimerToken]pendingTimer
}

func NewTimers(clk clock.Clock, loop Poster) *Timers {
	return &Timers{
		clock:   clk,
		loop:    loop,
		pending: make(map[TimerToken]pendingTimer),
	}
}

// Now returns the local receipt time in epoch milliseconds.
func (t *Timers) Now() int64 {
	return t.clock.Now().UnixMilli()
}

// Schedule runs fn after d unless the token is cancelled first, either
// directly or through CancelScope.
func (t *Timers) Schedule(scope domain.ChannelID, d time.Duration, fn func()) TimerToken {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	token := t.next
	timer := t.clock.AfterFunc(d, func() {
		if !t.take(token) {
			return
		}
		t.loop.Post(fn)
	})
	t.pending[token] = pendingTimer{scope: scope, timer: timer}
	return token
}

func (t *Timers) take(token TimerToken) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.pending[token]; !ok {
		return false
	}
	delete(t.pending, token)
	return true
}

func (t *Timers) Cancel(token TimerToken) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.pending[token]
	if !ok {
		return false
	}
	delete(t.pending, token)
	p.timer.Stop()
	return true
}

// CancelScope drops every pending timer scheduled for the channel and
// returns how many were dropped.
func (t *Timers) CancelScope(scope domain.ChannelID) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for token, p := range t.pending {
		if p.scope != scope {
			continue
		}
		delete(t.pending, token)
		p.timer.Stop()
		n++
	}
	return n
}

func (t *Timers) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Defer queues fn behind the current task without a delay.
func (t *Timers) Defer(fn func()) {
	t.loop.Post(fn)
}

func (t *Timers) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for token, p := range t.pending {
		p.timer.Stop()
		delete(t.pending, token)
	}
}
