package service

import (
	"context"
	"sync"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
	"github.com/rs/zerolog/log"
)

const taskBacklog = 256

type HandleFunc func(ctx context.Context, active port.CallClient, ev domain.Event)

// Loop serializes event handling and timer continuations on one goroutine.
// The active call client is only read and written by that goroutine and is
// handed to each dispatch.
type Loop struct {
	events chan domain.Event
	wake   chan struct{}
	quit   chan struct{}
	done   chan struct{}

	mu    sync.Mutex
	tasks []func()

	active   port.CallClient
	stopOnce sync.Once
}

func NewLoop() *Loop {
	return &Loop{
		events: make(chan domain.Event, taskBacklog),
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (l *Loop) Submit(ev domain.Event) {
	select {
	case l.events <- ev:
	case <-l.quit:
	}
}

// Post queues fn to run on the loop. It never blocks, so handlers running on
// the loop may post too.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.quit:
		return
	default:
	}

	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// runTasks runs the tasks queued so far. Tasks they post wait for the next
// wake-up.
func (l *Loop) runTasks() {
	l.mu.Lock()
	batch := l.tasks
	l.tasks = nil
	l.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
}

func (l *Loop) pendingTasks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *Loop) Attach(c port.CallClient) {
	l.Post(func() {
		l.active = c
		log.Info().Str("channel_id", c.ChannelID().String()).Str("session_id", c.SessionID().String()).Msg("Call attached")
	})
}

// Detach clears the active call if it is still c. Safe to call from a
// handler.
func (l *Loop) Detach(c port.CallClient) {
	l.Post(func() {
		if l.active != c {
			return
		}
		l.active = nil
		log.Info().Str("channel_id", c.ChannelID().String()).Msg("Call detached")
	})
}

// Stop ends Run; wait on Done for it to return.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.quit) })
}

func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) Run(ctx context.Context, handle HandleFunc) {
	defer close(l.done)

	for {
		select {
		case <-l.quit:
			log.Info().Int("dropped_events", len(l.events)).Int("dropped_tasks", l.pendingTasks()).Msg("Stopping event loop")
			return

		case <-ctx.Done():
			log.Info().Msg("Event loop context done")
			return

		case ev := <-l.events:
			handle(ctx, l.active, ev)

		case <-l.wake:
			l.runTasks()
		}
	}
}
