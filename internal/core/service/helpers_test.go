package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Wyydra/callstate/internal/adapter/driven/state/memory"
	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
	"github.com/benbjohnson/clock"
)

const (
	selfID  domain.UserID    = "u-self"
	otherID domain.UserID    = "u-other"
	ch1     domain.ChannelID = "ch1"
	ch2     domain.ChannelID = "ch2"
)

type fakeClient struct {
	channelID domain.ChannelID
	sessionID domain.SessionID

	actions []string
	reasons []error
}

func (c *fakeClient) ChannelID() domain.ChannelID { return c.channelID }
func (c *fakeClient) SessionID() domain.SessionID { return c.sessionID }

func (c *fakeClient) Disconnect(reason error) error {
	c.actions = append(c.actions, "disconnect")
	c.reasons = append(c.reasons, reason)
	return nil
}

func (c *fakeClient) Mute() error {
	c.actions = append(c.actions, "mute")
	return nil
}

func (c *fakeClient) UnshareScreen() error {
	c.actions = append(c.actions, "unshare_screen")
	return nil
}

func (c *fakeClient) UnraiseHand() error {
	c.actions = append(c.actions, "unraise_hand")
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	sounds []port.Sound
	stops  int
}

func (n *fakeNotifier) PlaySound(ctx context.Context, sound port.Sound) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sounds = append(n.sounds, sound)
	return nil
}

func (n *fakeNotifier) StopRinging(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stops++
	return nil
}

// fakeThreads reports follows on a channel. A non-nil release holds each
// follow until it is closed.
type fakeThreads struct {
	followed chan domain.ChannelID
	release  chan struct{}
}

func (f *fakeThreads) FollowThread(ctx context.Context, channelID domain.ChannelID, threadID string) error {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.followed <- channelID
	return nil
}

type fakeProfiles struct {
	profiles map[domain.UserID]domain.Profile
	err      error
}

func (f *fakeProfiles) GetProfilesByIDs(ctx context.Context, ids []domain.UserID) ([]domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// taskQueue stands in for the event loop.
type taskQueue chan func()

func (q taskQueue) Post(fn func()) { q <- fn }

type harness struct {
	t        *testing.T
	store    *memory.Store
	clock    *clock.Mock
	tasks    taskQueue
	timers   *Timers
	notifier *fakeNotifier
	threads  *fakeThreads
	d        *Dispatcher
}

func newHarness(t *testing.T, prefs domain.Preferences) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		store:    memory.NewStore(selfID, prefs),
		clock:    clock.NewMock(),
		tasks:    make(taskQueue, 64),
		notifier: &fakeNotifier{},
		threads:  &fakeThreads{followed: make(chan domain.ChannelID, 8)},
	}
	h.timers = NewTimers(h.clock, h.tasks)
	h.d = NewDispatcher(h.store, Gateways{
		Notifier: h.notifier,
		Threads:  h.threads,
	}, h.timers, DefaultTimeouts())
	return h
}

func (h *harness) dispatch(active port.CallClient, t domain.EventType, data any) {
	h.dispatchWithBroadcast(active, t, data, domain.Broadcast{})
}

func (h *harness) dispatchWithBroadcast(active port.CallClient, t domain.EventType, data any, bc domain.Broadcast) {
	h.t.Helper()
	ev, err := domain.NewEvent(t, data, bc)
	if err != nil {
		h.t.Fatalf("building %s event: %v", t, err)
	}
	h.d.Dispatch(context.Background(), active, ev)
}

// runNext runs the next posted task, waiting for timer goroutines.
func (h *harness) runNext() {
	h.t.Helper()
	select {
	case fn := <-h.tasks:
		fn()
	case <-time.After(2 * time.Second):
		h.t.Fatal("timed out waiting for a posted task")
	}
}

func (h *harness) expectNoTask() {
	h.t.Helper()
	select {
	case <-h.tasks:
		h.t.Fatal("unexpected posted task")
	case <-time.After(20 * time.Millisecond):
	}
}

// advance moves the clock and runs the n timer callbacks expected to fire.
func (h *harness) advance(d time.Duration, n int) {
	h.t.Helper()
	h.clock.Add(d)
	for i := 0; i < n; i++ {
		h.runNext()
	}
}

func (h *harness) expectFollow(want domain.ChannelID) {
	h.t.Helper()
	select {
	case got := <-h.threads.followed:
		if got != want {
			h.t.Errorf("followed thread of %s, want %s", got, want)
		}
	case <-time.After(2 * time.Second):
		h.t.Fatal("timed out waiting for thread follow")
	}
}

func (h *harness) expectNoFollow() {
	h.t.Helper()
	select {
	case got := <-h.threads.followed:
		h.t.Errorf("unexpected thread follow of %s", got)
	case <-time.After(20 * time.Millisecond):
	}
}

// join records a session directly in the store without side effects.
func (h *harness) join(channelID domain.ChannelID, userID domain.UserID, sessionID domain.SessionID) {
	h.store.Apply(domain.UserJoined{
		ChannelID:     channelID,
		UserID:        userID,
		SessionID:     sessionID,
		CurrentUserID: selfID,
	})
}

func (h *harness) startCall(active port.CallClient, channelID domain.ChannelID, callID domain.CallID) {
	h.t.Helper()
	h.dispatch(active, domain.EventCallStart, domain.CallStartData{
		ID:        callID,
		ChannelID: channelID,
		StartAt:   1000,
		OwnerID:   otherID,
		HostID:    otherID,
	})
}
