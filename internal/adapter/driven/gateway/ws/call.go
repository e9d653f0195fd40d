package ws

import (
	"sync"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
	"github.com/rs/zerolog/log"
)

const actionPrefix = "custom_com.mattermost.calls_"

const (
	ActionJoin        = actionPrefix + "join"
	ActionLeave       = actionPrefix + "leave"
	ActionMute        = actionPrefix + "mute"
	ActionScreenOff   = actionPrefix + "screen_off"
	ActionUnraiseHand = actionPrefix + "unraise_hand"
)

type Sender interface {
	Send(action string, data any) error
}

// Attacher hands the joined call to the event loop.
type Attacher interface {
	Attach(c port.CallClient)
	Detach(c port.CallClient)
}

// CallSession implements port.CallClient over the server websocket.
type CallSession struct {
	conn      Sender
	channelID domain.ChannelID
	sessionID domain.SessionID
	onClose   func(*CallSession, error)

	mu     sync.Mutex
	closed bool
	reason error
}

func (s *CallSession) ChannelID() domain.ChannelID { return s.channelID }
func (s *CallSession) SessionID() domain.SessionID { return s.sessionID }

func (s *CallSession) Mute() error {
	return s.send(ActionMute)
}

func (s *CallSession) UnshareScreen() error {
	return s.send(ActionScreenOff)
}

func (s *CallSession) UnraiseHand() error {
	return s.send(ActionUnraiseHand)
}

// Disconnect leaves the call once. reason is nil for a plain hang-up.
func (s *CallSession) Disconnect(reason error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.reason = reason
	s.mu.Unlock()

	l := log.With().Str("channel_id", s.channelID.String()).Str("session_id", s.sessionID.String()).Logger()
	if reason != nil {
		l.Warn().Err(reason).Msg("Disconnecting from call")
	} else {
		l.Info().Msg("Disconnecting from call")
	}

	err := s.conn.Send(ActionLeave, nil)
	if s.onClose != nil {
		s.onClose(s, reason)
	}
	return err
}

func (s *CallSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Reason is the disconnect reason, nil for a plain hang-up.
func (s *CallSession) Reason() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

func (s *CallSession) send(name string) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return s.conn.Send(name, nil)
}

// Calls tracks the one call this client may be joined to.
type Calls struct {
	conn Sender
	loop Attacher

	mu      sync.Mutex
	current *CallSession
}

func NewCalls(conn Sender, loop Attacher) *Calls {
	return &Calls{conn: conn, loop: loop}
}

func (c *Calls) Join(channelID domain.ChannelID) (port.CallClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		return nil, domain.ErrAlreadyInCall
	}

	if err := c.conn.Send(ActionJoin, map[string]string{"channelID": channelID.String()}); err != nil {
		return nil, err
	}

	session := &CallSession{
		conn:      c.conn,
		channelID: channelID,
		sessionID: domain.NewSessionID(),
		onClose:   c.release,
	}
	c.current = session
	c.loop.Attach(session)
	return session, nil
}

// Leave hangs up the current call. It is a no-op when no call is joined.
func (c *Calls) Leave() error {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	if current == nil {
		return nil
	}
	return current.Disconnect(nil)
}

func (c *Calls) Current() (*CallSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.current != nil
}

func (c *Calls) release(s *CallSession, reason error) {
	c.mu.Lock()
	if c.current == s {
		c.current = nil
	}
	c.mu.Unlock()
	c.loop.Detach(s)
}
