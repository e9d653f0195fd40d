package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var ErrClosed = errors.New("websocket connection closed")

type action struct {
	Action string `json:"action"`
	Seq    int64  `json:"seq"`
	Data   any    `json:"data,omitempty"`
}

// Conn is the server websocket. One goroutine reads events, writes from any
// goroutine are serialized.
type Conn struct {
	conn *websocket.Conn

	mu     sync.Mutex
	seq    int64
	closed bool
}

func Dial(ctx context.Context, url, token string) (*Conn, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dialing %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return NewConn(conn), nil
}

func NewConn(conn *websocket.Conn) *Conn {
	return &Conn{conn: conn}
}

func (c *Conn) Send(name string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.seq++
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(action{Action: name, Seq: c.seq, Data: data})
}

func (c *Conn) ReadEvent() (domain.Event, error) {
	var ev domain.Event
	if err := c.conn.ReadJSON(&ev); err != nil {
		return domain.Event{}, err
	}
	return ev, nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return c.conn.Close()
}
