package ws

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type EventReader interface {
	ReadEvent() (domain.Event, error)
}

type EventSink interface {
	Submit(ev domain.Event)
}

// Listener pumps server events into the event loop until the connection
// closes. Reconnecting is left to the caller.
type Listener struct {
	conn EventReader
	sink EventSink
}

func NewListener(conn EventReader, sink EventSink) *Listener {
	return &Listener{conn: conn, sink: sink}
}

func (l *Listener) Run(ctx context.Context) error {
	for {
		ev, err := l.conn.ReadEvent()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info().Msg("Server closed the connection")
				return nil
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Warn().Err(err).Msg("Dropping malformed event")
				continue
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				log.Error().Err(err).Int("code", closeErr.Code).Msg("Unexpected close error")
			}
			return err
		}
		if ev.Type == "" {
			// Replies to our own actions come back without an event name.
			continue
		}
		log.Debug().Str("event", string(ev.Type)).Int64("seq", ev.Seq).Msg("Event received")
		l.sink.Submit(ev)
	}
}
