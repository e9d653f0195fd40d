package service

import (
	"context"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
)

// sessionToggle builds the mute, voice and screen handlers. Each records a
// flag for (channel, user, session); the last event wins.
func (d *Dispatcher) sessionToggle(kind domain.UpdateKind) HandlerFunc {
	return func(ctx context.Context, active port.CallClient, ev domain.Event) error {
		var data domain.SessionToggleData
		if err := ev.Decode(&data); err != nil {
			return err
		}
		d.store.Apply(domain.SessionToggled{
			Toggle:    kind,
			ChannelID: ev.ChannelID(data.ChannelID),
			UserID:    data.UserID,
			SessionID: data.SessionID,
		})
		return nil
	}
}

func (d *Dispatcher) handToggle(kind domain.UpdateKind) HandlerFunc {
	return func(ctx context.Context, active port.CallClient, ev domain.Event) error {
		var data domain.RaiseHandData
		if err := ev.Decode(&data); err != nil {
			return err
		}
		d.store.Apply(domain.SessionToggled{
			Toggle:     kind,
			ChannelID:  ev.ChannelID(data.ChannelID),
			UserID:     data.UserID,
			SessionID:  data.SessionID,
			RaisedHand: data.RaisedHand,
		})
		return nil
	}
}
