package service

import (
	"context"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
	"github.com/rs/zerolog/log"
)

func (d *Dispatcher) handleUserJoined(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.UserJoinedData
	if err := ev.Decode(&data); err != nil {
		return err
	}
	channelID := ev.ChannelID(data.ChannelID)
	currentUserID := d.resolver.CurrentUserID()
	isSelf := data.UserID == currentUserID
	prefs := d.store.Preferences()

	if d.resolver.InCall(active, channelID) {
		switch {
		case isSelf:
			d.playSound(ctx, port.SoundJoinSelf)
		case prefs.JoinUserSound:
			d.playSound(ctx, port.SoundJoinUser)
		}
	}

	if prefs.RingingEnabled && isSelf {
		if call, ok := d.store.Call(channelID); ok {
			d.store.Apply(domain.IncomingCallRemoved{CallID: call.ID})
		}
		// Joining any call silences every incoming call, not only this one.
		if d.gw.Notifier != nil {
			if err := d.gw.Notifier.StopRinging(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to stop ringing")
			}
		}
	}

	d.store.Apply(domain.UserJoined{
		ChannelID:     channelID,
		UserID:        data.UserID,
		SessionID:     data.SessionID,
		CurrentUserID: currentUserID,
	})

	d.timers.Schedule(channelID, d.timeouts.JoinedUser, func() {
		d.store.Apply(domain.UserJoinedTimeout{ChannelID: channelID, UserID: data.UserID})
	})

	d.resolveProfiles(ctx, channelID, []domain.UserID{data.UserID})
	return nil
}

func (d *Dispatcher) handleUserLeft(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.UserLeftData
	if err := ev.Decode(&data); err != nil {
		return err
	}
	d.store.Apply(domain.UserLeft{
		ChannelID: ev.ChannelID(data.ChannelID),
		UserID:    data.UserID,
		SessionID: data.SessionID,
	})
	return nil
}

// handleUserRemoved disconnects when the current user is removed from the
// channel of the joined call. Leaving on one's own and being removed by
// someone else surface as different reasons.
func (d *Dispatcher) handleUserRemoved(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.UserRemovedData
	if err := decodeOptional(ev, &data); err != nil {
		return err
	}
	channelID := ev.ChannelID(data.ChannelID)
	removedID := data.UserID
	if removedID == "" {
		removedID = ev.Broadcast.UserID
	}

	if !d.resolver.IsCurrentUser(removedID) || !d.resolver.InCall(active, channelID) {
		return nil
	}

	reason := domain.ErrUserRemovedFromChannel
	if data.RemoverID == removedID {
		reason = domain.ErrUserLeftChannel
	}
	return active.Disconnect(reason)
}

func (d *Dispatcher) playSound(ctx context.Context, sound port.Sound) {
	if d.gw.Notifier == nil {
		return
	}
	if err := d.gw.Notifier.PlaySound(ctx, sound); err != nil {
		log.Error().Err(err).Str("sound", string(sound)).Msg("Failed to play sound")
	}
}
