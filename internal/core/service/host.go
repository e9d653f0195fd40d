package service

import (
	"context"
	"fmt"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
	"github.com/rs/zerolog/log"
)

// handleHostChanged stamps the change with the local receipt time; the event
// carries none.
func (d *Dispatcher) handleHostChanged(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.HostChangedData
	if err := ev.Decode(&data); err != nil {
		return err
	}
	d.store.Apply(domain.HostChanged{
		ChannelID:    ev.ChannelID(data.ChannelID),
		HostID:       data.HostID,
		HostChangeAt: d.timers.Now(),
	})
	return nil
}

// handleJobState sets error_at on every receipt that carries an error, not
// only the first one. Unknown job types produce a KindNone update.
func (d *Dispatcher) handleJobState(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.JobStateData
	if err := ev.Decode(&data); err != nil {
		return err
	}
	state := data.JobState
	if state.Err != "" {
		state.ErrorAt = d.timers.Now()
	}

	slot := domain.JobSlot(state.Type)
	if slot == domain.KindNone {
		log.Warn().Str("job_type", string(state.Type)).Str("call_id", data.CallID).Msg("Unknown job type")
	}
	d.store.Apply(domain.JobStateSet{Slot: slot, CallID: data.CallID, State: &state})
	return nil
}

func (d *Dispatcher) handleDismissed(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.DismissedNotificationData
	if err := ev.Decode(&data); err != nil {
		return err
	}
	// Only our own dismissals are expected here.
	if !d.resolver.IsCurrentUser(data.UserID) {
		return nil
	}
	d.store.Apply(domain.IncomingCallRemoved{CallID: data.CallID})
	d.store.Apply(domain.CallDismissed{CallID: data.CallID})
	return nil
}

// hostControl builds handlers that apply a host command to this client's own
// session. Events for another session of the same user are ignored.
func (d *Dispatcher) hostControl(action func(port.CallClient) error) HandlerFunc {
	return func(ctx context.Context, active port.CallClient, ev domain.Event) error {
		var data domain.HostControlData
		if err := ev.Decode(&data); err != nil {
			return err
		}
		if !d.resolver.OwnsSession(active, ev.ChannelID(data.ChannelID), data.SessionID) {
			return nil
		}
		return action(active)
	}
}

func (d *Dispatcher) handleHostLowerHand(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.HostControlData
	if err := ev.Decode(&data); err != nil {
		return err
	}
	channelID := ev.ChannelID(data.ChannelID)
	if !d.resolver.OwnsSession(active, channelID, data.SessionID) {
		return nil
	}

	if err := active.UnraiseHand(); err != nil {
		return fmt.Errorf("unraise hand: %w", err)
	}
	d.store.Apply(domain.SessionToggled{
		Toggle:    domain.KindUserLowerHand,
		ChannelID: channelID,
		UserID:    d.resolver.CurrentUserID(),
		SessionID: data.SessionID,
	})

	notification := domain.HostControlNotification{
		Type:           domain.HostControlLowerHand,
		CallID:         data.CallID,
		NotificationID: domain.NewNotificationID(),
		DisplayName:    d.resolver.DisplayName(channelID, data.HostID),
	}

	// Queued behind the current task so the lowered hand is in the store
	// before the banner shows up; both never render together. A call_end
	// handled in between leaves nothing to show.
	d.timers.Defer(func() {
		if call, ok := d.store.Call(channelID); !ok || call.ID != data.CallID {
			return
		}
		d.store.Apply(domain.HostNotificationAdded{Notification: notification})
		d.timers.Schedule(channelID, d.timeouts.HostControlNotification, func() {
			d.store.Apply(domain.HostNotificationExpired{
				CallID:         notification.CallID,
				NotificationID: notification.NotificationID,
			})
		})
	})
	return nil
}
