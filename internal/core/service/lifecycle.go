package service

import (
	"context"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
	"github.com/rs/zerolog/log"
)

func (d *Dispatcher) handleCallStart(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.CallStartData
	if err := ev.Decode(&data); err != nil {
		return err
	}
	channelID := ev.ChannelID(data.ChannelID)

	// A new call has no job history; drop whatever the previous call left.
	d.store.Apply(domain.JobStateSet{Slot: domain.KindRecordingState, CallID: string(channelID)})
	d.store.Apply(domain.JobStateSet{Slot: domain.KindLiveCaptionsState, CallID: string(channelID)})

	d.store.Apply(domain.CallStarted{Call: domain.Call{
		ID:        data.ID,
		ChannelID: channelID,
		StartAt:   data.StartAt,
		OwnerID:   data.OwnerID,
		HostID:    data.HostID,
		ThreadID:  data.ThreadID,
	}})
	d.store.Apply(domain.HostChanged{
		ChannelID:    channelID,
		HostID:       data.HostID,
		HostChangeAt: data.StartAt,
	})

	if d.resolver.InCall(active, channelID) {
		d.followThread(ctx, channelID, data.ThreadID)
		return nil
	}

	if d.store.Preferences().RingingEnabled {
		d.store.Apply(domain.IncomingCallAdded{Call: domain.IncomingCall{
			ChannelID: channelID,
			CallID:    data.ID,
			CallerID:  data.OwnerID,
			StartAt:   data.StartAt,
		}})
	}
	return nil
}

func (d *Dispatcher) handleCallEnd(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.ChannelData
	if err := decodeOptional(ev, &data); err != nil {
		return err
	}
	channelID := ev.ChannelID(data.ChannelID)

	if d.resolver.InCall(active, channelID) {
		if err := active.Disconnect(nil); err != nil {
			log.Error().Err(err).Str("channel_id", channelID.String()).Msg("Failed to disconnect from ended call")
		}
	}

	call, hadCall := d.store.Call(channelID)
	d.store.Apply(domain.CallEnded{ChannelID: channelID})
	if n := d.timers.CancelScope(channelID); n > 0 {
		log.Debug().Str("channel_id", channelID.String()).Int("timers", n).Msg("Cancelled timers of ended call")
	}

	if hadCall && d.store.Preferences().RingingEnabled {
		d.store.Apply(domain.IncomingCallRemoved{CallID: call.ID})
	}
	return nil
}

// handleCallState replaces the call wholesale. A snapshot that does not parse
// is dropped and the previous state kept.
func (d *Dispatcher) handleCallState(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.CallStateData
	if err := ev.Decode(&data); err != nil {
		return err
	}
	snap, err := domain.ParseCallSnapshot(data.Call)
	if err != nil {
		return err
	}
	channelID := ev.ChannelID(data.ChannelID)

	d.store.Apply(domain.CallStateLoaded{ChannelID: channelID, Snapshot: snap})
	d.resolveProfiles(ctx, channelID, snap.UserIDs())
	return nil
}

// followThread runs off the loop; a failure is only logged.
func (d *Dispatcher) followThread(ctx context.Context, channelID domain.ChannelID, threadID string) {
	if d.gw.Threads == nil {
		return
	}
	go func() {
		if err := d.gw.Threads.FollowThread(ctx, channelID, threadID); err != nil {
			log.Error().Err(err).Str("channel_id", channelID.String()).Str("thread_id", threadID).Msg("Failed to follow call thread")
		}
	}()
}
