package service

import (
	"context"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
)

// handleReaction only keeps reactions for the joined call. The expiry removes
// the entry equal to the one added; reactions carry no id of their own.
func (d *Dispatcher) handleReaction(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.UserReactionData
	if err := ev.Decode(&data); err != nil {
		return err
	}
	channelID := ev.ChannelID(data.ChannelID)
	if !d.resolver.InCall(active, channelID) {
		return nil
	}

	reaction := domain.Reaction{
		ChannelID:   channelID,
		UserID:      data.UserID,
		SessionID:   data.SessionID,
		Emoji:       data.Emoji,
		Timestamp:   data.Timestamp,
		DisplayName: d.resolver.DisplayName(channelID, data.UserID),
	}
	d.store.Apply(domain.ReactionAdded{Reaction: reaction})

	d.timers.Schedule(channelID, d.timeouts.Reaction, func() {
		d.store.Apply(domain.ReactionExpired{Reaction: reaction})
	})
	return nil
}

func (d *Dispatcher) handleCaption(ctx context.Context, active port.CallClient, ev domain.Event) error {
	var data domain.CaptionData
	if err := ev.Decode(&data); err != nil {
		return err
	}
	channelID := ev.ChannelID(data.ChannelID)
	if !d.resolver.InCall(active, channelID) {
		return nil
	}

	caption := domain.LiveCaption{
		CaptionID:   domain.NewCaptionID(),
		ChannelID:   channelID,
		UserID:      data.UserID,
		SessionID:   data.SessionID,
		Text:        data.Text,
		DisplayName: d.resolver.DisplayName(channelID, data.UserID),
	}
	d.store.Apply(domain.CaptionAdded{Caption: caption})

	d.timers.Schedule(channelID, d.timeouts.LiveCaption, func() {
		d.store.Apply(domain.CaptionExpired{
			ChannelID: channelID,
			SessionID: caption.SessionID,
			CaptionID: caption.CaptionID,
		})
	})
	return nil
}
