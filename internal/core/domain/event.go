package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

type EventType string

const eventPrefix = "custom_com.mattermost.calls_"

const (
	EventCallStart                 EventType = eventPrefix + "call_start"
	EventCallEnd                   EventType = eventPrefix + "call_end"
	EventCallState                 EventType = eventPrefix + "call_state"
	EventUserJoined                EventType = eventPrefix + "user_joined"
	EventUserLeft                  EventType = eventPrefix + "user_left"
	EventUserMuted                 EventType = eventPrefix + "user_muted"
	EventUserUnmuted               EventType = eventPrefix + "user_unmuted"
	EventUserVoiceOn               EventType = eventPrefix + "user_voice_on"
	EventUserVoiceOff              EventType = eventPrefix + "user_voice_off"
	EventUserScreenOn              EventType = eventPrefix + "user_screen_on"
	EventUserScreenOff             EventType = eventPrefix + "user_screen_off"
	EventUserRaiseHand             EventType = eventPrefix + "user_raise_hand"
	EventUserUnraiseHand           EventType = eventPrefix + "user_unraise_hand"
	EventUserReacted               EventType = eventPrefix + "user_reacted"
	EventCallHostChanged           EventType = eventPrefix + "call_host_changed"
	EventCallJobState              EventType = eventPrefix + "call_job_state"
	EventUserDismissedNotification EventType = eventPrefix + "user_dismissed_notification"
	EventCaption                   EventType = eventPrefix + "caption"
	EventHostMute                  EventType = eventPrefix + "host_mute"
	EventHostScreenOff             EventType = eventPrefix + "host_screen_off"
	EventHostLowerHand             EventType = eventPrefix + "host_lower_hand"

	// Core server event, not scoped to the calls plugin.
	EventUserRemoved EventType = "user_removed"
)

var ErrEmptyPayload = errors.New("event has no data")

type Broadcast struct {
	ChannelID ChannelID `json:"channel_id"`
	UserID    UserID    `json:"user_id"`
	TeamID    string    `json:"team_id"`
}

// Event is a single push message as framed by the server websocket.
type Event struct {
	Type      EventType       `json:"event"`
	Data      json.RawMessage `json:"data"`
	Broadcast Broadcast       `json:"broadcast"`
	Seq       int64           `json:"seq"`
}

// ChannelID prefers the id carried in the payload and falls back to the
// broadcast scope. Both may be empty.
func (e Event) ChannelID(explicit ChannelID) ChannelID {
	if explicit != "" {
		return explicit
	}
	return e.Broadcast.ChannelID
}

func (e Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return ErrEmptyPayload
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", e.Type, err)
	}
	return nil
}

func NewEvent(t EventType, data any, bc Broadcast) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: t, Data: raw, Broadcast: bc}, nil
}
