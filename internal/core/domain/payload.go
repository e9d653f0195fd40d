package domain

// Wire payloads. Field names follow the server, which is not consistent
// between events (channelID vs channel_id, userID vs user_id).

type CallStartData struct {
	ID        CallID    `json:"id"`
	ChannelID ChannelID `json:"channelID"`
	StartAt   int64     `json:"start_at"`
	ThreadID  string    `json:"thread_id"`
	OwnerID   UserID    `json:"owner_id"`
	HostID    UserID    `json:"host_id"`
}

type ChannelData struct {
	ChannelID ChannelID `json:"channelID"`
}

type CallStateData struct {
	ChannelID ChannelID `json:"channel_id"`
	Call      string    `json:"call"`
}

type UserJoinedData struct {
	ChannelID ChannelID `json:"channelID"`
	UserID    UserID    `json:"user_id"`
	SessionID SessionID `json:"session_id"`
}

type UserLeftData struct {
	ChannelID ChannelID `json:"channelID"`
	UserID    UserID    `json:"user_id"`
	SessionID SessionID `json:"session_id"`
}

// SessionToggleData is shared by the mute, voice and screen events.
type SessionToggleData struct {
	ChannelID ChannelID `json:"channelID"`
	UserID    UserID    `json:"userID"`
	SessionID SessionID `json:"session_id"`
}

type RaiseHandData struct {
	ChannelID  ChannelID `json:"channelID"`
	UserID     UserID    `json:"userID"`
	SessionID  SessionID `json:"session_id"`
	RaisedHand int64     `json:"raised_hand"`
}

type Emoji struct {
	Name    string `json:"name"`
	Skin    string `json:"skin,omitempty"`
	Unified string `json:"unified"`
	Literal string `json:"literal,omitempty"`
}

type UserReactionData struct {
	ChannelID ChannelID `json:"channelID"`
	UserID    UserID    `json:"user_id"`
	SessionID SessionID `json:"session_id"`
	Emoji     Emoji     `json:"emoji"`
	Timestamp int64     `json:"timestamp"`
}

type HostChangedData struct {
	ChannelID ChannelID `json:"channelID"`
	HostID    UserID    `json:"hostID"`
}

type JobStateData struct {
	CallID   string   `json:"callID"`
	JobState JobState `json:"jobState"`
}

type DismissedNotificationData struct {
	UserID UserID `json:"userID"`
	CallID CallID `json:"callID"`
}

type UserRemovedData struct {
	ChannelID ChannelID `json:"channel_id"`
	UserID    UserID    `json:"user_id"`
	RemoverID UserID    `json:"remover_id"`
}

type CaptionData struct {
	ChannelID ChannelID `json:"channel_id"`
	UserID    UserID    `json:"user_id"`
	SessionID SessionID `json:"session_id"`
	Text      string    `json:"text"`
}

type HostControlData struct {
	CallID    CallID    `json:"call_id"`
	ChannelID ChannelID `json:"channel_id"`
	SessionID SessionID `json:"session_id"`
	HostID    UserID    `json:"host_id"`
}
