package domain

// UpdateKind names a state transition. Handlers describe changes as Update
// values and the store applies them in one place.
type UpdateKind string

const (
	KindNone UpdateKind = ""

	KindCallState       UpdateKind = "call_state"
	KindCallEnd         UpdateKind = "call_end"
	KindCallStateLoaded UpdateKind = "call_state_loaded"
	KindCallHost        UpdateKind = "call_host"

	KindRecordingState    UpdateKind = "recording_state"
	KindLiveCaptionsState UpdateKind = "live_captions_state"

	KindUserJoined        UpdateKind = "user_joined"
	KindUserJoinedTimeout UpdateKind = "user_joined_timeout"
	KindProfilesJoined    UpdateKind = "profiles_joined"
	KindUserLeft          UpdateKind = "user_left"

	KindUserMuted     UpdateKind = "user_muted"
	KindUserUnmuted   UpdateKind = "user_unmuted"
	KindUserVoiceOn   UpdateKind = "user_voice_on"
	KindUserVoiceOff  UpdateKind = "user_voice_off"
	KindUserScreenOn  UpdateKind = "user_screen_on"
	KindUserScreenOff UpdateKind = "user_screen_off"
	KindUserRaiseHand UpdateKind = "user_raise_hand"
	KindUserLowerHand UpdateKind = "user_lower_hand"

	KindUserReacted        UpdateKind = "user_reacted"
	KindUserReactedTimeout UpdateKind = "user_reacted_timeout"
	KindLiveCaption        UpdateKind = "live_caption"
	KindLiveCaptionTimeout UpdateKind = "live_caption_timeout"

	KindHostControlNotification        UpdateKind = "host_control_notification"
	KindHostControlNotificationTimeout UpdateKind = "host_control_notification_timeout"

	KindIncomingCall        UpdateKind = "incoming_call"
	KindIncomingCallRemoved UpdateKind = "incoming_call_removed"
	KindDismissCall         UpdateKind = "dismiss_call"
)

type Update interface {
	Kind() UpdateKind
}

type CallStarted struct {
	Call Call
}

func (CallStarted) Kind() UpdateKind { return KindCallState }

type CallEnded struct {
	ChannelID ChannelID
}

func (CallEnded) Kind() UpdateKind { return KindCallEnd }

type CallStateLoaded struct {
	ChannelID ChannelID
	Snapshot  CallSnapshot
}

func (CallStateLoaded) Kind() UpdateKind { return KindCallStateLoaded }

type HostChanged struct {
	ChannelID    ChannelID
	HostID       UserID
	HostChangeAt int64
}

func (HostChanged) Kind() UpdateKind { return KindCallHost }

// JobStateSet targets the recording or live captions slot depending on Slot.
// A nil State clears the slot.
type JobStateSet struct {
	Slot   UpdateKind
	CallID string
	State  *JobState
}

func (u JobStateSet) Kind() UpdateKind { return u.Slot }

// JobSlot maps a job type to its state slot. Unknown types map to KindNone.
func JobSlot(t JobType) UpdateKind {
	switch t {
	case JobTypeRecording:
		return KindRecordingState
	case JobTypeCaptioning:
		return KindLiveCaptionsState
	default:
		return KindNone
	}
}

type UserJoined struct {
	ChannelID     ChannelID
	UserID        UserID
	SessionID     SessionID
	CurrentUserID UserID
}

func (UserJoined) Kind() UpdateKind { return KindUserJoined }

type UserJoinedTimeout struct {
	ChannelID ChannelID
	UserID    UserID
}

func (UserJoinedTimeout) Kind() UpdateKind { return KindUserJoinedTimeout }

type ProfilesJoined struct {
	ChannelID ChannelID
	Profiles  []Profile
}

func (ProfilesJoined) Kind() UpdateKind { return KindProfilesJoined }

type UserLeft struct {
	ChannelID ChannelID
	UserID    UserID
	SessionID SessionID
}

func (UserLeft) Kind() UpdateKind { return KindUserLeft }

// SessionToggled carries one of the mute, voice, screen or hand kinds.
type SessionToggled struct {
	Toggle     UpdateKind
	ChannelID  ChannelID
	UserID     UserID
	SessionID  SessionID
	RaisedHand int64
}

func (u SessionToggled) Kind() UpdateKind { return u.Toggle }

type ReactionAdded struct {
	Reaction Reaction
}

func (ReactionAdded) Kind() UpdateKind { return KindUserReacted }

type ReactionExpired struct {
	Reaction Reaction
}

func (ReactionExpired) Kind() UpdateKind { return KindUserReactedTimeout }

type CaptionAdded struct {
	Caption LiveCaption
}

func (CaptionAdded) Kind() UpdateKind { return KindLiveCaption }

type CaptionExpired struct {
	ChannelID ChannelID
	SessionID SessionID
	CaptionID CaptionID
}

func (CaptionExpired) Kind() UpdateKind { return KindLiveCaptionTimeout }

type HostNotificationAdded struct {
	Notification HostControlNotification
}

func (HostNotificationAdded) Kind() UpdateKind { return KindHostControlNotification }

type HostNotificationExpired struct {
	CallID         CallID
	NotificationID NotificationID
}

func (HostNotificationExpired) Kind() UpdateKind { return KindHostControlNotificationTimeout }

type IncomingCallAdded struct {
	Call IncomingCall
}

func (IncomingCallAdded) Kind() UpdateKind { return KindIncomingCall }

type IncomingCallRemoved struct {
	CallID CallID
}

func (IncomingCallRemoved) Kind() UpdateKind { return KindIncomingCallRemoved }

type CallDismissed struct {
	CallID CallID
}

func (CallDismissed) Kind() UpdateKind { return KindDismissCall }
