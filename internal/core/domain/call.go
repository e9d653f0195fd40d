package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUserLeftChannel        = errors.New("user has left the channel")
	ErrUserRemovedFromChannel = errors.New("user was removed from the channel")
	ErrAlreadyInCall          = errors.New("already in a call")
)

type Call struct {
	ID                     CallID
	ChannelID              ChannelID
	StartAt                int64
	OwnerID                UserID
	HostID                 UserID
	HostChangeAt           int64
	ThreadID               string
	ScreenSharingSessionID SessionID
	Dismissed              map[UserID]bool
}

// Session is one user's connection to a call. A user reconnecting gets a new
// SessionID.
type Session struct {
	SessionID  SessionID
	UserID     UserID
	Unmuted    bool
	Voice      bool
	Screen     bool
	RaisedHand int64
}

type JobType string

const (
	JobTypeRecording  JobType = "recording"
	JobTypeCaptioning JobType = "captioning"
)

type JobState struct {
	Type    JobType `json:"type"`
	InitAt  int64   `json:"init_at"`
	StartAt int64   `json:"start_at"`
	EndAt   int64   `json:"end_at"`
	Err     string  `json:"err,omitempty"`
	ErrorAt int64   `json:"error_at,omitempty"`
}

type IncomingCall struct {
	ChannelID ChannelID
	CallID    CallID
	CallerID  UserID
	StartAt   int64
}

type Preferences struct {
	RingingEnabled bool
	JoinUserSound  bool
}

// CallSnapshot is the full call document sent with a call_state event.
type CallSnapshot struct {
	ID                     CallID            `json:"id"`
	StartAt                int64             `json:"start_at"`
	Sessions               []SessionSnapshot `json:"sessions"`
	ThreadID               string            `json:"thread_id"`
	ScreenSharingSessionID SessionID         `json:"screen_sharing_session_id"`
	OwnerID                UserID            `json:"owner_id"`
	HostID                 UserID            `json:"host_id"`
	Recording              *JobState         `json:"recording,omitempty"`
	LiveCaptions           *JobState         `json:"live_captions,omitempty"`
	DismissedNotification  map[UserID]bool   `json:"dismissed_notification,omitempty"`
}

type SessionSnapshot struct {
	SessionID  SessionID `json:"session_id"`
	UserID     UserID    `json:"user_id"`
	Unmuted    bool      `json:"unmuted"`
	RaisedHand int64     `json:"raised_hand"`
}

func ParseCallSnapshot(raw string) (CallSnapshot, error) {
	var snap CallSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return CallSnapshot{}, fmt.Errorf("parsing call state: %w", err)
	}
	if snap.ID == "" {
		return CallSnapshot{}, errors.New("parsing call state: missing call id")
	}
	return snap, nil
}

func (s CallSnapshot) UserIDs() []UserID {
	seen := make(map[UserID]bool, len(s.Sessions))
	ids := make([]UserID, 0, len(s.Sessions))
	for _, sess := range s.Sessions {
		if seen[sess.UserID] {
			continue
		}
		seen[sess.UserID] = true
		ids = append(ids, sess.UserID)
	}
	return ids
}
