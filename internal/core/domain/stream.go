package domain

import "strings"

// Reaction entries are matched by value on expiry, so two identical
// reactions from one session expire one at a time.
type Reaction struct {
	ChannelID   ChannelID
	UserID      UserID
	SessionID   SessionID
	Emoji       Emoji
	Timestamp   int64
	DisplayName string
}

type LiveCaption struct {
	CaptionID   CaptionID
	ChannelID   ChannelID
	UserID      UserID
	SessionID   SessionID
	Text        string
	DisplayName string
}

type HostControlType string

const (
	HostControlLowerHand HostControlType = "lower_hand"
)

type HostControlNotification struct {
	Type           HostControlType
	CallID         CallID
	NotificationID NotificationID
	DisplayName    string
}

type Profile struct {
	ID        UserID `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Nickname  string `json:"nickname"`
}

// DisplayName returns "" for an unknown profile.
func DisplayName(p *Profile) string {
	if p == nil {
		return ""
	}
	if full := strings.TrimSpace(p.FirstName + " " + p.LastName); full != "" {
		return full
	}
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Username
}
