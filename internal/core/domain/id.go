package domain

import (
	"strings"

	"github.com/google/uuid"
)

type ChannelID string
type CallID string
type UserID string
type SessionID string

func (id ChannelID) String() string { return string(id) }
func (id CallID) String() string    { return string(id) }
func (id UserID) String() string    { return string(id) }
func (id SessionID) String() string { return string(id) }

func NewSessionID() SessionID {
	return SessionID(newID())
}

type CaptionID string

func NewCaptionID() CaptionID {
	return CaptionID(newID())
}

func (id CaptionID) String() string {
	return string(id)
}

type NotificationID string

func NewNotificationID() NotificationID {
	return NotificationID(newID())
}

func (id NotificationID) String() string {
	return string(id)
}

func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
