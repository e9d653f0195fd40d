package service

import (
	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
)

// Resolver answers identity questions against the store and the active call.
type Resolver struct {
	store port.StateStore
}

func NewResolver(store port.StateStore) Resolver {
	return Resolver{store: store}
}

func (r Resolver) CurrentUserID() domain.UserID {
	return r.store.CurrentUserID()
}

func (r Resolver) IsCurrentUser(userID domain.UserID) bool {
	return userID != "" && userID == r.store.CurrentUserID()
}

// InCall reports whether channelID is the call this client has joined.
func (r Resolver) InCall(active port.CallClient, channelID domain.ChannelID) bool {
	return active != nil && channelID != "" && active.ChannelID() == channelID
}

// OwnsSession narrows InCall to the session this client holds, so other tabs
// or devices of the same user do not match.
func (r Resolver) OwnsSession(active port.CallClient, channelID domain.ChannelID, sessionID domain.SessionID) bool {
	return r.InCall(active, channelID) && sessionID != "" && active.SessionID() == sessionID
}

func (r Resolver) DisplayName(channelID domain.ChannelID, userID domain.UserID) string {
	p, ok := r.store.Profiles(channelID)[userID]
	if !ok {
		return ""
	}
	return domain.DisplayName(&p)
}
