package port

import "github.com/Wyydra/callstate/internal/core/domain"

// StateStore is the single writer entry point for call state. Apply must
// treat updates addressing missing entries as no-ops.
type StateStore interface {
	Apply(u domain.Update)

	CurrentUserID() domain.UserID
	Preferences() domain.Preferences

	Call(channelID domain.ChannelID) (domain.Call, bool)
	Calls() []domain.Call
	Sessions(channelID domain.ChannelID) []domain.Session
	JobState(slot domain.UpdateKind, callID string) (domain.JobState, bool)
	IncomingCalls() []domain.IncomingCall
	Profiles(channelID domain.ChannelID) map[domain.UserID]domain.Profile
	RecentlyJoined(channelID domain.ChannelID) []domain.UserID

	Reactions(channelID domain.ChannelID) []domain.Reaction
	Captions(channelID domain.ChannelID) []domain.LiveCaption
	HostNotifications(callID domain.CallID) []domain.HostControlNotification
}
