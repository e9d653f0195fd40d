package port

import "github.com/Wyydra/callstate/internal/core/domain"

// CallClient is the handle on the call this client is connected to. It is
// passed to every dispatch and is nil while no call is joined.
type CallClient interface {
	ChannelID() domain.ChannelID
	SessionID() domain.SessionID
	Disconnect(reason error) error
	Mute() error
	UnshareScreen() error
	UnraiseHand() error
}
