package port

import (
	"context"

	"github.com/Wyydra/callstate/internal/core/domain"
)

type Sound string

const (
	SoundJoinSelf Sound = "join_self"
	SoundJoinUser Sound = "join_user"
)

type Notifier interface {
	PlaySound(ctx context.Context, sound Sound) error
	StopRinging(ctx context.Context) error
}

type ThreadFollower interface {
	FollowThread(ctx context.Context, channelID domain.ChannelID, threadID string) error
}

type ProfileFetcher interface {
	GetProfilesByIDs(ctx context.Context, ids []domain.UserID) ([]domain.Profile, error)
}
