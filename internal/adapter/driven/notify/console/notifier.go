package console

import (
	"context"
	"sync"

	"github.com/Wyydra/callstate/internal/core/port"
	"github.com/rs/zerolog"
)

// Notifier reports sounds and ringing through the logger instead of an audio
// device.
type Notifier struct {
	logger zerolog.Logger

	mu     sync.Mutex
	played map[port.Sound]int
	stops  int
}

func NewNotifier(logger zerolog.Logger) *Notifier {
	return &Notifier{
		logger: logger.With().Str("component", "notifier").Logger(),
		played: make(map[port.Sound]int),
	}
}

func (n *Notifier) PlaySound(ctx context.Context, sound port.Sound) error {
	n.mu.Lock()
	n.played[sound]++
	n.mu.Unlock()

	n.logger.Info().Str("sound", string(sound)).Msg("Playing sound")
	return nil
}

func (n *Notifier) StopRinging(ctx context.Context) error {
	n.mu.Lock()
	n.stops++
	n.mu.Unlock()

	n.logger.Info().Msg("Stopped ringing")
	return nil
}

// Played returns how many times sound was played.
func (n *Notifier) Played(sound port.Sound) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.played[sound]
}

func (n *Notifier) RingingStops() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stops
}
