package service

import (
	"context"
	"errors"
	"time"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type HandlerFunc func(ctx context.Context, active port.CallClient, ev domain.Event) error

type Timeouts struct {
	JoinedUser              time.Duration
	Reaction                time.Duration
	LiveCaption             time.Duration
	HostControlNotification time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		JoinedUser:              5 * time.Second,
		Reaction:                10 * time.Second,
		LiveCaption:             5 * time.Second,
		HostControlNotification: 4 * time.Second,
	}
}

type Gateways struct {
	Notifier port.Notifier
	Threads  port.ThreadFollower
	Profiles port.ProfileFetcher
}

type Dispatcher struct {
	store    port.StateStore
	gw       Gateways
	timers   *Timers
	timeouts Timeouts
	resolver Resolver
	handlers map[domain.EventType]HandlerFunc
}

func NewDispatcher(store port.StateStore, gw Gateways, timers *Timers, timeouts Timeouts) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		gw:       gw,
		timers:   timers,
		timeouts: timeouts,
		resolver: NewResolver(store),
	}

	d.handlers = map[domain.EventType]HandlerFunc{
		domain.EventCallStart:   d.handleCallStart,
		domain.EventCallEnd:     d.handleCallEnd,
		domain.EventCallState:   d.handleCallState,
		domain.EventUserJoined:  d.handleUserJoined,
		domain.EventUserLeft:    d.handleUserLeft,
		domain.EventUserRemoved: d.handleUserRemoved,

		domain.EventUserMuted:       d.sessionToggle(domain.KindUserMuted),
		domain.EventUserUnmuted:     d.sessionToggle(domain.KindUserUnmuted),
		domain.EventUserVoiceOn:     d.sessionToggle(domain.KindUserVoiceOn),
		domain.EventUserVoiceOff:    d.sessionToggle(domain.KindUserVoiceOff),
		domain.EventUserScreenOn:    d.sessionToggle(domain.KindUserScreenOn),
		domain.EventUserScreenOff:   d.sessionToggle(domain.KindUserScreenOff),
		domain.EventUserRaiseHand:   d.handToggle(domain.KindUserRaiseHand),
		domain.EventUserUnraiseHand: d.handToggle(domain.KindUserLowerHand),

		domain.EventUserReacted: d.handleReaction,
		domain.EventCaption:     d.handleCaption,

		domain.EventCallHostChanged:           d.handleHostChanged,
		domain.EventCallJobState:              d.handleJobState,
		domain.EventUserDismissedNotification: d.handleDismissed,

		domain.EventHostMute:      d.hostControl(port.CallClient.Mute),
		domain.EventHostScreenOff: d.hostControl(port.CallClient.UnshareScreen),
		domain.EventHostLowerHand: d.handleHostLowerHand,
	}

	return d
}

func (d *Dispatcher) Handles(t domain.EventType) bool {
	_, ok := d.handlers[t]
	return ok
}

// Dispatch runs the handler for ev. Handler errors are logged and recorded on
// the span; they never reach the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, active port.CallClient, ev domain.Event) {
	h, ok := d.handlers[ev.Type]
	if !ok {
		log.Debug().Str("event", string(ev.Type)).Msg("No handler for event")
		return
	}

	ctx, span := tracer.Start(ctx, "handle "+string(ev.Type), trace.WithAttributes(
		attribute.String("event.type", string(ev.Type)),
		attribute.Int64("event.seq", ev.Seq),
	))
	defer span.End()

	if err := h(ctx, active, ev); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error().Err(err).Str("event", string(ev.Type)).Int64("seq", ev.Seq).Msg("Failed to handle event")
	}
}

// decodeOptional tolerates events that carry everything in the broadcast.
func decodeOptional(ev domain.Event, v any) error {
	if err := ev.Decode(v); err != nil && !errors.Is(err, domain.ErrEmptyPayload) {
		return err
	}
	return nil
}

// resolveProfiles looks profiles up off the loop and posts the result back.
// A failed lookup only leaves display names unresolved.
func (d *Dispatcher) resolveProfiles(ctx context.Context, channelID domain.ChannelID, ids []domain.UserID) {
	if d.gw.Profiles == nil || len(ids) == 0 {
		return
	}
	go func() {
		profiles, err := d.gw.Profiles.GetProfilesByIDs(ctx, ids)
		if err != nil {
			log.Error().Err(err).Str("channel_id", channelID.String()).Int("count", len(ids)).Msg("Failed to get profiles")
			return
		}
		if len(profiles) == 0 {
			return
		}
		d.timers.Defer(func() {
			d.store.Apply(domain.ProfilesJoined{ChannelID: channelID, Profiles: profiles})
		})
	}()
}
