package memory

import (
	"cmp"
	"slices"
	"sync"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// Store implements port.StateStore. Apply is expected to be called from the
// event loop only; reads may come from any goroutine.
type Store struct {
	mu sync.RWMutex

	currentUserID domain.UserID
	prefs         domain.Preferences

	calls        map[domain.ChannelID]*domain.Call
	sessions     map[domain.ChannelID]map[domain.SessionID]*domain.Session
	profiles     map[domain.ChannelID]map[domain.UserID]domain.Profile
	joined       map[domain.ChannelID]map[domain.UserID]bool
	recording    map[string]domain.JobState
	liveCaptions map[string]domain.JobState
	incoming     []domain.IncomingCall

	reactions         map[domain.ChannelID][]domain.Reaction
	captions          map[domain.ChannelID][]domain.LiveCaption
	hostNotifications map[domain.CallID][]domain.HostControlNotification
}

func NewStore(currentUserID domain.UserID, prefs domain.Preferences) *Store {
	return &Store{
		currentUserID:     currentUserID,
		prefs:             prefs,
		calls:             make(map[domain.ChannelID]*domain.Call),
		sessions:          make(map[domain.ChannelID]map[domain.SessionID]*domain.Session),
		profiles:          make(map[domain.ChannelID]map[domain.UserID]domain.Profile),
		joined:            make(map[domain.ChannelID]map[domain.UserID]bool),
		recording:         make(map[string]domain.JobState),
		liveCaptions:      make(map[string]domain.JobState),
		reactions:         make(map[domain.ChannelID][]domain.Reaction),
		captions:          make(map[domain.ChannelID][]domain.LiveCaption),
		hostNotifications: make(map[domain.CallID][]domain.HostControlNotification),
	}
}

func (s *Store) Apply(u domain.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch u := u.(type) {
	case domain.CallStarted:
		call := u.Call
		call.Dismissed = make(map[domain.UserID]bool)
		s.calls[call.ChannelID] = &call

	case domain.CallEnded:
		if call, ok := s.calls[u.ChannelID]; ok {
			delete(s.hostNotifications, call.ID)
		}
		delete(s.calls, u.ChannelID)
		delete(s.sessions, u.ChannelID)
		delete(s.profiles, u.ChannelID)
		delete(s.joined, u.ChannelID)
		delete(s.reactions, u.ChannelID)
		delete(s.captions, u.ChannelID)

	case domain.CallStateLoaded:
		s.loadSnapshot(u.ChannelID, u.Snapshot)

	case domain.HostChanged:
		if call, ok := s.calls[u.ChannelID]; ok {
			call.HostID = u.HostID
			call.HostChangeAt = u.HostChangeAt
		}

	case domain.JobStateSet:
		s.setJobState(u)

	case domain.UserJoined:
		s.session(u.ChannelID, u.UserID, u.SessionID)
		if u.UserID != u.CurrentUserID {
			if s.joined[u.ChannelID] == nil {
				s.joined[u.ChannelID] = make(map[domain.UserID]bool)
			}
			s.joined[u.ChannelID][u.UserID] = true
		}

	case domain.UserJoinedTimeout:
		delete(s.joined[u.ChannelID], u.UserID)

	case domain.ProfilesJoined:
		// Lookups can finish after the call ended.
		if _, ok := s.calls[u.ChannelID]; !ok {
			return
		}
		if s.profiles[u.ChannelID] == nil {
			s.profiles[u.ChannelID] = make(map[domain.UserID]domain.Profile)
		}
		for _, p := range u.Profiles {
			s.profiles[u.ChannelID][p.ID] = p
		}

	case domain.UserLeft:
		if sess, ok := s.sessions[u.ChannelID][u.SessionID]; ok && sess.UserID == u.UserID {
			delete(s.sessions[u.ChannelID], u.SessionID)
		}
		if call, ok := s.calls[u.ChannelID]; ok && call.ScreenSharingSessionID == u.SessionID {
			call.ScreenSharingSessionID = ""
		}

	case domain.SessionToggled:
		s.toggle(u)

	case domain.ReactionAdded:
		ch := u.Reaction.ChannelID
		s.reactions[ch] = append(s.reactions[ch], u.Reaction)

	case domain.ReactionExpired:
		ch := u.Reaction.ChannelID
		if i := slices.Index(s.reactions[ch], u.Reaction); i >= 0 {
			s.reactions[ch] = slices.Delete(s.reactions[ch], i, i+1)
		}

	case domain.CaptionAdded:
		ch := u.Caption.ChannelID
		s.captions[ch] = append(s.captions[ch], u.Caption)

	case domain.CaptionExpired:
		s.captions[u.ChannelID] = slices.DeleteFunc(s.captions[u.ChannelID], func(c domain.LiveCaption) bool {
			return c.SessionID == u.SessionID && c.CaptionID == u.CaptionID
		})

	case domain.HostNotificationAdded:
		id := u.Notification.CallID
		s.hostNotifications[id] = append(s.hostNotifications[id], u.Notification)

	case domain.HostNotificationExpired:
		s.hostNotifications[u.CallID] = slices.DeleteFunc(s.hostNotifications[u.CallID], func(n domain.HostControlNotification) bool {
			return n.NotificationID == u.NotificationID
		})

	case domain.IncomingCallAdded:
		if !slices.ContainsFunc(s.incoming, func(c domain.IncomingCall) bool { return c.CallID == u.Call.CallID }) {
			s.incoming = append(s.incoming, u.Call)
		}

	case domain.IncomingCallRemoved:
		s.incoming = slices.DeleteFunc(s.incoming, func(c domain.IncomingCall) bool {
			return c.CallID == u.CallID
		})

	case domain.CallDismissed:
		for _, call := range s.calls {
			if call.ID == u.CallID {
				call.Dismissed[s.currentUserID] = true
			}
		}

	default:
		log.Debug().Str("kind", string(u.Kind())).Msg("Ignoring update")
	}
}

func (s *Store) loadSnapshot(channelID domain.ChannelID, snap domain.CallSnapshot) {
	call := &domain.Call{
		ID:                     snap.ID,
		ChannelID:              channelID,
		StartAt:                snap.StartAt,
		OwnerID:                snap.OwnerID,
		HostID:                 snap.HostID,
		ThreadID:               snap.ThreadID,
		ScreenSharingSessionID: snap.ScreenSharingSessionID,
		Dismissed:              make(map[domain.UserID]bool, len(snap.DismissedNotification)),
	}
	if prev, ok := s.calls[channelID]; ok && prev.ID == snap.ID {
		call.HostChangeAt = prev.HostChangeAt
	}
	for id, dismissed := range snap.DismissedNotification {
		call.Dismissed[id] = dismissed
	}
	s.calls[channelID] = call

	sessions := make(map[domain.SessionID]*domain.Session, len(snap.Sessions))
	for _, sess := range snap.Sessions {
		sessions[sess.SessionID] = &domain.Session{
			SessionID:  sess.SessionID,
			UserID:     sess.UserID,
			Unmuted:    sess.Unmuted,
			Screen:     sess.SessionID == snap.ScreenSharingSessionID,
			RaisedHand: sess.RaisedHand,
		}
	}
	s.sessions[channelID] = sessions

	key := string(channelID)
	delete(s.recording, key)
	delete(s.liveCaptions, key)
	if snap.Recording != nil {
		s.recording[key] = *snap.Recording
	}
	if snap.LiveCaptions != nil {
		s.liveCaptions[key] = *snap.LiveCaptions
	}
}

func (s *Store) setJobState(u domain.JobStateSet) {
	var slot map[string]domain.JobState
	switch u.Slot {
	case domain.KindRecordingState:
		slot = s.recording
	case domain.KindLiveCaptionsState:
		slot = s.liveCaptions
	default:
		return
	}
	if u.State == nil {
		delete(slot, u.CallID)
		return
	}
	slot[u.CallID] = *u.State
}

// session returns the session entry, creating it on join.
func (s *Store) session(channelID domain.ChannelID, userID domain.UserID, sessionID domain.SessionID) *domain.Session {
	if s.sessions[channelID] == nil {
		s.sessions[channelID] = make(map[domain.SessionID]*domain.Session)
	}
	sess, ok := s.sessions[channelID][sessionID]
	if !ok {
		sess = &domain.Session{SessionID: sessionID, UserID: userID}
		s.sessions[channelID][sessionID] = sess
	}
	return sess
}

// toggle only updates sessions that are present, so a late or replayed
// toggle cannot bring back a session that left or a call that ended.
func (s *Store) toggle(u domain.SessionToggled) {
	sess, ok := s.sessions[u.ChannelID][u.SessionID]
	if !ok || sess.UserID != u.UserID {
		log.Debug().Str("kind", string(u.Toggle)).Str("channel_id", u.ChannelID.String()).Str("session_id", u.SessionID.String()).Msg("Ignoring toggle for unknown session")
		return
	}
	switch u.Toggle {
	case domain.KindUserMuted:
		sess.Unmuted = false
	case domain.KindUserUnmuted:
		sess.Unmuted = true
	case domain.KindUserVoiceOn:
		sess.Voice = true
	case domain.KindUserVoiceOff:
		sess.Voice = false
	case domain.KindUserScreenOn:
		sess.Screen = true
		if call, ok := s.calls[u.ChannelID]; ok {
			call.ScreenSharingSessionID = u.SessionID
		}
	case domain.KindUserScreenOff:
		sess.Screen = false
		if call, ok := s.calls[u.ChannelID]; ok && call.ScreenSharingSessionID == u.SessionID {
			call.ScreenSharingSessionID = ""
		}
	case domain.KindUserRaiseHand, domain.KindUserLowerHand:
		sess.RaisedHand = u.RaisedHand
	}
}

func (s *Store) CurrentUserID() domain.UserID {
	return s.currentUserID
}

func (s *Store) Preferences() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func (s *Store) Call(channelID domain.ChannelID) (domain.Call, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	call, ok := s.calls[channelID]
	if !ok {
		return domain.Call{}, false
	}
	return copyCall(call), true
}

func (s *Store) Calls() []domain.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Call, 0, len(s.calls))
	for _, call := range s.calls {
		out = append(out, copyCall(call))
	}
	slices.SortFunc(out, func(a, b domain.Call) int { return cmp.Compare(a.ChannelID, b.ChannelID) })
	return out
}

func (s *Store) Sessions(channelID domain.ChannelID) []domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Session, 0, len(s.sessions[channelID]))
	for _, sess := range s.sessions[channelID] {
		out = append(out, *sess)
	}
	slices.SortFunc(out, func(a, b domain.Session) int { return cmp.Compare(a.SessionID, b.SessionID) })
	return out
}

func (s *Store) JobState(slot domain.UpdateKind, callID string) (domain.JobState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st domain.JobState
	var ok bool
	switch slot {
	case domain.KindRecordingState:
		st, ok = s.recording[callID]
	case domain.KindLiveCaptionsState:
		st, ok = s.liveCaptions[callID]
	}
	return st, ok
}

func (s *Store) IncomingCalls() []domain.IncomingCall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.incoming)
}

func (s *Store) Profiles(channelID domain.ChannelID) map[domain.UserID]domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.UserID]domain.Profile, len(s.profiles[channelID]))
	for id, p := range s.profiles[channelID] {
		out[id] = p
	}
	return out
}

func (s *Store) RecentlyJoined(channelID domain.ChannelID) []domain.UserID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UserID, 0, len(s.joined[channelID]))
	for id := range s.joined[channelID] {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s *Store) Reactions(channelID domain.ChannelID) []domain.Reaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reactions[channelID])
}

func (s *Store) Captions(channelID domain.ChannelID) []domain.LiveCaption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.captions[channelID])
}

func (s *Store) HostNotifications(callID domain.CallID) []domain.HostControlNotification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.hostNotifications[callID])
}

func copyCall(call *domain.Call) domain.Call {
	var out domain.Call
	if err := copier.CopyWithOption(&out, call, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Str("channel_id", call.ChannelID.String()).Msg("Failed to copy call state")
		return *call
	}
	return out
}
