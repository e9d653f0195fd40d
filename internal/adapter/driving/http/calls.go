package http

import (
	"errors"
	"net/http"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type sessionDTO struct {
	SessionID  string `json:"session_id"`
	UserID     string `json:"user_id"`
	Unmuted    bool   `json:"unmuted"`
	Voice      bool   `json:"voice"`
	Screen     bool   `json:"screen"`
	RaisedHand int64  `json:"raised_hand,omitempty"`
}

type callDTO struct {
	ID                     string            `json:"id"`
	ChannelID              string            `json:"channel_id"`
	StartAt                int64             `json:"start_at"`
	OwnerID                string            `json:"owner_id"`
	HostID                 string            `json:"host_id"`
	HostChangeAt           int64             `json:"host_change_at"`
	ThreadID               string            `json:"thread_id,omitempty"`
	ScreenSharingSessionID string            `json:"screen_sharing_session_id,omitempty"`
	Dismissed              map[string]bool   `json:"dismissed,omitempty"`
	Sessions               []sessionDTO      `json:"sessions"`
	RecentlyJoined         []string          `json:"recently_joined,omitempty"`
	Recording              *domain.JobState  `json:"recording,omitempty"`
	LiveCaptions           *domain.JobState  `json:"live_captions,omitempty"`
	HostNotifications      []notificationDTO `json:"host_notifications,omitempty"`
}

type notificationDTO struct {
	Type           string `json:"type"`
	NotificationID string `json:"notification_id"`
	DisplayName    string `json:"display_name"`
}

type reactionDTO struct {
	UserID      string       `json:"user_id"`
	SessionID   string       `json:"session_id"`
	DisplayName string       `json:"display_name"`
	Emoji       domain.Emoji `json:"emoji"`
	Timestamp   int64        `json:"timestamp"`
}

type captionDTO struct {
	CaptionID   string `json:"caption_id"`
	UserID      string `json:"user_id"`
	SessionID   string `json:"session_id"`
	DisplayName string `json:"display_name"`
	Text        string `json:"text"`
}

type incomingDTO struct {
	ChannelID string `json:"channel_id"`
	CallID    string `json:"call_id"`
	CallerID  string `json:"caller_id"`
	StartAt   int64  `json:"start_at"`
}

func (h *Handler) callView(call domain.Call) callDTO {
	dto := callDTO{
		ID:                     call.ID.String(),
		ChannelID:              call.ChannelID.String(),
		StartAt:                call.StartAt,
		OwnerID:                call.OwnerID.String(),
		HostID:                 call.HostID.String(),
		HostChangeAt:           call.HostChangeAt,
		ThreadID:               call.ThreadID,
		ScreenSharingSessionID: call.ScreenSharingSessionID.String(),
		Sessions:               []sessionDTO{},
	}
	if len(call.Dismissed) > 0 {
		dto.Dismissed = make(map[string]bool, len(call.Dismissed))
		for id, v := range call.Dismissed {
			dto.Dismissed[id.String()] = v
		}
	}
	for _, s := range h.Store.Sessions(call.ChannelID) {
		dto.Sessions = append(dto.Sessions, sessionDTO{
			SessionID:  s.SessionID.String(),
			UserID:     s.UserID.String(),
			Unmuted:    s.Unmuted,
			Voice:      s.Voice,
			Screen:     s.Screen,
			RaisedHand: s.RaisedHand,
		})
	}
	for _, id := range h.Store.RecentlyJoined(call.ChannelID) {
		dto.RecentlyJoined = append(dto.RecentlyJoined, id.String())
	}
	if st, ok := h.Store.JobState(domain.KindRecordingState, call.ChannelID.String()); ok {
		dto.Recording = &st
	}
	if st, ok := h.Store.JobState(domain.KindLiveCaptionsState, call.ChannelID.String()); ok {
		dto.LiveCaptions = &st
	}
	for _, n := range h.Store.HostNotifications(call.ID) {
		dto.HostNotifications = append(dto.HostNotifications, notificationDTO{
			Type:           string(n.Type),
			NotificationID: n.NotificationID.String(),
			DisplayName:    n.DisplayName,
		})
	}
	return dto
}

func (h *Handler) ListCalls(w http.ResponseWriter, r *http.Request) {
	calls := h.Store.Calls()
	out := make([]callDTO, 0, len(calls))
	for _, call := range calls {
		out = append(out, h.callView(call))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCall(w http.ResponseWriter, r *http.Request) {
	channelID := domain.ChannelID(chi.URLParam(r, "channelID"))
	call, ok := h.Store.Call(channelID)
	if !ok {
		writeError(w, http.StatusNotFound, "no call in channel")
		return
	}
	writeJSON(w, http.StatusOK, h.callView(call))
}

func (h *Handler) ListReactions(w http.ResponseWriter, r *http.Request) {
	channelID := domain.ChannelID(chi.URLParam(r, "channelID"))
	reactions := h.Store.Reactions(channelID)
	out := make([]reactionDTO, 0, len(reactions))
	for _, re := range reactions {
		out = append(out, reactionDTO{
			UserID:      re.UserID.String(),
			SessionID:   re.SessionID.String(),
			DisplayName: re.DisplayName,
			Emoji:       re.Emoji,
			Timestamp:   re.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListCaptions(w http.ResponseWriter, r *http.Request) {
	channelID := domain.ChannelID(chi.URLParam(r, "channelID"))
	captions := h.Store.Captions(channelID)
	out := make([]captionDTO, 0, len(captions))
	for _, c := range captions {
		out = append(out, captionDTO{
			CaptionID:   c.CaptionID.String(),
			UserID:      c.UserID.String(),
			SessionID:   c.SessionID.String(),
			DisplayName: c.DisplayName,
			Text:        c.Text,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	incoming := h.Store.IncomingCalls()
	out := make([]incomingDTO, 0, len(incoming))
	for _, c := range incoming {
		out = append(out, incomingDTO{
			ChannelID: c.ChannelID.String(),
			CallID:    c.CallID.String(),
			CallerID:  c.CallerID.String(),
			StartAt:   c.StartAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) JoinCall(w http.ResponseWriter, r *http.Request) {
	if h.Calls == nil {
		writeError(w, http.StatusServiceUnavailable, "call control not available")
		return
	}
	channelID := domain.ChannelID(chi.URLParam(r, "channelID"))
	session, err := h.Calls.Join(channelID)
	if err != nil {
		log.Error().Err(err).Str("channel_id", channelID.String()).Msg("Failed to join call")
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrAlreadyInCall) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"channel_id": session.ChannelID().String(),
		"session_id": session.SessionID().String(),
	})
}

func (h *Handler) LeaveCall(w http.ResponseWriter, r *http.Request) {
	if h.Calls == nil {
		writeError(w, http.StatusServiceUnavailable, "call control not available")
		return
	}
	if err := h.Calls.Leave(); err != nil {
		log.Error().Err(err).Msg("Failed to leave call")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
