package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Wyydra/callstate/internal/adapter/driven/state/memory"
	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
)

type stubClient struct {
	channelID domain.ChannelID
	sessionID domain.SessionID
}

func (c stubClient) ChannelID() domain.ChannelID { return c.channelID }
func (c stubClient) SessionID() domain.SessionID { return c.sessionID }
func (stubClient) Disconnect(error) error        { return nil }
func (stubClient) Mute() error                   { return nil }
func (stubClient) UnshareScreen() error          { return nil }
func (stubClient) UnraiseHand() error            { return nil }

type stubCalls struct {
	joinErr  error
	leaveErr error
	left     int
}

func (s *stubCalls) Join(channelID domain.ChannelID) (port.CallClient, error) {
	if s.joinErr != nil {
		return nil, s.joinErr
	}
	return stubClient{channelID: channelID, sessionID: "s1"}, nil
}

func (s *stubCalls) Leave() error {
	s.left++
	return s.leaveErr
}

func newTestStore() *memory.Store {
	s := memory.NewStore("u-self", domain.Preferences{RingingEnabled: true})
	s.Apply(domain.CallStarted{Call: domain.Call{ID: "c1", ChannelID: "ch1", StartAt: 10, HostID: "u-host"}})
	s.Apply(domain.UserJoined{ChannelID: "ch1", UserID: "u-other", SessionID: "s2", CurrentUserID: "u-self"})
	s.Apply(domain.SessionToggled{Toggle: domain.KindUserUnmuted, ChannelID: "ch1", UserID: "u-other", SessionID: "s2"})
	s.Apply(domain.ReactionAdded{Reaction: domain.Reaction{ChannelID: "ch1", UserID: "u-other", SessionID: "s2", Emoji: domain.Emoji{Name: "tada"}}})
	s.Apply(domain.CaptionAdded{Caption: domain.LiveCaption{CaptionID: "cap1", ChannelID: "ch1", UserID: "u-other", SessionID: "s2", Text: "hello"}})
	s.Apply(domain.IncomingCallAdded{Call: domain.IncomingCall{ChannelID: "ch9", CallID: "c9", CallerID: "u-other"}})
	return s
}

func serve(t *testing.T, h *Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.NewRouter().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestGetCall(t *testing.T) {
	h := NewHandler(newTestStore(), nil)

	rec := serve(t, h, http.MethodGet, "/api/calls/ch1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	call := decode[callDTO](t, rec)
	if call.ID != "c1" || call.HostID != "u-host" {
		t.Errorf("unexpected call: %+v", call)
	}
	if len(call.Sessions) != 1 || !call.Sessions[0].Unmuted {
		t.Errorf("unexpected sessions: %+v", call.Sessions)
	}
	if len(call.RecentlyJoined) != 1 || call.RecentlyJoined[0] != "u-other" {
		t.Errorf("unexpected recently joined: %v", call.RecentlyJoined)
	}
}

func TestGetCallNotFound(t *testing.T) {
	h := NewHandler(newTestStore(), nil)

	if rec := serve(t, h, http.MethodGet, "/api/calls/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListEndpoints(t *testing.T) {
	h := NewHandler(newTestStore(), nil)

	calls := decode[[]callDTO](t, serve(t, h, http.MethodGet, "/api/calls"))
	if len(calls) != 1 {
		t.Errorf("calls = %d, want 1", len(calls))
	}

	reactions := decode[[]reactionDTO](t, serve(t, h, http.MethodGet, "/api/calls/ch1/reactions"))
	if len(reactions) != 1 || reactions[0].Emoji.Name != "tada" {
		t.Errorf("reactions = %+v", reactions)
	}

	captions := decode[[]captionDTO](t, serve(t, h, http.MethodGet, "/api/calls/ch1/captions"))
	if len(captions) != 1 || captions[0].Text != "hello" {
		t.Errorf("captions = %+v", captions)
	}

	incoming := decode[[]incomingDTO](t, serve(t, h, http.MethodGet, "/api/incoming"))
	if len(incoming) != 1 || incoming[0].CallID != "c9" {
		t.Errorf("incoming = %+v", incoming)
	}

	if rec := serve(t, h, http.MethodGet, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
}

func TestJoinCall(t *testing.T) {
	tests := []struct {
		name   string
		calls  CallControl
		status int
	}{
		{"joined", &stubCalls{}, http.StatusOK},
		{"already in call", &stubCalls{joinErr: domain.ErrAlreadyInCall}, http.StatusConflict},
		{"send failure", &stubCalls{joinErr: errors.New("closed")}, http.StatusBadGateway},
		{"no control", nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(newTestStore(), tt.calls)
			rec := serve(t, h, http.MethodPost, "/api/calls/ch1/join")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK {
				body := decode[map[string]string](t, rec)
				if body["channel_id"] != "ch1" || body["session_id"] != "s1" {
					t.Errorf("body = %v", body)
				}
			}
		})
	}
}

func TestLeaveCall(t *testing.T) {
	calls := &stubCalls{}
	h := NewHandler(newTestStore(), calls)

	if rec := serve(t, h, http.MethodPost, "/api/calls/leave"); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if calls.left != 1 {
		t.Errorf("leave called %d times", calls.left)
	}

	calls.leaveErr = errors.New("closed")
	if rec := serve(t, h, http.MethodPost, "/api/calls/leave"); rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
