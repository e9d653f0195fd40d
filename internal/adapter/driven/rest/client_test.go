package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/Wyydra/callstate/internal/core/domain"
)

func TestGetProfilesByIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v4/users/ids" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		var ids []string
		if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		if !slices.Equal(ids, []string{"u1", "u2"}) {
			t.Errorf("ids = %v", ids)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"u1","username":"ada","first_name":"Ada"},{"id":"u2","username":"bob"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok", "u-self", "team")
	profiles, err := c.GetProfilesByIDs(context.Background(), []domain.UserID{"u1", "u2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 || profiles[0].FirstName != "Ada" || profiles[1].Username != "bob" {
		t.Errorf("profiles = %+v", profiles)
	}
}

func TestGetProfilesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "u-self", "")
	if _, err := c.GetProfilesByIDs(context.Background(), []domain.UserID{"u1"}); err == nil {
		t.Fatal("expected error for non-OK status")
	}
}

func TestFollowThread(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "u-self", "team")
	if err := c.FollowThread(context.Background(), "ch1", "t1"); err != nil {
		t.Fatal(err)
	}
	if err := c.FollowThread(context.Background(), "ch1", ""); err != nil {
		t.Fatal(err)
	}

	want := []string{"/api/v4/users/u-self/teams/team/threads/t1/following"}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestFollowThreadWithoutTeam(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "tok", "u-self", "")
	if err := c.FollowThread(context.Background(), "ch1", "t1"); err != nil {
		t.Errorf("expected no-op without a team, got %v", err)
	}
}
