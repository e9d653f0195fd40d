package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const requestTimeout = 15 * time.Second

// Client talks to the server REST API for profiles and thread follows.
type Client struct {
	baseURL string
	token   string
	userID  domain.UserID
	teamID  string
	http    *http.Client
}

func NewClient(baseURL, token string, userID domain.UserID, teamID string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		userID:  userID,
		teamID:  teamID,
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
					return r.Method + " " + r.URL.Path
				}),
			),
		},
	}
}

func (c *Client) GetProfilesByIDs(ctx context.Context, ids []domain.UserID) ([]domain.Profile, error) {
	body, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("error marshalling user ids: %w", err)
	}

	var profiles []domain.Profile
	if err := c.do(ctx, http.MethodPost, "/api/v4/users/ids", body, &profiles); err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	return profiles, nil
}

func (c *Client) FollowThread(ctx context.Context, channelID domain.ChannelID, threadID string) error {
	if threadID == "" || c.teamID == "" {
		log.Debug().Str("channel_id", channelID.String()).Msg("No thread or team to follow")
		return nil
	}

	path := fmt.Sprintf("/api/v4/users/%s/teams/%s/threads/%s/following",
		url.PathEscape(c.userID.String()), url.PathEscape(c.teamID), url.PathEscape(threadID))
	if err := c.do(ctx, http.MethodPut, path, nil, nil); err != nil {
		return fmt.Errorf("follow thread: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("error creating HTTP request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("non-OK HTTP status: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
