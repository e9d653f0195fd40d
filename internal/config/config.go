package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   Server   `json:"server"`
	Identity Identity `json:"identity"`
	Calls    Calls    `json:"calls"`
	Debug    Debug    `json:"debug"`
}

type Server struct {
	// Base URL of the server, e.g. https://chat.example.org
	URL   string `json:"url"`
	Token string `json:"token"`
}

type Identity struct {
	UserID string `json:"user_id"`
	TeamID string `json:"team_id"`
}

type Calls struct {
	RingingEnabled bool `json:"ringing_enabled"`
	JoinUserSound  bool `json:"join_user_sound"`

	JoinedUserTimeoutMS  int `json:"joined_user_timeout_ms"`
	ReactionTimeoutMS    int `json:"reaction_timeout_ms"`
	LiveCaptionTimeoutMS int `json:"live_caption_timeout_ms"`
	HostControlTimeoutMS int `json:"host_control_timeout_ms"`
}

type Debug struct {
	// Empty disables the debug HTTP server.
	HTTPAddr string `json:"http_addr"`
	LogLevel string `json:"log_level"`
}

func Default() Config {
	return Config{
		Calls: Calls{
			RingingEnabled:       true,
			JoinUserSound:        true,
			JoinedUserTimeoutMS:  5000,
			ReactionTimeoutMS:    10000,
			LiveCaptionTimeoutMS: 5000,
			HostControlTimeoutMS: 4000,
		},
		Debug: Debug{
			HTTPAddr: ":8080",
			LogLevel: "info",
		},
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return errors.New("server.url is required")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url: unsupported scheme %q", u.Scheme)
	}
	if strings.TrimSpace(c.Identity.UserID) == "" {
		return errors.New("identity.user_id is required")
	}

	for name, v := range map[string]int{
		"calls.joined_user_timeout_ms":  c.Calls.JoinedUserTimeoutMS,
		"calls.reaction_timeout_ms":     c.Calls.ReactionTimeoutMS,
		"calls.live_caption_timeout_ms": c.Calls.LiveCaptionTimeoutMS,
		"calls.host_control_timeout_ms": c.Calls.HostControlTimeoutMS,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}
	return nil
}

// WebSocketURL derives the event stream endpoint from the server URL.
func (c Config) WebSocketURL() string {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v4/websocket"
	return u.String()
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func (c Calls) JoinedUserTimeout() time.Duration  { return ms(c.JoinedUserTimeoutMS) }
func (c Calls) ReactionTimeout() time.Duration    { return ms(c.ReactionTimeoutMS) }
func (c Calls) LiveCaptionTimeout() time.Duration { return ms(c.LiveCaptionTimeoutMS) }
func (c Calls) HostControlTimeout() time.Duration { return ms(c.HostControlTimeoutMS) }

// Load reads path (optional, may be empty), applies CALLSTATE_* environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := json.Unmarshal(stripBOM(b), &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"CALLSTATE_SERVER_URL": &cfg.Server.URL,
		"CALLSTATE_TOKEN":      &cfg.Server.Token,
		"CALLSTATE_USER_ID":    &cfg.Identity.UserID,
		"CALLSTATE_TEAM_ID":    &cfg.Identity.TeamID,
		"CALLSTATE_HTTP_ADDR":  &cfg.Debug.HTTPAddr,
		"CALLSTATE_LOG_LEVEL":  &cfg.Debug.LogLevel,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	flags := map[string]*bool{
		"CALLSTATE_RINGING":         &cfg.Calls.RingingEnabled,
		"CALLSTATE_JOIN_USER_SOUND": &cfg.Calls.JoinUserSound,
	}
	for key, dst := range flags {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
