package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileWithDefaults(t *testing.T) {
	path := writeConfig(t, "\xEF\xBB\xBF"+`{
		"server": {"url": "https://chat.example.org", "token": "tok"},
		"identity": {"user_id": "u1"},
		"calls": {"reaction_timeout_ms": 2000}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Token != "tok" || cfg.Identity.UserID != "u1" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Calls.ReactionTimeout() != 2*time.Second {
		t.Errorf("reaction timeout = %s", cfg.Calls.ReactionTimeout())
	}
	if cfg.Calls.JoinedUserTimeout() != 5*time.Second || cfg.Calls.HostControlTimeout() != 4*time.Second {
		t.Error("expected unset timeouts to keep their defaults")
	}
	if !cfg.Calls.RingingEnabled || cfg.Debug.HTTPAddr != ":8080" {
		t.Error("expected defaults for unset fields")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"server": {"url": "http://a.example"}, "identity": {"user_id": "u1"}}`)
	t.Setenv("CALLSTATE_SERVER_URL", "https://b.example/")
	t.Setenv("CALLSTATE_USER_ID", "u2")
	t.Setenv("CALLSTATE_RINGING", "false")
	t.Setenv("CALLSTATE_HTTP_ADDR", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.URL != "https://b.example/" || cfg.Identity.UserID != "u2" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.Calls.RingingEnabled {
		t.Error("expected ringing to be disabled from env")
	}
	if cfg.Debug.HTTPAddr != "" {
		t.Errorf("expected empty http addr, got %q", cfg.Debug.HTTPAddr)
	}
}

func TestApplyEnvInvalidBool(t *testing.T) {
	cfg := Default()
	lookup := func(key string) (string, bool) {
		if key == "CALLSTATE_JOIN_USER_SOUND" {
			return "maybe", true
		}
		return "", false
	}

	err := applyEnv(&cfg, lookup)
	if err == nil || !strings.Contains(err.Error(), "CALLSTATE_JOIN_USER_SOUND") {
		t.Errorf("expected parse error naming the variable, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Default()
		cfg.Server.URL = "https://chat.example.org"
		cfg.Identity.UserID = "u1"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing url", func(c *Config) { c.Server.URL = "" }, "server.url is required"},
		{"bad scheme", func(c *Config) { c.Server.URL = "ftp://x" }, "unsupported scheme"},
		{"missing user", func(c *Config) { c.Identity.UserID = " " }, "identity.user_id"},
		{"zero timeout", func(c *Config) { c.Calls.ReactionTimeoutMS = 0 }, "calls.reaction_timeout_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://chat.example.org", "wss://chat.example.org/api/v4/websocket"},
		{"http://localhost:8065/", "ws://localhost:8065/api/v4/websocket"},
		{"https://example.org/chat", "wss://example.org/chat/api/v4/websocket"},
	}

	for _, tt := range tests {
		cfg := Config{Server: Server{URL: tt.url}}
		if got := cfg.WebSocketURL(); got != tt.want {
			t.Errorf("WebSocketURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
