package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "copilot.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
server:
  scheme: ws
  host: copilot.local
  port: 9001
  path: /ws
session:
  language: en
  session_id: meeting-7
heartbeat:
  ping_interval: 10s
  pong_timeout: 3s
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "copilot.local" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "copilot.local")
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Session.Language != "en" {
		t.Errorf("Session.Language = %q, want %q", cfg.Session.Language, "en")
	}
	if cfg.Session.SessionID != "meeting-7" {
		t.Errorf("Session.SessionID = %q, want %q", cfg.Session.SessionID, "meeting-7")
	}
	if cfg.Heartbeat.PingInterval != 10*time.Second {
		t.Errorf("Heartbeat.PingInterval = %v, want 10s", cfg.Heartbeat.PingInterval)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_COPILOT_HOST", "meet.example.net")

	yaml := `
server:
  host: ${TEST_COPILOT_HOST}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "meet.example.net" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "meet.example.net")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "session:\n  language: en\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Server.Scheme != DefaultScheme {
		t.Errorf("Server.Scheme = %q, want default %q", cfg.Server.Scheme, DefaultScheme)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want default %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Session.Language != "en" {
		t.Errorf("Session.Language = %q, want explicit %q", cfg.Session.Language, "en")
	}
	if cfg.Heartbeat.PingInterval != DefaultPingInterval {
		t.Errorf("Heartbeat.PingInterval = %v, want default %v", cfg.Heartbeat.PingInterval, DefaultPingInterval)
	}
	if cfg.Heartbeat.PongTimeout != DefaultPongTimeout {
		t.Errorf("Heartbeat.PongTimeout = %v, want default %v", cfg.Heartbeat.PongTimeout, DefaultPongTimeout)
	}
	if cfg.Transport.BufferSize != DefaultBufferSize {
		t.Errorf("Transport.BufferSize = %d, want default %d", cfg.Transport.BufferSize, DefaultBufferSize)
	}
}

func TestServerURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{
			name: "defaults",
			cfg:  Default().Server,
			want: "ws://localhost:8000/ws",
		},
		{
			name: "secure deployment",
			cfg:  ServerConfig{Scheme: "wss", Host: "meet.example.net", Port: 443, Path: "/ws"},
			want: "wss://meet.example.net:443/ws",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() ClientConfig { return *Default() }

	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *ClientConfig) {},
			wantErr: "",
		},
		{
			name:    "missing host",
			mutate:  func(c *ClientConfig) { c.Server.Host = "" },
			wantErr: "server.host is required",
		},
		{
			name:    "bad port",
			mutate:  func(c *ClientConfig) { c.Server.Port = 70000 },
			wantErr: "server.port (70000) must be in 1-65535",
		},
		{
			name:    "bad scheme",
			mutate:  func(c *ClientConfig) { c.Server.Scheme = "http" },
			wantErr: `server.scheme ("http") must be ws or wss`,
		},
		{
			name:    "bad language",
			mutate:  func(c *ClientConfig) { c.Session.Language = "fr" },
			wantErr: `session.language ("fr") must be de or en`,
		},
		{
			name:    "zero ping interval",
			mutate:  func(c *ClientConfig) { c.Heartbeat.PingInterval = 0 },
			wantErr: "heartbeat.ping_interval must be positive",
		},
		{
			name: "pong timeout not shorter than ping interval",
			mutate: func(c *ClientConfig) {
				c.Heartbeat.PingInterval = 2 * time.Second
				c.Heartbeat.PongTimeout = 2 * time.Second
			},
			wantErr: "heartbeat.pong_timeout (2s) must be shorter than ping_interval (2s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}
