package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ClientConfig is the root configuration for the co-pilot client.
type ClientConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Session   SessionConfig   `yaml:"session"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
	Transport TransportConfig `yaml:"transport"`
}

// ServerConfig locates the backend WebSocket endpoint.
type ServerConfig struct {
	Scheme string `yaml:"scheme"` // "ws" for local/dev, "wss" behind TLS
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Path   string `yaml:"path"`
}

// URL builds the WebSocket endpoint URL.
func (s ServerConfig) URL() string {
	u := url.URL{
		Scheme: s.Scheme,
		Host:   s.Host + ":" + strconv.Itoa(s.Port),
		Path:   s.Path,
	}
	return u.String()
}

// SessionConfig holds per-session settings.
type SessionConfig struct {
	Language  string `yaml:"language"`   // "de" or "en"
	SessionID string `yaml:"session_id"` // Opaque; empty = generate one
}

// HeartbeatConfig holds liveness probe settings.
type HeartbeatConfig struct {
	PingInterval time.Duration `yaml:"ping_interval"`
	PongTimeout  time.Duration `yaml:"pong_timeout"`
}

// TransportConfig holds WebSocket connection settings.
type TransportConfig struct {
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	BufferSize       int           `yaml:"buffer_size"`
}

// Validate checks the configuration for invalid values.
func (c *ClientConfig) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port (%d) must be in 1-65535", c.Server.Port)
	}
	if c.Server.Scheme != "ws" && c.Server.Scheme != "wss" {
		return fmt.Errorf("server.scheme (%q) must be ws or wss", c.Server.Scheme)
	}
	if c.Session.Language != "de" && c.Session.Language != "en" {
		return fmt.Errorf("session.language (%q) must be de or en", c.Session.Language)
	}
	if c.Heartbeat.PingInterval <= 0 {
		return fmt.Errorf("heartbeat.ping_interval must be positive")
	}
	if c.Heartbeat.PongTimeout <= 0 {
		return fmt.Errorf("heartbeat.pong_timeout must be positive")
	}
	if c.Heartbeat.PongTimeout >= c.Heartbeat.PingInterval {
		return fmt.Errorf("heartbeat.pong_timeout (%v) must be shorter than ping_interval (%v)",
			c.Heartbeat.PongTimeout, c.Heartbeat.PingInterval)
	}
	if c.Transport.BufferSize <= 0 {
		return fmt.Errorf("transport.buffer_size must be positive")
	}
	return nil
}
