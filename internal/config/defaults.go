package config

import "time"

// Default values applied by LoadWithDefaults.
const (
	DefaultScheme = "ws"
	DefaultHost   = "localhost"
	DefaultPort   = 8000
	DefaultPath   = "/ws"

	DefaultLanguage = "de"

	DefaultPingInterval = 5 * time.Second
	DefaultPongTimeout  = 2 * time.Second

	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultBufferSize       = 256
)

// applyDefaults fills in default values for unset fields.
func (c *ClientConfig) applyDefaults() {
	if c.Server.Scheme == "" {
		c.Server.Scheme = DefaultScheme
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Path == "" {
		c.Server.Path = DefaultPath
	}
	if c.Session.Language == "" {
		c.Session.Language = DefaultLanguage
	}
	if c.Heartbeat.PingInterval == 0 {
		c.Heartbeat.PingInterval = DefaultPingInterval
	}
	if c.Heartbeat.PongTimeout == 0 {
		c.Heartbeat.PongTimeout = DefaultPongTimeout
	}
	if c.Transport.HandshakeTimeout == 0 {
		c.Transport.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Transport.WriteTimeout == 0 {
		c.Transport.WriteTimeout = DefaultWriteTimeout
	}
	if c.Transport.BufferSize == 0 {
		c.Transport.BufferSize = DefaultBufferSize
	}
}

// Default returns a configuration with all defaults applied, suitable for
// running against a local backend without a config file.
func Default() *ClientConfig {
	cfg := &ClientConfig{}
	cfg.applyDefaults()
	return cfg
}
