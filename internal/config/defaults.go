package config

import (
	"time"

	"github.com/google/uuid"
)

// Default values for optional configuration fields.
const (
	DefaultWSURL              = "wss://api.botmarket.example/stream/v1"
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultPingTimeout        = 30 * time.Second
	DefaultWriteTimeout       = 5 * time.Second
	DefaultBufferSize         = 1000
)

func (c *MirrorConfig) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = "mirror-" + uuid.NewString()
	}

	if c.Server.WSURL == "" {
		c.Server.WSURL = DefaultWSURL
	}

	if c.Connection.ReconnectBaseDelay == 0 {
		c.Connection.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Connection.ReconnectMaxDelay == 0 {
		c.Connection.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Connection.PingTimeout == 0 {
		c.Connection.PingTimeout = DefaultPingTimeout
	}
	if c.Connection.WriteTimeout == 0 {
		c.Connection.WriteTimeout = DefaultWriteTimeout
	}
	if c.Connection.BufferSize == 0 {
		c.Connection.BufferSize = DefaultBufferSize
	}
}
