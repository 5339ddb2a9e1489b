package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *MirrorConfig) Validate() error {
	if c.Server.WSURL == "" {
		return errors.New("server.ws_url is required")
	}
	if !strings.HasPrefix(c.Server.WSURL, "ws://") && !strings.HasPrefix(c.Server.WSURL, "wss://") {
		return fmt.Errorf("server.ws_url must be a ws:// or wss:// URL, got %q", c.Server.WSURL)
	}

	if c.Credentials.AccessTokenPath == "" {
		return errors.New("credentials.access_token_path is required")
	}
	if c.Credentials.IdentityTokenPath == "" {
		return errors.New("credentials.identity_token_path is required")
	}

	if c.Connection.ReconnectBaseDelay <= 0 {
		return errors.New("connection.reconnect_base_delay must be > 0")
	}
	if c.Connection.ReconnectMaxDelay < c.Connection.ReconnectBaseDelay {
		return fmt.Errorf("connection.reconnect_max_delay (%s) cannot be below reconnect_base_delay (%s)",
			c.Connection.ReconnectMaxDelay, c.Connection.ReconnectBaseDelay)
	}
	if c.Connection.BufferSize < 1 {
		return errors.New("connection.buffer_size must be >= 1")
	}

	return nil
}
