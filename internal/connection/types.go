package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// TimestampedMessage wraps raw frame data with its receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw frame bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL          string        // WebSocket URL (e.g., wss://api.botmarket.example/stream/v1)
	PingTimeout  time.Duration // Max time without ping before considering connection stale
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Frame channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   1000,
	}
}

// ManagerConfig configures the connection manager.
type ManagerConfig struct {
	WSURL             string        // WebSocket URL
	ReconnectBaseWait time.Duration // Base wait time for reconnection
	ReconnectMaxWait  time.Duration // Max wait time for reconnection
	PingTimeout       time.Duration // Passed through to the client
	WriteTimeout      time.Duration // Passed through to the client
	BufferSize        int           // Frame channel buffer size
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		ReconnectBaseWait: 1 * time.Second,
		ReconnectMaxWait:  60 * time.Second,
		PingTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Second,
		BufferSize:        1000,
	}
}

// ManagerStats provides statistics about the connection manager.
type ManagerStats struct {
	Connected     bool
	Frames        int64 // Frames received on the current process lifetime
	DecodeErrors  int64 // Frames dropped because they failed to decode
	Reconnects    int64 // Successful reconnections
	AuthSkipped   int64 // Connections left unauthenticated (credential absent)
	AuthSendFails int64 // Authenticate frames that failed to send
}
