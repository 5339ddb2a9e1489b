package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/botmarket-mirror/internal/auth"
	"github.com/rickgao/botmarket-mirror/internal/mirror"
	"github.com/rickgao/botmarket-mirror/internal/protocol"
)

// Manager maintains the single persistent connection feeding the mirror.
type Manager interface {
	// Start dials and begins the connect/read/reconnect loop.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the connection.
	Stop(ctx context.Context) error

	// Stats returns current connection statistics.
	Stats() ManagerStats
}

// manager implements the Manager interface.
type manager struct {
	cfg    ManagerConfig
	creds  auth.Provider
	mirror *mirror.Mirror
	logger *slog.Logger

	// newClient is swappable for tests.
	newClient func(ClientConfig, *slog.Logger) Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	client    Client
	connected bool
	stats     ManagerStats
}

// NewManager creates a connection manager. The mirror is fed every
// decoded frame in arrival order; creds are queried once per connection.
func NewManager(cfg ManagerConfig, creds auth.Provider, m *mirror.Mirror, logger *slog.Logger) Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &manager{
		cfg:       cfg,
		creds:     creds,
		mirror:    m,
		logger:    logger,
		newClient: NewClient,
	}
}

// Start begins the connection loop in the background.
func (m *manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go m.runLoop()

	m.logger.Info("connection manager started", "url", m.cfg.WSURL)
	return nil
}

// Stop gracefully shuts down.
func (m *manager) Stop(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}

	m.mu.Lock()
	if m.client != nil {
		m.client.Close()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("connection manager stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current statistics.
func (m *manager) Stats() ManagerStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.Connected = m.connected
	return s
}

// runLoop connects, reads until failure, marks the mirror stale, and
// reconnects with exponential backoff. Each successful connect resets
// the backoff and re-runs the authenticate step, which is one-shot per
// connection: missing credentials are recovered only by the next
// reconnect attempt.
func (m *manager) runLoop() {
	defer m.wg.Done()

	wait := m.cfg.ReconnectBaseWait
	firstAttempt := true

	for {
		if !firstAttempt {
			select {
			case <-m.ctx.Done():
				return
			case <-time.After(wait):
			}
		}
		firstAttempt = false

		client := m.newClient(ClientConfig{
			URL:          m.cfg.WSURL,
			PingTimeout:  m.cfg.PingTimeout,
			WriteTimeout: m.cfg.WriteTimeout,
			BufferSize:   m.cfg.BufferSize,
		}, m.logger)

		if err := client.Connect(m.ctx); err != nil {
			m.logger.Warn("connect failed", "error", err, "retry_in", wait)
			wait = nextWait(wait, m.cfg.ReconnectMaxWait)
			continue
		}

		m.mu.Lock()
		m.client = client
		m.connected = true
		m.stats.Reconnects++
		m.mu.Unlock()

		m.logger.Info("connected", "url", m.cfg.WSURL)
		wait = m.cfg.ReconnectBaseWait

		m.authenticate(client)
		m.readLoop(client)

		// Transport gone: stale immediately, state retained.
		m.mirror.TransportDown()

		m.mu.Lock()
		m.connected = false
		m.mu.Unlock()

		client.Close()

		select {
		case <-m.ctx.Done():
			return
		default:
		}
	}
}

// authenticate sends the authenticate frame if both credentials are
// available. If either is absent the connection is left unauthenticated
// and the mirror stays stale; the server never sends
// session_established to an unauthenticated connection.
func (m *manager) authenticate(client Client) {
	access, ok := m.creds.AccessCredential()
	if !ok {
		m.logger.Warn("access credential unavailable, skipping authenticate")
		m.count(func(s *ManagerStats) { s.AuthSkipped++ })
		return
	}

	identity, ok := m.creds.IdentityCredential()
	if !ok {
		m.logger.Warn("identity credential unavailable, skipping authenticate")
		m.count(func(s *ManagerStats) { s.AuthSkipped++ })
		return
	}

	frame, err := protocol.EncodeAuthenticate(access, identity)
	if err != nil {
		m.logger.Error("encode authenticate", "error", err)
		m.count(func(s *ManagerStats) { s.AuthSendFails++ })
		return
	}

	if err := client.Send(frame); err != nil {
		m.logger.Warn("send authenticate", "error", err)
		m.count(func(s *ManagerStats) { s.AuthSendFails++ })
	}
}

// readLoop decodes and dispatches frames until the connection fails or
// the manager stops. This is the only goroutine that calls Apply, so
// reconciliation is strictly sequential in arrival order.
func (m *manager) readLoop(client Client) {
	for {
		select {
		case <-m.ctx.Done():
			return

		case err := <-client.Errors():
			m.logger.Warn("connection error", "error", err)
			return

		case msg, ok := <-client.Messages():
			if !ok {
				return
			}
			m.count(func(s *ManagerStats) { s.Frames++ })

			decoded, err := protocol.Decode(msg.Data)
			if err != nil {
				// Malformed or unknown frame: drop it, touch nothing.
				if errors.Is(err, protocol.ErrUnknownKind) {
					m.logger.Debug("skipping frame", "error", err)
				} else {
					m.logger.Warn("failed to decode frame", "error", err)
				}
				m.count(func(s *ManagerStats) { s.DecodeErrors++ })
				continue
			}

			m.mirror.Apply(decoded)
		}
	}
}

func (m *manager) count(fn func(*ManagerStats)) {
	m.mu.Lock()
	fn(&m.stats)
	m.mu.Unlock()
}

// nextWait doubles the backoff up to max.
func nextWait(wait, max time.Duration) time.Duration {
	wait *= 2
	if wait > max {
		wait = max
	}
	return wait
}
