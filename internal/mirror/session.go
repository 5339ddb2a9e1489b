package mirror

import "github.com/rickgao/botmarket-mirror/internal/protocol"

// TransportDown flips the mirror stale, unconditionally and
// immediately. Entity state is not cleared: consumers keep last-known
// values and judge freshness by the stale flag. The connection manager
// calls this on every transport disconnect.
func (m *Mirror) TransportDown() {
	m.stale.Set(true)
}

// applySessionEstablished publishes the acting identity and then flips
// stale to false. Ordering matters: the session id must be readable no
// later than the notification in which stale goes live.
//
// A raw transport open never flips stale; only this marker does, since
// authentication has not completed until the server says so.
func (m *Mirror) applySessionEstablished(msg *protocol.SessionEstablishedMsg) {
	if msg.Actor == nil || msg.Actor.ID == "" {
		// Server contract violation. Non-fatal: stay stale, keep going.
		m.logger.Warn("session_established without actor id")
		m.count(func(s *Stats) { s.MissingFields++ })
		return
	}

	m.sessionID.Set(msg.Actor.ID)
	m.stale.Set(false)
	m.count(func(s *Stats) { s.Applied++ })
}
