package mirror

import "github.com/rickgao/botmarket-mirror/internal/protocol"

// Apply dispatches one decoded message to its reconciler. Reconciliation
// for a frame, including every synchronous listener notification it
// triggers, completes before the next frame starts: an Apply issued
// from inside a listener is queued and drained by the in-flight call.
func (m *Mirror) Apply(msg protocol.ServerMessage) {
	m.queueMu.Lock()
	m.queue = append(m.queue, msg)
	if m.applying {
		m.queueMu.Unlock()
		return
	}
	m.applying = true

	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.queueMu.Unlock()

		m.applyOne(next)

		m.queueMu.Lock()
	}
	m.applying = false
	m.queueMu.Unlock()
}

// applyOne routes a single message to the reconciler for its kind.
func (m *Mirror) applyOne(msg protocol.ServerMessage) {
	switch {
	case msg.SessionEstablished != nil:
		m.applySessionEstablished(msg.SessionEstablished)

	case msg.PortfolioSnapshot != nil:
		m.applyPortfolioSnapshot(*msg.PortfolioSnapshot)

	case msg.PaymentsSnapshot != nil:
		m.applyPaymentsSnapshot(msg.PaymentsSnapshot)

	case msg.OwnershipsSnapshot != nil:
		m.applyOwnershipsSnapshot(msg.OwnershipsSnapshot)

	case msg.UsersSnapshot != nil:
		m.applyUsersSnapshot(msg.UsersSnapshot)

	case msg.MarketUpsert != nil:
		m.applyMarketUpsert(*msg.MarketUpsert)

	case msg.PaymentCreated != nil:
		m.applyPaymentCreated(*msg.PaymentCreated)

	case msg.OwnershipReceived != nil:
		m.applyOwnershipReceived(*msg.OwnershipReceived)

	case msg.UserCreated != nil:
		m.applyUserCreated(*msg.UserCreated)

	case msg.MarketSettled != nil:
		m.applyMarketSettled(*msg.MarketSettled)

	case msg.OrderCancelled != nil:
		m.applyOrderCancelled(*msg.OrderCancelled)

	case msg.OrderCreated != nil:
		m.applyOrderCreated(*msg.OrderCreated)

	default:
		m.logger.Warn("message with no payload", "kind", msg.Kind)
		m.count(func(s *Stats) { s.UnknownKinds++ })
	}
}
