package mirror

import (
	"github.com/rickgao/botmarket-mirror/internal/model"
	"github.com/rickgao/botmarket-mirror/internal/observable"
	"github.com/rickgao/botmarket-mirror/internal/protocol"
)

// applyMarketUpsert fully replaces a market's state. The same message
// kind covers brand-new markets and post-reconnect resnapshots; for a
// known id the existing observable instance is reused so subscribers
// attached before a reconnect keep receiving updates.
func (m *Mirror) applyMarketUpsert(mkt model.Market) {
	if v, ok := m.marketsByID[mkt.ID]; ok {
		v.Set(mkt)
		m.count(func(s *Stats) { s.Applied++ })
		return
	}

	v := observable.New(mkt, m.logger)
	m.marketsByID[mkt.ID] = v
	m.markets.Update(func(reg map[string]observable.ReadOnly[model.Market]) map[string]observable.ReadOnly[model.Market] {
		next := make(map[string]observable.ReadOnly[model.Market], len(reg)+1)
		for id, ro := range reg {
			next[id] = ro
		}
		next[mkt.ID] = v
		return next
	})
	m.count(func(s *Stats) { s.Applied++ })
}

// applyMarketSettled closes a market: status becomes closed at the
// settle price and open orders are cleared. The trade log survives.
func (m *Mirror) applyMarketSettled(msg protocol.MarketSettledMsg) {
	v, ok := m.marketsByID[msg.MarketID]
	if !ok {
		m.logger.Warn("settlement for unknown market", "market_id", msg.MarketID)
		m.count(func(s *Stats) { s.DroppedNoEnt++ })
		return
	}

	v.Update(func(mkt model.Market) model.Market {
		mkt.Status = model.MarketClosed
		mkt.SettlePrice = msg.SettlePrice
		mkt.Orders = []model.Order{}
		return mkt
	})
	m.count(func(s *Stats) { s.Applied++ })
}

// applyOrderCancelled forces one order's remaining size to zero. The
// order is retained for audit. An unknown order id is a silent no-op:
// the order may already have been filtered out of older state.
func (m *Mirror) applyOrderCancelled(msg protocol.OrderCancelledMsg) {
	v, ok := m.marketsByID[msg.MarketID]
	if !ok {
		m.logger.Warn("order cancel for unknown market",
			"market_id", msg.MarketID,
			"order_id", msg.OrderID,
		)
		m.count(func(s *Stats) { s.DroppedNoEnt++ })
		return
	}

	v.Update(func(mkt model.Market) model.Market {
		mkt.Orders = setOrderSize(mkt.Orders, msg.OrderID, "0")
		return mkt
	})
	m.count(func(s *Stats) { s.Applied++ })
}

// applyOrderCreated appends the new order (if any), overwrites the
// remaining sizes of resting orders it filled against, and appends the
// trades it produced. A single delta can do all three.
func (m *Mirror) applyOrderCreated(msg protocol.OrderCreatedMsg) {
	v, ok := m.marketsByID[msg.MarketID]
	if !ok {
		m.logger.Warn("order create for unknown market", "market_id", msg.MarketID)
		m.count(func(s *Stats) { s.DroppedNoEnt++ })
		return
	}

	v.Update(func(mkt model.Market) model.Market {
		orders := make([]model.Order, len(mkt.Orders), len(mkt.Orders)+1)
		copy(orders, mkt.Orders)
		if msg.Order != nil {
			orders = append(orders, *msg.Order)
		}
		for _, f := range msg.Fills {
			orders = overwriteSize(orders, f.OrderID, f.SizeRemaining)
		}
		mkt.Orders = orders

		if len(msg.Trades) > 0 {
			trades := make([]model.Trade, len(mkt.Trades), len(mkt.Trades)+len(msg.Trades))
			copy(trades, mkt.Trades)
			mkt.Trades = append(trades, msg.Trades...)
		}
		return mkt
	})
	m.count(func(s *Stats) { s.Applied++ })
}

// setOrderSize returns a copy of orders with the matching order's size
// replaced. Unmatched id returns the orders unchanged (copied).
func setOrderSize(orders []model.Order, orderID, size string) []model.Order {
	next := make([]model.Order, len(orders))
	copy(next, orders)
	return overwriteSize(next, orderID, size)
}

// overwriteSize mutates orders in place; callers pass a copy.
func overwriteSize(orders []model.Order, orderID, size string) []model.Order {
	for i := range orders {
		if orders[i].ID == orderID {
			orders[i].Size = size
			break
		}
	}
	return orders
}
