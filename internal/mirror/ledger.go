package mirror

import "github.com/rickgao/botmarket-mirror/internal/model"

// applyPaymentsSnapshot replaces the entire ledger.
func (m *Mirror) applyPaymentsSnapshot(payments []model.Payment) {
	m.payments.Set(payments)
	m.count(func(s *Stats) { s.Applied++ })
}

// applyPaymentCreated appends a payment unless its id is already
// present. Duplicates are defined no-ops, not errors.
func (m *Mirror) applyPaymentCreated(p model.Payment) {
	for _, existing := range m.payments.Get() {
		if existing.ID == p.ID {
			m.count(func(s *Stats) { s.Duplicates++ })
			return
		}
	}
	m.payments.Update(func(list []model.Payment) []model.Payment {
		next := make([]model.Payment, len(list), len(list)+1)
		copy(next, list)
		return append(next, p)
	})
	m.count(func(s *Stats) { s.Applied++ })
}

// applyOwnershipsSnapshot replaces the entire ownership list.
func (m *Mirror) applyOwnershipsSnapshot(ownerships []model.Ownership) {
	m.ownerships.Set(ownerships)
	m.count(func(s *Stats) { s.Applied++ })
}

// applyOwnershipReceived appends an ownership unless one already exists
// for the same bot id (first-write-wins per key within a session).
func (m *Mirror) applyOwnershipReceived(o model.Ownership) {
	for _, existing := range m.ownerships.Get() {
		if existing.OfBotID == o.OfBotID {
			m.count(func(s *Stats) { s.Duplicates++ })
			return
		}
	}
	m.ownerships.Update(func(list []model.Ownership) []model.Ownership {
		next := make([]model.Ownership, len(list), len(list)+1)
		copy(next, list)
		return append(next, o)
	})
	m.count(func(s *Stats) { s.Applied++ })
}

// applyUsersSnapshot rebuilds the directory from scratch.
func (m *Mirror) applyUsersSnapshot(users []model.User) {
	next := make(map[string]model.User, len(users))
	for _, u := range users {
		next[u.ID] = u
	}
	m.users.Set(next)
	m.count(func(s *Stats) { s.Applied++ })
}

// applyUserCreated upserts one user unconditionally (latest write wins).
func (m *Mirror) applyUserCreated(u model.User) {
	m.users.Update(func(dir map[string]model.User) map[string]model.User {
		next := make(map[string]model.User, len(dir)+1)
		for id, existing := range dir {
			next[id] = existing
		}
		next[u.ID] = u
		return next
	})
	m.count(func(s *Stats) { s.Applied++ })
}

// applyPortfolioSnapshot overwrites the portfolio. No delta form exists.
func (m *Mirror) applyPortfolioSnapshot(p model.Portfolio) {
	m.portfolio.Set(p)
	m.count(func(s *Stats) { s.Applied++ })
}
