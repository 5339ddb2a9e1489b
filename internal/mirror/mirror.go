package mirror

import (
	"log/slog"
	"sync"

	"github.com/rickgao/botmarket-mirror/internal/model"
	"github.com/rickgao/botmarket-mirror/internal/observable"
	"github.com/rickgao/botmarket-mirror/internal/protocol"
)

// Stats contains dispatch counters.
type Stats struct {
	Applied       int64 // Messages applied to mirror state
	DroppedNoEnt  int64 // Deltas dropped because their entity was unknown
	Duplicates    int64 // Duplicate-create deltas ignored (defined no-ops)
	UnknownKinds  int64 // Envelope kinds outside the inbound contract
	MissingFields int64 // Messages missing required sub-fields (contract defects)
}

// Mirror owns every observable exposed to consumers and is the sole
// writer to all of them.
type Mirror struct {
	logger *slog.Logger

	stale      *observable.Value[bool]
	sessionID  *observable.Value[string]
	portfolio  *observable.Value[model.Portfolio]
	payments   *observable.Value[[]model.Payment]
	ownerships *observable.Value[[]model.Ownership]
	users      *observable.Value[map[string]model.User]

	// Per-market registry. Entries are created lazily on first sight
	// and never removed, so held subscriptions stay valid across
	// reconnect resnapshots.
	marketsByID map[string]*observable.Value[model.Market]
	markets     *observable.Value[map[string]observable.ReadOnly[model.Market]]

	// Single-flight dispatch: an Apply issued from inside a listener
	// is queued behind the in-flight frame instead of recursing.
	queueMu  sync.Mutex
	queue    []protocol.ServerMessage
	applying bool

	statsMu sync.Mutex
	stats   Stats
}

// New creates an empty mirror. The stale flag starts true: nothing is
// trusted until a session is established on a live connection.
func New(logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}

	return &Mirror{
		logger:      logger,
		stale:       observable.New(true, logger),
		sessionID:   observable.New("", logger),
		portfolio:   observable.New(model.Portfolio{}, logger),
		payments:    observable.New([]model.Payment(nil), logger),
		ownerships:  observable.New([]model.Ownership(nil), logger),
		users:       observable.New(map[string]model.User{}, logger),
		marketsByID: make(map[string]*observable.Value[model.Market]),
		markets:     observable.New(map[string]observable.ReadOnly[model.Market]{}, logger),
	}
}

// Stale reports whether the mirror is currently backed by an
// authenticated live connection. True initially and after every
// disconnect; false only once session_established arrives.
func (m *Mirror) Stale() observable.ReadOnly[bool] {
	return m.stale
}

// SessionID is the authenticated acting user's id. Empty until the
// first session_established. Not to be trusted while Stale is true.
func (m *Mirror) SessionID() observable.ReadOnly[string] {
	return m.sessionID
}

// Portfolio is the acting user's holdings (latest snapshot wins).
func (m *Mirror) Portfolio() observable.ReadOnly[model.Portfolio] {
	return m.portfolio
}

// Payments is the deduplicated payment ledger in arrival order.
func (m *Mirror) Payments() observable.ReadOnly[[]model.Payment] {
	return m.payments
}

// Ownerships is the bot ownership list, first-write-wins per bot id.
func (m *Mirror) Ownerships() observable.ReadOnly[[]model.Ownership] {
	return m.ownerships
}

// Users is the user directory keyed by id.
func (m *Mirror) Users() observable.ReadOnly[map[string]model.User] {
	return m.users
}

// Markets is the per-market registry: a map from market id to that
// market's own read-only observable. Registry subscribers are notified
// when a new market id appears; per-market subscribers are notified on
// every change to that market.
func (m *Mirror) Markets() observable.ReadOnly[map[string]observable.ReadOnly[model.Market]] {
	return m.markets
}

// Market returns the observable for one market id, if known.
func (m *Mirror) Market(id string) (observable.ReadOnly[model.Market], bool) {
	v, ok := m.markets.Get()[id]
	return v, ok
}

// Stats returns current dispatch counters.
func (m *Mirror) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

func (m *Mirror) count(fn func(*Stats)) {
	m.statsMu.Lock()
	fn(&m.stats)
	m.statsMu.Unlock()
}
