package model

import "github.com/google/uuid"

// Market status values. A market is either open or closed; a closed
// market never transitions back to open.
const (
	MarketOpen   = "open"
	MarketClosed = "closed"
)

// Market represents one tradeable market and its local order book.
type Market struct {
	ID          string  // Primary key
	Title       string  // Display title
	Orders      []Order // Resting orders, arrival order; cancelled orders stay with size "0"
	Trades      []Trade // Append-only trade log, never reordered or truncated
	Status      string  // MarketOpen or MarketClosed
	SettlePrice string  // Set only when Status == MarketClosed
}

// Order is a resting order within a market.
type Order struct {
	ID       string // Unique within its market
	MarketID string // Owning market
	OwnerID  string // Placing user
	Side     string // "buy" or "sell"
	Price    string // Limit price (numeric-as-text)
	Size     string // Remaining size (numeric-as-text); only decreases, "0" once cancelled
}

// Trade is an immutable execution record appended to a market's log.
type Trade struct {
	ID         uuid.UUID // Globally unique (assigned upstream)
	Price      string    // Execution price (numeric-as-text)
	Size       string    // Executed size (numeric-as-text)
	ExecutedAt int64     // Server timestamp (µs since epoch)
}

// Fill adjusts the remaining size of a resting order matched by an
// incoming order.
type Fill struct {
	OrderID       string // Resting order that was matched
	SizeRemaining string // New remaining size (numeric-as-text)
}

// Ownership records that a user owns a bot. Keyed by OfBotID;
// first-write-wins within a session.
type Ownership struct {
	OfBotID   string // Owned bot id (unique key)
	OwnerID   string // Owning user id
	CreatedAt int64  // Server timestamp (µs since epoch)
}

// User is a directory entry, upsertable (latest write wins).
type User struct {
	ID   string // Primary key
	Name string // Display name
}

// Payment is a ledger entry. The ledger is a deduplicated ordered list.
type Payment struct {
	ID         uuid.UUID // Globally unique (assigned upstream)
	FromUserID string
	ToUserID   string
	Amount     string // Numeric-as-text
	Memo       string
	CreatedAt  int64 // Server timestamp (µs since epoch)
}

// Position is a holding within a portfolio.
type Position struct {
	MarketID string
	Size     string // Numeric-as-text
}

// Portfolio is the acting user's holdings. Snapshot-only: latest write
// wins, no delta form exists.
type Portfolio struct {
	Balance   string // Cash balance (numeric-as-text)
	Positions []Position
}
