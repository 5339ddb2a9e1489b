package protocol

import (
	"github.com/google/uuid"

	"github.com/rickgao/botmarket-mirror/internal/model"
)

// Message kinds (envelope "type" values).
const (
	// Inbound snapshot kinds (full replace).
	KindSessionEstablished = "session_established"
	KindPortfolioSnapshot  = "portfolio_snapshot"
	KindPaymentsSnapshot   = "payments_snapshot"
	KindOwnershipsSnapshot = "ownerships_snapshot"
	KindUsersSnapshot      = "users_snapshot"
	KindMarketUpsert       = "market_upsert"

	// Inbound delta kinds (incremental).
	KindPaymentCreated    = "payment_created"
	KindOwnershipReceived = "ownership_received"
	KindUserCreated       = "user_created"
	KindMarketSettled     = "market_settled"
	KindOrderCancelled    = "order_cancelled"
	KindOrderCreated      = "order_created"

	// Outbound.
	KindAuthenticate = "authenticate"
)

// ServerMessage is the decoded form of one inbound frame. Kind names
// the populated field; all other fields are nil.
type ServerMessage struct {
	Kind string

	SessionEstablished *SessionEstablishedMsg
	PortfolioSnapshot  *model.Portfolio
	PaymentsSnapshot   []model.Payment
	OwnershipsSnapshot []model.Ownership
	UsersSnapshot      []model.User
	MarketUpsert       *model.Market

	PaymentCreated    *model.Payment
	OwnershipReceived *model.Ownership
	UserCreated       *model.User
	MarketSettled     *MarketSettledMsg
	OrderCancelled    *OrderCancelledMsg
	OrderCreated      *OrderCreatedMsg
}

// SessionEstablishedMsg announces the authenticated acting identity.
// Actor may be present without an id if the server contract is
// violated; the session reconciler treats that as a non-fatal defect.
type SessionEstablishedMsg struct {
	Actor *ActorRef
}

// ActorRef identifies the acting user.
type ActorRef struct {
	ID string
}

// MarketSettledMsg closes a market at a settlement price.
type MarketSettledMsg struct {
	MarketID    string
	SettlePrice string
}

// OrderCancelledMsg forces one resting order's size to zero.
type OrderCancelledMsg struct {
	MarketID string
	OrderID  string
}

// OrderCreatedMsg introduces a new order and/or applies the fills and
// trades it produced against resting orders.
type OrderCreatedMsg struct {
	MarketID string
	Order    *model.Order  // New resting order, if any
	Fills    []model.Fill  // Remaining-size overwrites for matched resting orders
	Trades   []model.Trade // Executions to append to the market's trade log
}

// -----------------------------------------------------------------------------
// Wire structs (JSON layout). Converted to model types on decode.
// -----------------------------------------------------------------------------

type actorWire struct {
	ID string `json:"id"`
}

type sessionEstablishedWire struct {
	Actor *actorWire `json:"actor"`
}

type orderWire struct {
	ID       string `json:"id"`
	MarketID string `json:"market_id"`
	OwnerID  string `json:"owner_id"`
	Side     string `json:"side"`
	Price    string `json:"price"`
	Size     string `json:"size"`
}

func (w orderWire) toModel() model.Order {
	return model.Order(w)
}

type tradeWire struct {
	ID         uuid.UUID `json:"id"`
	Price      string    `json:"price"`
	Size       string    `json:"size"`
	ExecutedAt int64     `json:"executed_at"`
}

func (w tradeWire) toModel() model.Trade {
	return model.Trade(w)
}

type marketWire struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Orders      []orderWire `json:"orders"`
	Trades      []tradeWire `json:"trades"`
	Status      string      `json:"status"`
	SettlePrice string      `json:"settle_price"`
}

func (w marketWire) toModel() model.Market {
	m := model.Market{
		ID:          w.ID,
		Title:       w.Title,
		Status:      w.Status,
		SettlePrice: w.SettlePrice,
		Orders:      make([]model.Order, 0, len(w.Orders)),
		Trades:      make([]model.Trade, 0, len(w.Trades)),
	}
	for _, o := range w.Orders {
		m.Orders = append(m.Orders, o.toModel())
	}
	for _, t := range w.Trades {
		m.Trades = append(m.Trades, t.toModel())
	}
	return m
}

type marketUpsertWire struct {
	Market marketWire `json:"market"`
}

type marketSettledWire struct {
	MarketID    string `json:"market_id"`
	SettlePrice string `json:"settle_price"`
}

type orderCancelledWire struct {
	MarketID string `json:"market_id"`
	OrderID  string `json:"order_id"`
}

type fillWire struct {
	OrderID       string `json:"order_id"`
	SizeRemaining string `json:"size_remaining"`
}

type orderCreatedWire struct {
	MarketID string      `json:"market_id"`
	Order    *orderWire  `json:"order"`
	Fills    []fillWire  `json:"fills"`
	Trades   []tradeWire `json:"trades"`
}

type ownershipWire struct {
	OfBotID   string `json:"of_bot_id"`
	OwnerID   string `json:"owner_id"`
	CreatedAt int64  `json:"created_at"`
}

func (w ownershipWire) toModel() model.Ownership {
	return model.Ownership(w)
}

type ownershipsSnapshotWire struct {
	Ownerships []ownershipWire `json:"ownerships"`
}

type ownershipReceivedWire struct {
	Ownership ownershipWire `json:"ownership"`
}

type userWire struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (w userWire) toModel() model.User {
	return model.User(w)
}

type usersSnapshotWire struct {
	Users []userWire `json:"users"`
}

type userCreatedWire struct {
	User userWire `json:"user"`
}

type paymentWire struct {
	ID         uuid.UUID `json:"id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Amount     string    `json:"amount"`
	Memo       string    `json:"memo"`
	CreatedAt  int64     `json:"created_at"`
}

func (w paymentWire) toModel() model.Payment {
	return model.Payment(w)
}

type paymentsSnapshotWire struct {
	Payments []paymentWire `json:"payments"`
}

type paymentCreatedWire struct {
	Payment paymentWire `json:"payment"`
}

type positionWire struct {
	MarketID string `json:"market_id"`
	Size     string `json:"size"`
}

type portfolioWire struct {
	Balance   string         `json:"balance"`
	Positions []positionWire `json:"positions"`
}

func (w portfolioWire) toModel() model.Portfolio {
	p := model.Portfolio{
		Balance:   w.Balance,
		Positions: make([]model.Position, 0, len(w.Positions)),
	}
	for _, pos := range w.Positions {
		p.Positions = append(p.Positions, model.Position(pos))
	}
	return p
}

type authenticateWire struct {
	AccessCredential   string `json:"access_credential"`
	IdentityCredential string `json:"identity_credential"`
}
