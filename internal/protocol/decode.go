package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rickgao/botmarket-mirror/internal/model"
)

// ErrUnknownKind is returned for envelopes whose type is not part of
// the inbound contract. Callers drop the frame and keep going.
var ErrUnknownKind = errors.New("unknown message kind")

// envelope is the outer frame layout.
type envelope struct {
	Type string          `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

// Decode parses one raw frame into a ServerMessage. On error no
// partial message is returned; the frame must be dropped.
func Decode(data []byte) (ServerMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ServerMessage{}, fmt.Errorf("parse envelope: %w", err)
	}

	out := ServerMessage{Kind: env.Type}

	switch env.Type {
	case KindSessionEstablished:
		var wire sessionEstablishedWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		msg := &SessionEstablishedMsg{}
		if wire.Actor != nil {
			msg.Actor = &ActorRef{ID: wire.Actor.ID}
		}
		out.SessionEstablished = msg

	case KindPortfolioSnapshot:
		var wire portfolioWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		p := wire.toModel()
		out.PortfolioSnapshot = &p

	case KindPaymentsSnapshot:
		var wire paymentsSnapshotWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		payments := make([]model.Payment, 0, len(wire.Payments))
		for _, p := range wire.Payments {
			payments = append(payments, p.toModel())
		}
		out.PaymentsSnapshot = payments

	case KindOwnershipsSnapshot:
		var wire ownershipsSnapshotWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		ownerships := make([]model.Ownership, 0, len(wire.Ownerships))
		for _, o := range wire.Ownerships {
			ownerships = append(ownerships, o.toModel())
		}
		out.OwnershipsSnapshot = ownerships

	case KindUsersSnapshot:
		var wire usersSnapshotWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		users := make([]model.User, 0, len(wire.Users))
		for _, u := range wire.Users {
			users = append(users, u.toModel())
		}
		out.UsersSnapshot = users

	case KindMarketUpsert:
		var wire marketUpsertWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		m := wire.Market.toModel()
		out.MarketUpsert = &m

	case KindPaymentCreated:
		var wire paymentCreatedWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		p := wire.Payment.toModel()
		out.PaymentCreated = &p

	case KindOwnershipReceived:
		var wire ownershipReceivedWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		o := wire.Ownership.toModel()
		out.OwnershipReceived = &o

	case KindUserCreated:
		var wire userCreatedWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		u := wire.User.toModel()
		out.UserCreated = &u

	case KindMarketSettled:
		var wire marketSettledWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		out.MarketSettled = &MarketSettledMsg{
			MarketID:    wire.MarketID,
			SettlePrice: wire.SettlePrice,
		}

	case KindOrderCancelled:
		var wire orderCancelledWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		out.OrderCancelled = &OrderCancelledMsg{
			MarketID: wire.MarketID,
			OrderID:  wire.OrderID,
		}

	case KindOrderCreated:
		var wire orderCreatedWire
		if err := unmarshalMsg(env, &wire); err != nil {
			return ServerMessage{}, err
		}
		msg := &OrderCreatedMsg{MarketID: wire.MarketID}
		if wire.Order != nil {
			o := wire.Order.toModel()
			msg.Order = &o
		}
		for _, f := range wire.Fills {
			msg.Fills = append(msg.Fills, model.Fill(f))
		}
		for _, t := range wire.Trades {
			msg.Trades = append(msg.Trades, t.toModel())
		}
		out.OrderCreated = msg

	default:
		return ServerMessage{}, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
	}

	return out, nil
}

func unmarshalMsg(env envelope, dst any) error {
	if err := json.Unmarshal(env.Msg, dst); err != nil {
		return fmt.Errorf("parse %s: %w", env.Type, err)
	}
	return nil
}
