package protocol

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestDecode_SessionEstablished(t *testing.T) {
	frame := []byte(`{"type":"session_established","msg":{"actor":{"id":"user-1"}}}`)

	msg, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if msg.Kind != KindSessionEstablished {
		t.Errorf("Kind = %q, want %q", msg.Kind, KindSessionEstablished)
	}
	if msg.SessionEstablished == nil || msg.SessionEstablished.Actor == nil {
		t.Fatal("expected actor")
	}
	if msg.SessionEstablished.Actor.ID != "user-1" {
		t.Errorf("Actor.ID = %q, want %q", msg.SessionEstablished.Actor.ID, "user-1")
	}
}

func TestDecode_SessionEstablished_MissingActor(t *testing.T) {
	frame := []byte(`{"type":"session_established","msg":{}}`)

	msg, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if msg.SessionEstablished == nil {
		t.Fatal("expected session message")
	}
	if msg.SessionEstablished.Actor != nil {
		t.Errorf("Actor = %+v, want nil", msg.SessionEstablished.Actor)
	}
}

func TestDecode_MarketUpsert(t *testing.T) {
	tradeID := uuid.New()
	frame := []byte(`{"type":"market_upsert","msg":{"market":{
		"id":"mkt-1","title":"Will it rain","status":"open",
		"orders":[{"id":"ord-1","market_id":"mkt-1","owner_id":"user-2","side":"buy","price":"0.40","size":"5"}],
		"trades":[{"id":"` + tradeID.String() + `","price":"0.42","size":"2","executed_at":1705328200000000}]
	}}}`)

	msg, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	m := msg.MarketUpsert
	if m == nil {
		t.Fatal("expected market upsert")
	}
	if m.ID != "mkt-1" {
		t.Errorf("ID = %q, want mkt-1", m.ID)
	}
	if m.Status != "open" {
		t.Errorf("Status = %q, want open", m.Status)
	}
	if len(m.Orders) != 1 || m.Orders[0].Size != "5" {
		t.Errorf("Orders = %+v, want one order with size 5", m.Orders)
	}
	if len(m.Trades) != 1 || m.Trades[0].ID != tradeID {
		t.Errorf("Trades = %+v, want one trade with id %s", m.Trades, tradeID)
	}
}

func TestDecode_OrderCreated_AllParts(t *testing.T) {
	frame := []byte(`{"type":"order_created","msg":{
		"market_id":"mkt-1",
		"order":{"id":"ord-11","market_id":"mkt-1","size":"3"},
		"fills":[{"order_id":"ord-10","size_remaining":"2"}],
		"trades":[{"id":"` + uuid.NewString() + `","price":"0.50","size":"3"}]
	}}`)

	msg, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	oc := msg.OrderCreated
	if oc == nil {
		t.Fatal("expected order created")
	}
	if oc.MarketID != "mkt-1" {
		t.Errorf("MarketID = %q, want mkt-1", oc.MarketID)
	}
	if oc.Order == nil || oc.Order.ID != "ord-11" {
		t.Errorf("Order = %+v, want ord-11", oc.Order)
	}
	if len(oc.Fills) != 1 || oc.Fills[0].SizeRemaining != "2" {
		t.Errorf("Fills = %+v, want one fill with size remaining 2", oc.Fills)
	}
	if len(oc.Trades) != 1 {
		t.Errorf("Trades = %+v, want one trade", oc.Trades)
	}
}

func TestDecode_OrderCreated_OrderOnly(t *testing.T) {
	frame := []byte(`{"type":"order_created","msg":{"market_id":"mkt-1","order":{"id":"ord-10","size":"5"}}}`)

	msg, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	oc := msg.OrderCreated
	if oc.Order == nil || oc.Order.Size != "5" {
		t.Errorf("Order = %+v, want size 5", oc.Order)
	}
	if len(oc.Fills) != 0 || len(oc.Trades) != 0 {
		t.Errorf("Fills/Trades = %+v/%+v, want empty", oc.Fills, oc.Trades)
	}
}

func TestDecode_Snapshots(t *testing.T) {
	paymentID := uuid.NewString()

	tests := []struct {
		name  string
		frame string
		check func(t *testing.T, msg ServerMessage)
	}{
		{
			name:  "payments",
			frame: `{"type":"payments_snapshot","msg":{"payments":[{"id":"` + paymentID + `","amount":"10"}]}}`,
			check: func(t *testing.T, msg ServerMessage) {
				if len(msg.PaymentsSnapshot) != 1 || msg.PaymentsSnapshot[0].Amount != "10" {
					t.Errorf("PaymentsSnapshot = %+v", msg.PaymentsSnapshot)
				}
			},
		},
		{
			name:  "ownerships",
			frame: `{"type":"ownerships_snapshot","msg":{"ownerships":[{"of_bot_id":"bot-1","owner_id":"user-1"}]}}`,
			check: func(t *testing.T, msg ServerMessage) {
				if len(msg.OwnershipsSnapshot) != 1 || msg.OwnershipsSnapshot[0].OfBotID != "bot-1" {
					t.Errorf("OwnershipsSnapshot = %+v", msg.OwnershipsSnapshot)
				}
			},
		},
		{
			name:  "users",
			frame: `{"type":"users_snapshot","msg":{"users":[{"id":"user-1","name":"Ada"}]}}`,
			check: func(t *testing.T, msg ServerMessage) {
				if len(msg.UsersSnapshot) != 1 || msg.UsersSnapshot[0].Name != "Ada" {
					t.Errorf("UsersSnapshot = %+v", msg.UsersSnapshot)
				}
			},
		},
		{
			name:  "portfolio",
			frame: `{"type":"portfolio_snapshot","msg":{"balance":"100","positions":[{"market_id":"mkt-1","size":"3"}]}}`,
			check: func(t *testing.T, msg ServerMessage) {
				if msg.PortfolioSnapshot == nil || msg.PortfolioSnapshot.Balance != "100" {
					t.Errorf("PortfolioSnapshot = %+v", msg.PortfolioSnapshot)
				}
			},
		},
		{
			name:  "empty payments",
			frame: `{"type":"payments_snapshot","msg":{"payments":[]}}`,
			check: func(t *testing.T, msg ServerMessage) {
				if msg.PaymentsSnapshot == nil || len(msg.PaymentsSnapshot) != 0 {
					t.Errorf("PaymentsSnapshot = %+v, want non-nil empty", msg.PaymentsSnapshot)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.frame))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			tt.check(t, msg)
		})
	}
}

func TestDecode_Deltas(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"market_settled","msg":{"market_id":"mkt-1","settle_price":"100"}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if msg.MarketSettled == nil || msg.MarketSettled.SettlePrice != "100" {
		t.Errorf("MarketSettled = %+v", msg.MarketSettled)
	}

	msg, err = Decode([]byte(`{"type":"order_cancelled","msg":{"market_id":"mkt-1","order_id":"ord-10"}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if msg.OrderCancelled == nil || msg.OrderCancelled.OrderID != "ord-10" {
		t.Errorf("OrderCancelled = %+v", msg.OrderCancelled)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed frame")
	}
	if _, err := Decode([]byte(`{"type":"market_upsert","msg":"nope"}`)); err == nil {
		t.Error("expected error for malformed msg body")
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"type":"weather_report","msg":{}}`))
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}

func TestEncodeAuthenticate(t *testing.T) {
	data, err := EncodeAuthenticate("access-tok", "identity-tok")
	if err != nil {
		t.Fatalf("EncodeAuthenticate failed: %v", err)
	}

	want := `{"type":"authenticate","msg":{"access_credential":"access-tok","identity_credential":"identity-tok"}}`
	if string(data) != want {
		t.Errorf("frame = %s, want %s", data, want)
	}
}
