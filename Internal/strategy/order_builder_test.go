package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildOrderRequest(t *testing.T) {
	qty := decimal.RequireFromString("0.5")
	price := decimal.RequireFromString("3000")

	tests := []struct {
		name             string
		price            *decimal.Decimal
		mode             PositionMode
		wantType         string
		wantTimeInForce  string
		wantPositionSide string
	}{
		{
			name:             "one-way limit carries GTC and no position side",
			price:            &price,
			mode:             ModeOneWay,
			wantType:         "LIMIT",
			wantTimeInForce:  "GTC",
			wantPositionSide: "",
		},
		{
			name:             "one-way market carries neither tag",
			price:            nil,
			mode:             ModeOneWay,
			wantType:         "MARKET",
			wantTimeInForce:  "",
			wantPositionSide: "",
		},
		{
			name:             "hedge limit carries LONG position side",
			price:            &price,
			mode:             ModeHedge,
			wantType:         "LIMIT",
			wantTimeInForce:  "",
			wantPositionSide: "LONG",
		},
		{
			name:             "hedge market carries LONG position side",
			price:            nil,
			mode:             ModeHedge,
			wantType:         "MARKET",
			wantTimeInForce:  "",
			wantPositionSide: "LONG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildOrderRequest("ETHUSDT", qty, tt.price, tt.mode, 5)
			if err != nil {
				t.Fatalf("BuildOrderRequest() unexpected error: %v", err)
			}

			if req.Side != "BUY" {
				t.Errorf("Side = %s, want BUY", req.Side)
			}
			if req.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", req.Type, tt.wantType)
			}
			if req.TimeInForce != tt.wantTimeInForce {
				t.Errorf("TimeInForce = %q, want %q", req.TimeInForce, tt.wantTimeInForce)
			}
			if req.PositionSide != tt.wantPositionSide {
				t.Errorf("PositionSide = %q, want %q", req.PositionSide, tt.wantPositionSide)
			}
			if tt.price != nil && !req.Price.Equal(price) {
				t.Errorf("Price = %s, want %s", req.Price, price)
			}
			if req.Leverage != 5 {
				t.Errorf("Leverage = %d, want 5", req.Leverage)
			}
		})
	}
}

func TestBuildOrderRequest_RejectsBadInputs(t *testing.T) {
	price := decimal.RequireFromString("3000")
	zero := decimal.Zero

	if _, err := BuildOrderRequest("ETHUSDT", decimal.Zero, &price, ModeOneWay, 5); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := BuildOrderRequest("ETHUSDT", decimal.RequireFromString("-1"), &price, ModeOneWay, 5); err == nil {
		t.Error("expected error for negative quantity")
	}
	if _, err := BuildOrderRequest("ETHUSDT", decimal.RequireFromString("1"), &zero, ModeOneWay, 5); err == nil {
		t.Error("expected error for zero limit price")
	}
}
