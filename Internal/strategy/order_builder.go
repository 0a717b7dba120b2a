package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PositionMode is the venue's account-level position accounting mode,
// queried once per run before order translation.
type PositionMode int

const (
	ModeOneWay PositionMode = iota
	ModeHedge
)

func (m PositionMode) String() string {
	if m == ModeHedge {
		return "Hedge Mode"
	}
	return "One-Way Mode"
}

// OrderRequest is the concrete order shape the venue accepts. It carries
// exactly the mode-dependent parameters: hedge accounts require an explicit
// position side, one-way limit orders carry a time-in-force.
type OrderRequest struct {
	Symbol       string
	Side         string // "BUY"
	Type         string // "LIMIT" or "MARKET"
	Quantity     decimal.Decimal
	Price        decimal.Decimal // zero for market orders
	TimeInForce  string          // "GTC" for one-way limit orders, else empty
	PositionSide string          // "LONG" in hedge mode, else empty
	Leverage     int
}

// BuildOrderRequest maps a buy intent onto the venue's order shape for the
// given position mode. It is pure: no venue call happens here.
func BuildOrderRequest(symbol string, quantity decimal.Decimal, price *decimal.Decimal,
	mode PositionMode, leverage int) (*OrderRequest, error) {

	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity.String())
	}

	req := &OrderRequest{
		Symbol:   symbol,
		Side:     "BUY",
		Type:     "MARKET",
		Quantity: quantity,
		Leverage: leverage,
	}

	if price != nil {
		if !price.IsPositive() {
			return nil, fmt.Errorf("limit price must be positive, got %s", price.String())
		}
		req.Type = "LIMIT"
		req.Price = *price
	}

	switch mode {
	case ModeHedge:
		// Omitting the side on a hedge account gets the order rejected
		// venue-side, so it is always tagged here.
		req.PositionSide = "LONG"
	case ModeOneWay:
		if req.Type == "LIMIT" {
			req.TimeInForce = "GTC"
		}
	}

	return req, nil
}
