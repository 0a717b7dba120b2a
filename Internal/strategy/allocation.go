package strategy

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/fazecat/corrmaker/Internal/types"
)

var ErrEmptySelection = errors.New("selection is empty")

// PriceLookup supplies the prevailing price used to convert a notional
// target into a contract quantity.
type PriceLookup interface {
	FetchLastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// FilterLookup returns the lot step and minimum notional for a symbol.
// Implementations fall back to configured defaults when the venue did not
// publish a filter.
type FilterLookup func(symbol string) (lotStep, minNotional decimal.Decimal)

// SizedOrder is one symbol's share of the capital budget, already reduced
// to a venue-acceptable quantity.
type SizedOrder struct {
	Symbol         string
	Quantity       decimal.Decimal
	Price          decimal.Decimal // price used for sizing
	TargetNotional decimal.Decimal
	RequiredMargin decimal.Decimal
}

// SizingSkip records a symbol dropped during sizing. Skips are normal
// outcomes reported to the caller, not errors.
type SizingSkip struct {
	Symbol string
	Reason string
}

// SizeAllocations splits freeBalance*usageRatio evenly across the selection,
// multiplies each portion by leverage into a target notional, and converts
// that to a quantity at the current price. Quantities are floored to the lot
// step so precision rounding can never over-commit margin; symbols whose
// floored notional falls below the minimum are dropped with a reason.
func SizeAllocations(ctx context.Context, selection []types.RankedCandidate, freeBalance decimal.Decimal,
	usageRatio float64, leverage int, prices PriceLookup, filters FilterLookup) ([]SizedOrder, []SizingSkip, error) {

	if len(selection) == 0 {
		return nil, nil, ErrEmptySelection
	}

	invest := freeBalance.Mul(decimal.NewFromFloat(usageRatio))
	portion := invest.Div(decimal.NewFromInt(int64(len(selection))))
	lev := decimal.NewFromInt(int64(leverage))

	log.Printf("Investable capital: %s | per-symbol portion: %s | leverage: %dx",
		invest.StringFixed(2), portion.StringFixed(2), leverage)

	var sized []SizedOrder
	var skips []SizingSkip

	for _, candidate := range selection {
		price, err := prices.FetchLastPrice(ctx, candidate.Symbol)
		if err != nil {
			skips = append(skips, SizingSkip{
				Symbol: candidate.Symbol,
				Reason: fmt.Sprintf("price lookup failed: %v", err),
			})
			continue
		}
		if price.IsZero() {
			skips = append(skips, SizingSkip{Symbol: candidate.Symbol, Reason: "zero price"})
			continue
		}

		lotStep, minNotional := filters(candidate.Symbol)

		targetNotional := portion.Mul(lev)
		rawQty := targetNotional.Div(price)

		// Floor to the lot step, never round up.
		qty := rawQty.Div(lotStep).Floor().Mul(lotStep)

		if qty.Mul(price).LessThan(minNotional) {
			skips = append(skips, SizingSkip{
				Symbol: candidate.Symbol,
				Reason: fmt.Sprintf("below minimum notional %s", minNotional.String()),
			})
			continue
		}

		sized = append(sized, SizedOrder{
			Symbol:         candidate.Symbol,
			Quantity:       qty,
			Price:          price,
			TargetNotional: targetNotional,
			RequiredMargin: targetNotional.Div(lev), // equals the portion by construction
		})
	}

	return sized, skips, nil
}
