package handlers

import (
	"context"
	"log"
	"time"

	datafeed "github.com/fazecat/corrmaker/Internal/database"
	"github.com/fazecat/corrmaker/Internal/strategy"
	"github.com/fazecat/corrmaker/Internal/types"
)

// AccountService covers the per-symbol venue configuration the runner needs
// before it can submit.
type AccountService interface {
	SetLeverage(ctx context.Context, symbol string, leverage int) error
}

// OrderGateway submits one order and returns the venue order id.
type OrderGateway interface {
	SubmitOrder(ctx context.Context, req *strategy.OrderRequest) (string, error)
}

// RunOrders submits the intents strictly in order, one attempt per symbol.
// A leverage-set or submission failure marks that symbol Failed and the run
// moves on; the outcome slice always has one entry per intent, in input
// order. pacing is the fixed delay between symbol submissions.
func RunOrders(ctx context.Context, intents []*strategy.OrderRequest,
	account AccountService, gateway OrderGateway, pacing time.Duration) []types.ExecutionOutcome {

	outcomes := make([]types.ExecutionOutcome, 0, len(intents))

	for i, intent := range intents {
		outcomes = append(outcomes, runOne(ctx, intent, account, gateway))

		if pacing > 0 && i < len(intents)-1 {
			time.Sleep(pacing)
		}
	}

	return outcomes
}

func runOne(ctx context.Context, intent *strategy.OrderRequest,
	account AccountService, gateway OrderGateway) types.ExecutionOutcome {

	if err := account.SetLeverage(ctx, intent.Symbol, intent.Leverage); err != nil {
		log.Printf("Leverage set failed for %s: %v", intent.Symbol, err)
		return types.ExecutionOutcome{
			Symbol:  intent.Symbol,
			Status:  types.OutcomeFailed,
			Failure: datafeed.ClassifyOrderError(err),
			Reason:  err.Error(),
		}
	}

	orderID, err := gateway.SubmitOrder(ctx, intent)
	if err != nil {
		kind := datafeed.ClassifyOrderError(err)
		log.Printf("Order failed for %s (%s): %v", intent.Symbol, kind, err)
		return types.ExecutionOutcome{
			Symbol:  intent.Symbol,
			Status:  types.OutcomeFailed,
			Failure: kind,
			Reason:  err.Error(),
		}
	}

	log.Printf("Order submitted: %s x%s (order id %s)", intent.Symbol, intent.Quantity.String(), orderID)
	return types.ExecutionOutcome{
		Symbol:  intent.Symbol,
		Status:  types.OutcomeSubmitted,
		OrderID: orderID,
	}
}
