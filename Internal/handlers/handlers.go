package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	datafeed "github.com/fazecat/corrmaker/Internal/database"
	"github.com/fazecat/corrmaker/Internal/strategy"
	"github.com/fazecat/corrmaker/Internal/types"
	"github.com/fazecat/corrmaker/Internal/utils/config"
	"github.com/fazecat/corrmaker/Internal/utils/formatting"
	"github.com/fazecat/corrmaker/Internal/utils/scanner"
)

// HandleScan runs the screening half of the pipeline: fetch the reference
// series, screen the contract universe, rank by correlation, and print the
// ranking. A reference-series or universe fetch failure is fatal to the run.
func HandleScan(ctx context.Context, cfg *config.Config, client *datafeed.Client) ([]types.RankedCandidate, error) {
	ranked, _, err := scanUniverse(ctx, cfg, client)
	return ranked, err
}

func scanUniverse(ctx context.Context, cfg *config.Config, client *datafeed.Client) ([]types.RankedCandidate, []types.Contract, error) {
	ref := cfg.Screener.ReferenceSymbol

	reference, err := client.FetchCloseSeries(ctx, ref, cfg.Screener.Timeframe, cfg.Screener.WindowLength)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch reference series for %s: %w", ref, err)
	}

	contracts, err := client.GetEligibleContracts(ctx, cfg.Screener.QuoteAsset, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list eligible contracts: %w", err)
	}

	symbols := make([]string, 0, len(contracts))
	for _, contract := range contracts {
		symbols = append(symbols, contract.Symbol)
	}
	log.Printf("Screening %d eligible %s perpetual contracts against %s (%s x%d)",
		len(symbols), cfg.Screener.QuoteAsset, ref, cfg.Screener.Timeframe, cfg.Screener.WindowLength)

	ranked := scanner.RankByCorrelation(ctx, reference, symbols, client,
		cfg.Screener.Timeframe, cfg.Screener.WindowLength,
		scanner.SelectionPolicy(cfg.Screener.SelectionPolicy))

	printRanking(ranked, cfg.Screener.TopN, ref)
	return ranked, contracts, nil
}

// HandleScanAndBuy runs the full pipeline: scan, select, size, translate,
// submit, report.
func HandleScanAndBuy(ctx context.Context, cfg *config.Config, client *datafeed.Client) error {
	ranked, contracts, err := scanUniverse(ctx, cfg, client)
	if err != nil {
		return err
	}

	policy := scanner.SelectionPolicy(cfg.Screener.SelectionPolicy)
	selection := scanner.SelectTop(ranked, cfg.Screener.TopN, cfg.Screener.CorrThreshold, policy)
	if len(selection) == 0 {
		fmt.Printf("\nNo candidates meet the %.2f correlation threshold. Nothing to buy.\n", cfg.Screener.CorrThreshold)
		return nil
	}

	balance, err := client.FetchFreeBalance(ctx, cfg.Screener.QuoteAsset)
	if err != nil {
		return fmt.Errorf("failed to fetch free balance: %w", err)
	}
	fmt.Printf("\nFree %s balance: %s\n", cfg.Screener.QuoteAsset, balance.StringFixed(2))

	mode, err := client.QueryPositionMode(ctx)
	if err != nil {
		if !cfg.Trading.ModeFallbackOneWay {
			return err
		}
		log.Printf("WARNING: %v - falling back to one-way mode per config", err)
		mode = strategy.ModeOneWay
	}
	fmt.Printf("Position mode: %s\n", mode)

	filters := buildFilterLookup(contracts, cfg)

	sized, skips, err := strategy.SizeAllocations(ctx, selection, balance,
		cfg.Trading.UsageRatio, cfg.Trading.Leverage, client, filters)
	if err != nil {
		return err
	}
	for _, skip := range skips {
		fmt.Printf("Skipping %s: %s\n", skip.Symbol, skip.Reason)
	}
	if len(sized) == 0 {
		fmt.Println("\nNo symbol survived sizing. Nothing to buy.")
		return nil
	}

	intents, priced, skipped, err := buildIntents(ctx, cfg, client, sized, mode)
	if err != nil {
		return err
	}

	pacing := time.Duration(cfg.Venue.SubmitPacingMS) * time.Millisecond
	outcomes := RunOrders(ctx, intents, client, client, pacing)
	outcomes = append(outcomes, skipped...)

	logOutcomes(ctx, outcomes, priced)
	printReport(outcomes, skips)
	return nil
}

// BookLookup supplies the top of book used to price limit orders.
type BookLookup interface {
	FetchOrderBookTop(ctx context.Context, symbol string, depth int) (bestBid, bestAsk decimal.Decimal, err error)
}

// buildIntents translates sized orders into venue order requests. Limit
// style prices each order at the best ask; a symbol whose book can't be read
// becomes a Skipped outcome so the run report still accounts for it.
func buildIntents(ctx context.Context, cfg *config.Config, books BookLookup,
	sized []strategy.SizedOrder, mode strategy.PositionMode) ([]*strategy.OrderRequest, map[string]strategy.SizedOrder, []types.ExecutionOutcome, error) {

	intents := make([]*strategy.OrderRequest, 0, len(sized))
	priced := make(map[string]strategy.SizedOrder, len(sized))
	var skipped []types.ExecutionOutcome

	for _, order := range sized {
		var price *decimal.Decimal
		if cfg.Trading.OrderStyle == "limit" {
			_, bestAsk, err := books.FetchOrderBookTop(ctx, order.Symbol, 5)
			if err != nil {
				log.Printf("Skipping %s: order book unavailable: %v", order.Symbol, err)
				priced[order.Symbol] = order
				skipped = append(skipped, types.ExecutionOutcome{
					Symbol: order.Symbol,
					Status: types.OutcomeSkipped,
					Reason: fmt.Sprintf("order book unavailable: %v", err),
				})
				continue
			}
			price = &bestAsk
			order.Price = bestAsk
		}

		intent, err := strategy.BuildOrderRequest(order.Symbol, order.Quantity, price, mode, cfg.Trading.Leverage)
		if err != nil {
			return nil, nil, nil, err
		}

		fmt.Printf("Prepared %s: qty=%s price=%s notional=%s margin=%s\n",
			order.Symbol, order.Quantity.String(), order.Price.String(),
			order.TargetNotional.StringFixed(2), order.RequiredMargin.StringFixed(2))

		intents = append(intents, intent)
		priced[order.Symbol] = order
	}

	return intents, priced, skipped, nil
}

func buildFilterLookup(contracts []types.Contract, cfg *config.Config) strategy.FilterLookup {
	bySymbol := make(map[string]types.Contract, len(contracts))
	for _, contract := range contracts {
		bySymbol[contract.Symbol] = contract
	}

	defaultStep := decimal.NewFromFloat(cfg.Trading.LotStep)
	defaultNotional := decimal.NewFromFloat(cfg.Trading.MinOrderValue)

	return func(symbol string) (decimal.Decimal, decimal.Decimal) {
		lotStep, minNotional := defaultStep, defaultNotional
		if contract, ok := bySymbol[symbol]; ok {
			if contract.LotStep > 0 {
				lotStep = decimal.NewFromFloat(contract.LotStep)
			}
			if contract.MinNotional > 0 {
				minNotional = decimal.NewFromFloat(contract.MinNotional)
			}
		}
		return lotStep, minNotional
	}
}

// logOutcomes records each outcome to the trades table when a database is
// connected. DB absence degrades to console-only operation.
func logOutcomes(ctx context.Context, outcomes []types.ExecutionOutcome, priced map[string]strategy.SizedOrder) {
	if datafeed.DB == nil {
		return
	}
	for _, outcome := range outcomes {
		order := priced[outcome.Symbol]
		if err := datafeed.LogTradeExecution(ctx, outcome, order.Quantity, order.Price); err != nil {
			log.Printf("Failed to log outcome for %s: %v", outcome.Symbol, err)
		}
	}
}

func printRanking(ranked []types.RankedCandidate, topN int, reference string) {
	fmt.Printf("\nTop %d contracts by correlation with %s:\n", topN, reference)
	fmt.Println(formatting.Separator(48))
	shown := ranked
	if len(shown) > topN {
		shown = shown[:topN]
	}
	for i, candidate := range shown {
		fmt.Printf("%2d. %-16s | correlation: %+.4f\n", i+1, candidate.Symbol, candidate.Correlation)
	}
	if len(shown) == 0 {
		fmt.Println("(no scorable candidates)")
	}
}

func printReport(outcomes []types.ExecutionOutcome, skips []strategy.SizingSkip) {
	fmt.Println()
	fmt.Println(formatting.Separator(64))
	fmt.Println("Run report")
	fmt.Println(formatting.Separator(64))

	var bought []string
	for _, outcome := range outcomes {
		switch outcome.Status {
		case types.OutcomeSubmitted:
			fmt.Printf("SUBMITTED  %-16s order id %s\n", outcome.Symbol, outcome.OrderID)
			bought = append(bought, outcome.Symbol)
		case types.OutcomeFailed:
			fmt.Printf("FAILED     %-16s [%s] %s\n", outcome.Symbol, outcome.Failure, formatting.Truncate(outcome.Reason, 60))
		case types.OutcomeSkipped:
			fmt.Printf("SKIPPED    %-16s %s\n", outcome.Symbol, outcome.Reason)
		}
	}
	for _, skip := range skips {
		fmt.Printf("NOT SIZED  %-16s %s\n", skip.Symbol, skip.Reason)
	}

	if len(bought) > 0 {
		fmt.Println("\nBought symbols:")
		for _, symbol := range bought {
			fmt.Printf("  - %s\n", symbol)
		}
	} else {
		fmt.Println("\nNo symbols were bought.")
	}
}

// HandleTradeHistory prints the most recent entries from the trade audit log.
func HandleTradeHistory(ctx context.Context, symbol string) {
	trades, err := datafeed.GetTradeHistory(ctx, symbol, 50)
	if err != nil {
		fmt.Printf("Failed to fetch trade history: %v\n", err)
		return
	}

	if len(trades) == 0 {
		fmt.Println("No trades recorded")
		return
	}

	fmt.Printf("\nTrade History (last %d):\n", len(trades))
	fmt.Println(formatting.Separator(72))
	for _, trade := range trades {
		fmt.Printf("%s | %s %s x%s @ %s | %s | %s\n",
			trade.CreatedAt.Format("2006-01-02 15:04"), trade.Side, trade.Symbol,
			trade.Quantity, trade.Price, trade.Status, formatting.Truncate(trade.Reason, 40))
	}
}
