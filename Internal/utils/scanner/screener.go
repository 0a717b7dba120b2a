package scanner

import (
	"context"
	"log"
	"math"
	"sort"

	"github.com/fazecat/corrmaker/Internal/strategy"
	"github.com/fazecat/corrmaker/Internal/types"
)

// SelectionPolicy picks the ordering key for ranked candidates.
type SelectionPolicy string

const (
	// PolicySigned ranks by raw correlation, most positively correlated first.
	PolicySigned SelectionPolicy = "signed"
	// PolicyAbsolute ranks by |correlation|, most correlated in either
	// direction first.
	PolicyAbsolute SelectionPolicy = "absolute"
)

// SeriesFetcher supplies a close series for one candidate. The implementation
// owns pacing against the venue's rate budget.
type SeriesFetcher interface {
	FetchCloseSeries(ctx context.Context, symbol, timeframe string, window int) (types.PriceSeries, error)
}

// RankByCorrelation scores every candidate against the reference series and
// returns the survivors sorted by the policy's key. Screening is best-effort:
// a candidate that can't be fetched, aligned, or scored simply drops out of
// the ranking.
func RankByCorrelation(ctx context.Context, reference types.PriceSeries, candidates []string,
	fetcher SeriesFetcher, timeframe string, window int, policy SelectionPolicy) []types.RankedCandidate {

	var ranked []types.RankedCandidate

	for _, symbol := range candidates {
		series, err := fetcher.FetchCloseSeries(ctx, symbol, timeframe, window)
		if err != nil {
			log.Printf("Skipping %s: %v", symbol, err)
			continue
		}

		pair, err := strategy.AlignSeries(reference, series)
		if err != nil {
			continue
		}

		corr := strategy.PearsonCorrelation(pair)
		if math.IsNaN(corr) {
			continue
		}

		ranked = append(ranked, types.RankedCandidate{Symbol: symbol, Correlation: corr})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return sortKey(ranked[i].Correlation, policy) > sortKey(ranked[j].Correlation, policy)
	})

	return ranked
}

// SelectTop truncates the ranking to topN and then applies the threshold,
// in that order. Truncate-then-filter can return fewer than topN entries.
func SelectTop(ranked []types.RankedCandidate, topN int, threshold float64, policy SelectionPolicy) []types.RankedCandidate {
	if topN < 1 {
		return nil
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	var selected []types.RankedCandidate
	for _, candidate := range ranked {
		if sortKey(candidate.Correlation, policy) >= threshold {
			selected = append(selected, candidate)
		}
	}
	return selected
}

func sortKey(corr float64, policy SelectionPolicy) float64 {
	if policy == PolicyAbsolute {
		return math.Abs(corr)
	}
	return corr
}
