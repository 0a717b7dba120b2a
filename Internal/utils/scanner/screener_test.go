package scanner

import (
	"context"
	"fmt"
	"testing"

	"github.com/fazecat/corrmaker/Internal/types"
)

type fakeFetcher map[string]types.PriceSeries

func (f fakeFetcher) FetchCloseSeries(_ context.Context, symbol, _ string, _ int) (types.PriceSeries, error) {
	series, ok := f[symbol]
	if !ok {
		return nil, fmt.Errorf("fetch failed for %s", symbol)
	}
	return series, nil
}

func TestRankByCorrelation_SkipsUnscorable(t *testing.T) {
	reference := types.PriceSeries{1, 2, 3, 4, 5}
	fetcher := fakeFetcher{
		"POSUSDT":   {2, 4, 6, 8, 10},  // perfectly correlated
		"NEGUSDT":   {9, 8, 7, 6, 5},   // perfectly inverted
		"SHORTUSDT": {1, 2, 3},         // length mismatch
		"FLATUSDT":  {7, 7, 7, 7, 7},   // zero variance
		"WOBBUSDT":  {1, 3, 2, 5, 4},   // positive but imperfect
	}
	candidates := []string{"POSUSDT", "NEGUSDT", "SHORTUSDT", "FLATUSDT", "WOBBUSDT", "GONEUSDT"}

	ranked := RankByCorrelation(context.Background(), reference, candidates,
		fetcher, "4h", 5, PolicySigned)

	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked candidates, got %d: %+v", len(ranked), ranked)
	}

	// Signed policy: most positively correlated first
	if ranked[0].Symbol != "POSUSDT" || ranked[0].Correlation != 1.0 {
		t.Errorf("rank 0 = %+v, want POSUSDT at 1.0", ranked[0])
	}
	if ranked[1].Symbol != "WOBBUSDT" {
		t.Errorf("rank 1 = %+v, want WOBBUSDT", ranked[1])
	}
	if ranked[2].Symbol != "NEGUSDT" || ranked[2].Correlation != -1.0 {
		t.Errorf("rank 2 = %+v, want NEGUSDT at -1.0", ranked[2])
	}
}

func TestRankByCorrelation_AbsolutePolicy(t *testing.T) {
	reference := types.PriceSeries{1, 2, 3, 4, 5}
	fetcher := fakeFetcher{
		"NEGUSDT":  {9, 8, 7, 6, 5},  // correlation -1.0
		"WOBBUSDT": {1, 3, 2, 5, 4},  // weaker positive
	}

	ranked := RankByCorrelation(context.Background(), reference,
		[]string{"WOBBUSDT", "NEGUSDT"}, fetcher, "4h", 5, PolicyAbsolute)

	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked candidates, got %d", len(ranked))
	}
	// |-1.0| beats the imperfect positive under the absolute policy
	if ranked[0].Symbol != "NEGUSDT" {
		t.Errorf("rank 0 = %+v, want NEGUSDT first under absolute policy", ranked[0])
	}
}

func TestSelectTop_TruncatesThenFilters(t *testing.T) {
	ranked := []types.RankedCandidate{
		{Symbol: "AUSDT", Correlation: 0.95},
		{Symbol: "BUSDT", Correlation: 0.85},
		{Symbol: "CUSDT", Correlation: 0.5},
	}

	// C is cut by truncation before the threshold is ever applied
	selected := SelectTop(ranked, 2, 0.8, PolicySigned)
	if len(selected) != 2 || selected[0].Symbol != "AUSDT" || selected[1].Symbol != "BUSDT" {
		t.Fatalf("SelectTop() = %+v, want [AUSDT BUSDT]", selected)
	}

	// Raising the threshold returns fewer than topN
	selected = SelectTop(ranked, 2, 0.9, PolicySigned)
	if len(selected) != 1 || selected[0].Symbol != "AUSDT" {
		t.Fatalf("SelectTop() = %+v, want [AUSDT]", selected)
	}

	// Nothing passes
	selected = SelectTop(ranked, 2, 0.99, PolicySigned)
	if len(selected) != 0 {
		t.Fatalf("SelectTop() = %+v, want empty", selected)
	}
}

func TestSelectTop_AbsolutePolicyThreshold(t *testing.T) {
	ranked := []types.RankedCandidate{
		{Symbol: "XUSDT", Correlation: -0.99},
		{Symbol: "YUSDT", Correlation: 0.9},
		{Symbol: "ZUSDT", Correlation: 0.2},
	}

	selected := SelectTop(ranked, 3, 0.95, PolicyAbsolute)
	if len(selected) != 1 || selected[0].Symbol != "XUSDT" {
		t.Fatalf("SelectTop() = %+v, want [XUSDT]", selected)
	}

	// The signed policy never admits a negative score above a positive threshold
	selected = SelectTop(ranked, 3, 0.95, PolicySigned)
	if len(selected) != 0 {
		t.Fatalf("SelectTop() = %+v, want empty under signed policy", selected)
	}
}

func TestSelectTop_NonPositiveTopN(t *testing.T) {
	ranked := []types.RankedCandidate{{Symbol: "AUSDT", Correlation: 0.95}}

	if got := SelectTop(ranked, 0, 0.8, PolicySigned); len(got) != 0 {
		t.Errorf("SelectTop(topN=0) = %+v, want empty", got)
	}
	if got := SelectTop(ranked, -1, 0.8, PolicySigned); len(got) != 0 {
		t.Errorf("SelectTop(topN=-1) = %+v, want empty", got)
	}
}

func TestSelectTop_NeverExceedsTopN(t *testing.T) {
	var ranked []types.RankedCandidate
	for i := 0; i < 25; i++ {
		ranked = append(ranked, types.RankedCandidate{
			Symbol:      fmt.Sprintf("S%dUSDT", i),
			Correlation: 0.99,
		})
	}

	selected := SelectTop(ranked, 10, 0.5, PolicySigned)
	if len(selected) != 10 {
		t.Errorf("SelectTop() returned %d entries, want 10", len(selected))
	}
}
