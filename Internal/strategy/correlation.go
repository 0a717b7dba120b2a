package strategy

import (
	"errors"
	"math"

	"github.com/fazecat/corrmaker/Internal/types"
)

var (
	ErrLengthMismatch     = errors.New("series lengths do not match")
	ErrEmptyAfterClean    = errors.New("series empty after dropping missing values")
	ErrDegenerateVariance = errors.New("series has zero variance")
)

// AlignedPair holds two equal-length, NaN-free series ready for scoring.
type AlignedPair struct {
	Reference []float64
	Candidate []float64
}

// AlignSeries validates that two close series can be correlated. A length
// mismatch or a constant series is a normal screening outcome, not a crash:
// callers skip the candidate on any returned error.
func AlignSeries(reference, candidate types.PriceSeries) (*AlignedPair, error) {
	if len(reference) != len(candidate) {
		return nil, ErrLengthMismatch
	}

	// Drop buckets where either side is missing so the pair stays aligned.
	ref := make([]float64, 0, len(reference))
	cand := make([]float64, 0, len(candidate))
	for i := range reference {
		if math.IsNaN(reference[i]) || math.IsNaN(candidate[i]) {
			continue
		}
		ref = append(ref, reference[i])
		cand = append(cand, candidate[i])
	}

	if len(ref) == 0 {
		return nil, ErrEmptyAfterClean
	}

	// A constant series has undefined correlation and must be excluded,
	// never scored as 0.
	if stdDev(ref) == 0 || stdDev(cand) == 0 {
		return nil, ErrDegenerateVariance
	}

	return &AlignedPair{Reference: ref, Candidate: cand}, nil
}

// PearsonCorrelation computes the linear correlation coefficient of an
// aligned pair. The result is in [-1, 1] for any pair AlignSeries accepted;
// identical series score exactly 1.0 and perfectly inverted series exactly
// -1.0.
func PearsonCorrelation(pair *AlignedPair) float64 {
	meanRef := mean(pair.Reference)
	meanCand := mean(pair.Candidate)

	var cov, varRef, varCand float64
	for i := range pair.Reference {
		dr := pair.Reference[i] - meanRef
		dc := pair.Candidate[i] - meanCand
		cov += dr * dc
		varRef += dr * dr
		varCand += dc * dc
	}

	denom := math.Sqrt(varRef * varCand)
	if denom == 0 {
		return math.NaN()
	}
	corr := cov / denom

	// Clamp accumulated float error inside the valid range
	if corr > 1 {
		corr = 1
	}
	if corr < -1 {
		corr = -1
	}
	return corr
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdDev(xs []float64) float64 {
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
