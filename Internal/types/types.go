package types

// Bar is one kline bucket as returned by the venue.
type Bar struct {
	OpenTime int64   `json:"t"`
	Open     float64 `json:"o"`
	High     float64 `json:"h"`
	Low      float64 `json:"l"`
	Close    float64 `json:"c"`
	Volume   float64 `json:"v"` // futures volume comes back as float
}

// PriceSeries is an ordered run of closing prices, one per kline bucket.
type PriceSeries []float64

// Contract describes a tradable futures contract on the venue.
type Contract struct {
	Symbol       string
	QuoteAsset   string
	ContractType string
	Status       string
	LotStep      float64 // minimum quantity increment, 0 if the venue omitted it
	MinNotional  float64 // minimum order value, 0 if the venue omitted it
}

// RankedCandidate pairs a contract symbol with its correlation score
// against the reference series.
type RankedCandidate struct {
	Symbol      string
	Correlation float64
}

type OutcomeStatus string

const (
	OutcomeSubmitted OutcomeStatus = "SUBMITTED"
	OutcomeSkipped   OutcomeStatus = "SKIPPED"
	OutcomeFailed    OutcomeStatus = "FAILED"
)

type FailureKind string

const (
	FailureNone              FailureKind = ""
	FailureInsufficientFunds FailureKind = "INSUFFICIENT_FUNDS"
	FailureInvalidOrder      FailureKind = "INVALID_ORDER"
	FailureUnclassified      FailureKind = "UNCLASSIFIED"
)

// ExecutionOutcome is the per-symbol result of one submission attempt.
// Outcomes only ever accumulate into the run report; the pipeline itself
// keeps no state across runs.
type ExecutionOutcome struct {
	Symbol  string
	Status  OutcomeStatus
	OrderID string
	Failure FailureKind
	Reason  string
}
