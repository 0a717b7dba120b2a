package datafeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/fazecat/corrmaker/Internal/types"
)

// Client talks to the Binance USDT-M futures REST API. Every request, public
// or signed, waits on the shared limiter so only one call's budget is ever
// consumed at a time.
type Client struct {
	baseURL   string
	apiKey    string
	secretKey string
	http      *http.Client
	limiter   *rate.Limiter
}

func NewClient(baseURL, apiKey, secretKey string, requestsPerSecond float64) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// APIError is the venue's error envelope, kept structured so callers can
// react to the numeric code instead of matching message text.
type APIError struct {
	Code       int    `json:"code"`
	Msg        string `json:"msg"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance error %d (http %d): %s", e.Code, e.HTTPStatus, e.Msg)
}

// ClassifyOrderError maps a submission failure onto the closed failure-kind
// set the execution runner reports.
func ClassifyOrderError(err error) types.FailureKind {
	apiErr, ok := err.(*APIError)
	if !ok {
		return types.FailureUnclassified
	}
	switch apiErr.Code {
	case -2018, -2019: // balance / margin insufficient
		return types.FailureInsufficientFunds
	case -1013, -1111, -4061, -4164:
		// filter failure, bad precision, position side mismatch, below min notional
		return types.FailureInvalidOrder
	default:
		return types.FailureUnclassified
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp.StatusCode, body)
	}
	return json.Unmarshal(body, out)
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{HTTPStatus: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == 0 {
		return &APIError{Code: 0, Msg: string(body), HTTPStatus: status}
	}
	return apiErr
}

type exchangeInfoResponse struct {
	Symbols []struct {
		Symbol       string `json:"symbol"`
		Status       string `json:"status"`
		ContractType string `json:"contractType"`
		QuoteAsset   string `json:"quoteAsset"`
		Filters      []struct {
			FilterType string `json:"filterType"`
			StepSize   string `json:"stepSize"`
			Notional   string `json:"notional"`
		} `json:"filters"`
	} `json:"symbols"`
}

// GetEligibleContracts returns the tradable universe: active perpetual
// contracts quoted in quoteAsset, excluding the reference symbol itself.
// USDT-M futures are linear by venue definition, so no linearity flag is
// checked here. Lot step and min notional come from the exchange filters
// when present.
func (c *Client) GetEligibleContracts(ctx context.Context, quoteAsset, excludeSymbol string) ([]types.Contract, error) {
	var info exchangeInfoResponse
	if err := c.get(ctx, "/fapi/v1/exchangeInfo", nil, &info); err != nil {
		return nil, err
	}

	var contracts []types.Contract
	for _, s := range info.Symbols {
		if s.QuoteAsset != quoteAsset || s.ContractType != "PERPETUAL" || s.Status != "TRADING" {
			continue
		}
		if s.Symbol == excludeSymbol {
			continue
		}

		contract := types.Contract{
			Symbol:       s.Symbol,
			QuoteAsset:   s.QuoteAsset,
			ContractType: s.ContractType,
			Status:       s.Status,
		}
		for _, f := range s.Filters {
			switch f.FilterType {
			case "LOT_SIZE":
				contract.LotStep, _ = strconv.ParseFloat(f.StepSize, 64)
			case "MIN_NOTIONAL":
				contract.MinNotional, _ = strconv.ParseFloat(f.Notional, 64)
			}
		}
		contracts = append(contracts, contract)
	}

	return contracts, nil
}

// FetchKlines returns up to limit bars for the symbol at the given timeframe.
func (c *Client) FetchKlines(ctx context.Context, symbol, timeframe string, limit int) ([]types.Bar, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", timeframe)
	params.Set("limit", strconv.Itoa(limit))

	// Klines come back as positional arrays of mixed numbers and strings.
	var rows [][]interface{}
	if err := c.get(ctx, "/fapi/v1/klines", params, &rows); err != nil {
		return nil, err
	}

	bars := make([]types.Bar, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("malformed kline row for %s", symbol)
		}
		openTime, _ := row[0].(float64)
		bar := types.Bar{OpenTime: int64(openTime)}
		var err error
		if bar.Open, err = klineField(row[1]); err != nil {
			return nil, fmt.Errorf("malformed kline for %s: %w", symbol, err)
		}
		if bar.High, err = klineField(row[2]); err != nil {
			return nil, fmt.Errorf("malformed kline for %s: %w", symbol, err)
		}
		if bar.Low, err = klineField(row[3]); err != nil {
			return nil, fmt.Errorf("malformed kline for %s: %w", symbol, err)
		}
		if bar.Close, err = klineField(row[4]); err != nil {
			return nil, fmt.Errorf("malformed kline for %s: %w", symbol, err)
		}
		if bar.Volume, err = klineField(row[5]); err != nil {
			return nil, fmt.Errorf("malformed kline for %s: %w", symbol, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func klineField(v interface{}) (float64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("expected string field, got %T", v)
	}
	return strconv.ParseFloat(s, 64)
}

// FetchCloseSeries returns the close column of the symbol's klines, oldest
// bucket first.
func (c *Client) FetchCloseSeries(ctx context.Context, symbol, timeframe string, window int) (types.PriceSeries, error) {
	bars, err := c.FetchKlines(ctx, symbol, timeframe, window)
	if err != nil {
		return nil, err
	}
	series := make(types.PriceSeries, len(bars))
	for i, bar := range bars {
		series[i] = bar.Close
	}
	return series, nil
}

// FetchLastPrice returns the most recent traded price for the symbol.
func (c *Client) FetchLastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var ticker struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := c.get(ctx, "/fapi/v1/ticker/price", params, &ticker); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(ticker.Price)
}

// FetchOrderBookTop returns the best bid and best ask from a shallow
// depth snapshot.
func (c *Client) FetchOrderBookTop(ctx context.Context, symbol string, depth int) (bestBid, bestAsk decimal.Decimal, err error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", strconv.Itoa(depth))

	var book struct {
		Bids [][]string `json:"bids"`
		Asks [][]string `json:"asks"`
	}
	if err = c.get(ctx, "/fapi/v1/depth", params, &book); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if len(book.Bids) == 0 || len(book.Asks) == 0 || len(book.Bids[0]) < 1 || len(book.Asks[0]) < 1 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("empty order book for %s", symbol)
	}

	bestBid, err = decimal.NewFromString(book.Bids[0][0])
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	bestAsk, err = decimal.NewFromString(book.Asks[0][0])
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return bestBid, bestAsk, nil
}
