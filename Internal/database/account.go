package datafeed

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fazecat/corrmaker/Internal/strategy"
)

// signedRequest performs an authenticated call. Binance signs the query
// string with HMAC-SHA256 of the account secret and expects the API key in
// a header.
func (c *Client) signedRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("recvWindow", "5000")

	query := params.Encode()
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(query))
	query += "&signature=" + hex.EncodeToString(mac.Sum(nil))

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// FetchFreeBalance returns the available (not total) balance for the asset.
// Sizing works from what the venue will actually let the account margin.
func (c *Client) FetchFreeBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v2/balance", nil)
	if err != nil {
		return decimal.Zero, err
	}

	var balances []struct {
		Asset            string `json:"asset"`
		AvailableBalance string `json:"availableBalance"`
	}
	if err := json.Unmarshal(body, &balances); err != nil {
		return decimal.Zero, err
	}

	for _, b := range balances {
		if b.Asset == asset {
			return decimal.NewFromString(b.AvailableBalance)
		}
	}
	return decimal.Zero, fmt.Errorf("no %s balance entry in account", asset)
}

// QueryPositionMode asks the venue whether the account runs hedge (dual
// side) or one-way accounting. Queried fresh every run; the mode can change
// between runs.
func (c *Client) QueryPositionMode(ctx context.Context) (strategy.PositionMode, error) {
	body, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v1/positionSide/dual", nil)
	if err != nil {
		return strategy.ModeOneWay, fmt.Errorf("position mode query failed: %w", err)
	}

	var mode struct {
		DualSidePosition bool `json:"dualSidePosition"`
	}
	if err := json.Unmarshal(body, &mode); err != nil {
		return strategy.ModeOneWay, fmt.Errorf("position mode query failed: %w", err)
	}

	if mode.DualSidePosition {
		return strategy.ModeHedge, nil
	}
	return strategy.ModeOneWay, nil
}

// SetLeverage applies the leverage multiplier for one symbol.
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("leverage", strconv.Itoa(leverage))

	_, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/leverage", params)
	return err
}

// SubmitOrder places the order and returns the venue order id.
func (c *Client) SubmitOrder(ctx context.Context, req *strategy.OrderRequest) (string, error) {
	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", req.Side)
	params.Set("type", req.Type)
	params.Set("quantity", req.Quantity.String())
	if req.Type == "LIMIT" {
		params.Set("price", req.Price.String())
	}
	if req.TimeInForce != "" {
		params.Set("timeInForce", req.TimeInForce)
	}
	if req.PositionSide != "" {
		params.Set("positionSide", req.PositionSide)
	}

	body, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/order", params)
	if err != nil {
		return "", err
	}

	var order struct {
		OrderID int64 `json:"orderId"`
	}
	if err := json.Unmarshal(body, &order); err != nil {
		return "", err
	}
	return strconv.FormatInt(order.OrderID, 10), nil
}
