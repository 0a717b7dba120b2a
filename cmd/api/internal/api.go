package internal

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	datafeed "github.com/fazecat/corrmaker/Internal/database"
	"github.com/fazecat/corrmaker/Internal/handlers"
	"github.com/fazecat/corrmaker/Internal/types"
	"github.com/fazecat/corrmaker/Internal/utils/config"
)

type API struct {
	Config     *config.Config
	Client     *datafeed.Client
	JWTManager *JWTManager
}

func (api *API) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	limitStr := r.URL.Query().Get("limit")

	limit := 50
	if limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	trades, err := datafeed.GetTradeHistory(context.Background(), symbol, limit)
	if err != nil {
		log.Printf("Error fetching trades: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch trades")
		return
	}

	WriteJSON(w, http.StatusOK, trades)
}

func (api *API) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	trades, err := datafeed.GetTradeHistory(context.Background(), "", 500)
	if err != nil {
		log.Printf("Error fetching trades: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch trades")
		return
	}

	submitted := 0
	failed := 0
	for _, trade := range trades {
		switch types.OutcomeStatus(trade.Status) {
		case types.OutcomeSubmitted:
			submitted++
		case types.OutcomeFailed:
			failed++
		}
	}

	response := map[string]interface{}{
		"total_trades": len(trades),
		"submitted":    submitted,
		"failed":       failed,
	}
	WriteJSON(w, http.StatusOK, response)
}

// HandleScan runs a ranking pass over the live universe without placing
// any orders.
func (api *API) HandleScan(w http.ResponseWriter, r *http.Request) {
	ranked, err := handlers.HandleScan(r.Context(), api.Config, api.Client)
	if err != nil {
		log.Printf("Scan failed: %v", err)
		WriteError(w, http.StatusBadGateway, "Scan failed")
		return
	}

	topN := api.Config.Screener.TopN
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	WriteJSON(w, http.StatusOK, ranked)
}

func (api *API) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, api.Config)
}

// HandleExecute runs the full scan-and-buy pipeline. Protected route: this
// spends real margin.
func (api *API) HandleExecute(w http.ResponseWriter, r *http.Request) {
	if err := handlers.HandleScanAndBuy(r.Context(), api.Config, api.Client); err != nil {
		log.Printf("Execution failed: %v", err)
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, "run complete, see /api/trades for outcomes")
}

func (api *API) HandleGenerateToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	token, err := api.JWTManager.GenerateToken(body.UserID, body.Email, 24*time.Hour)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
