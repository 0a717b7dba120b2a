package datafeed

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fazecat/corrmaker/Internal/types"
)

type TradeRecord struct {
	Symbol     string
	Side       string
	Quantity   string
	Price      string
	TotalValue string
	OrderID    string
	Status     string
	Reason     string
	CreatedAt  time.Time
}

// LogTradeExecution appends one execution outcome to the trades audit table.
// The pipeline never reads this back; it exists for the history view and API.
func LogTradeExecution(ctx context.Context, outcome types.ExecutionOutcome, quantity, price decimal.Decimal) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	totalValue := quantity.Mul(price)

	_, err := DB.ExecContext(ctx,
		`INSERT INTO trades (symbol, side, quantity, price, total_value, order_id, status, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		outcome.Symbol, "buy", quantity.String(), price.String(), totalValue.String(),
		outcome.OrderID, string(outcome.Status), outcome.Reason)
	if err != nil {
		return fmt.Errorf("failed to log trade: %w", err)
	}

	log.Printf("Trade logged: %s x%s @ %s (status: %s)",
		outcome.Symbol, quantity.String(), price.String(), outcome.Status)
	return nil
}

func GetTradeHistory(ctx context.Context, symbol string, limit int) ([]TradeRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `SELECT symbol, side, quantity, price, total_value,
	                 COALESCE(order_id, ''), COALESCE(status, ''), COALESCE(reason, ''), created_at
	          FROM trades`
	args := []interface{}{}
	if symbol != "" {
		query += ` WHERE symbol = $1 ORDER BY created_at DESC LIMIT $2`
		args = append(args, symbol, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trade history: %w", err)
	}
	defer rows.Close()

	var trades []TradeRecord
	for rows.Next() {
		var t TradeRecord
		var createdAt sql.NullTime
		if err := rows.Scan(&t.Symbol, &t.Side, &t.Quantity, &t.Price, &t.TotalValue,
			&t.OrderID, &t.Status, &t.Reason, &createdAt); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			t.CreatedAt = createdAt.Time
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
