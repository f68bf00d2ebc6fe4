package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCompleted = "OrderCompleted"
	EventStockLow       = "StockLow"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// CompletedItem is one fulfilled line plus the stock remaining after the
// decrement, so consumers can react to depletion without re-querying.
type CompletedItem struct {
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	PriceCents int64  `json:"price_cents"`
	StockAfter int    `json:"stock_after"`
}

type OrderCompletedPayload struct {
	OrderID    string          `json:"order_id"`
	UserID     string          `json:"user_id"`
	Items      []CompletedItem `json:"items"`
	TotalCents int64           `json:"total_cents"`
}

type StockLowPayload struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}
