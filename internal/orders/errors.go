package orders

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderCompleted  = errors.New("order already completed")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrQuantityInvalid = errors.New("quantity must be positive")
)

// StockShortage identifies one line item that could not be fulfilled.
type StockShortage struct {
	ProductID string `json:"product_id"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

// InsufficientStockError reports every failing product in a completion
// attempt, so the caller can adjust the whole cart in one pass.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	ids := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		ids[i] = fmt.Sprintf("%s (want %d, have %d)", s.ProductID, s.Required, s.Available)
	}
	return "insufficient stock: " + strings.Join(ids, ", ")
}
