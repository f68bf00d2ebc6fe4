package orders

import "time"

type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	InCart      bool        `json:"in_cart"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Items       []OrderItem `json:"items,omitempty"`
}

// OrderItem carries the price snapshot taken when the item was written to the
// cart. Totals are computed from the snapshot, never from the live product
// price.
type OrderItem struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	PriceCents  int64  `json:"price_cents"`
}

func (it OrderItem) SubtotalCents() int64 {
	return int64(it.Quantity) * it.PriceCents
}

// Totals is the cart summary: item count and snapshot-priced sum.
type Totals struct {
	Items      int   `json:"items"`
	TotalCents int64 `json:"total_cents"`
}

func SumItems(items []OrderItem) Totals {
	var t Totals
	for _, it := range items {
		t.Items += it.Quantity
		t.TotalCents += it.SubtotalCents()
	}
	return t
}
