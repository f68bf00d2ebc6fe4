package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// CompleteOrder converts a cart into a completed order inside a single
// transaction: every product row the order touches is locked FOR UPDATE, the
// whole order is validated against the locked stock, and only then is any
// stock decremented. Any shortage rolls everything back, so a losing order
// leaves no trace. The order row itself is locked first, which also makes the
// already-completed guard race-free.
func (r *Repo) CompleteOrder(ctx context.Context, orderID string) (Order, []CompletedItem, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var o Order
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, in_cart, created_at
		FROM orders WHERE id = $1 FOR UPDATE`, orderID).
		Scan(&o.ID, &o.UserID, &o.InCart, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, nil, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, nil, err
	}
	if !o.InCart {
		return Order{}, nil, ErrOrderCompleted
	}

	// product_id order keeps concurrent completions from deadlocking on
	// overlapping carts
	rows, err := tx.Query(ctx, `
		SELECT product_id, quantity, price_cents
		FROM order_items WHERE order_id = $1 ORDER BY product_id`, orderID)
	if err != nil {
		return Order{}, nil, err
	}
	var items []CompletedItem
	for rows.Next() {
		var it CompletedItem
		if err := rows.Scan(&it.ProductID, &it.Qty, &it.PriceCents); err != nil {
			rows.Close()
			return Order{}, nil, err
		}
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, nil, err
	}
	if len(items) == 0 {
		return Order{}, nil, ErrEmptyOrder
	}

	// validate everything against locked rows before decrementing anything
	var shortages []StockShortage
	for i := range items {
		var stock int
		if err := tx.QueryRow(ctx, `
			SELECT available_stock FROM products WHERE id = $1 FOR UPDATE`,
			items[i].ProductID).Scan(&stock); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Order{}, nil, ErrProductNotFound
			}
			return Order{}, nil, err
		}
		if stock < items[i].Qty {
			shortages = append(shortages, StockShortage{
				ProductID: items[i].ProductID, Required: items[i].Qty, Available: stock,
			})
		}
	}
	if len(shortages) > 0 {
		return Order{}, nil, &InsufficientStockError{Shortages: shortages}
	}

	for i := range items {
		if err := tx.QueryRow(ctx, `
			UPDATE products SET available_stock = available_stock - $2
			WHERE id = $1 RETURNING available_stock`,
			items[i].ProductID, items[i].Qty).Scan(&items[i].StockAfter); err != nil {
			return Order{}, nil, err
		}
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `
		UPDATE orders SET in_cart = FALSE, completed_at = $2 WHERE id = $1`,
		orderID, now); err != nil {
		return Order{}, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, nil, err
	}

	o.InCart = false
	o.CompletedAt = &now
	return o, items, nil
}
