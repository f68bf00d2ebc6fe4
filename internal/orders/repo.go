package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// GetOrCreateCart returns the user's open cart, creating one on first touch.
func (r *Repo) GetOrCreateCart(ctx context.Context, userID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, in_cart, created_at
		FROM orders WHERE user_id = $1 AND in_cart
		ORDER BY created_at LIMIT 1`, userID).
		Scan(&o.ID, &o.UserID, &o.InCart, &o.CreatedAt)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Order{}, err
	}

	id := uuid.NewString()
	err = r.DB.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, in_cart) VALUES ($1, $2, TRUE)
		RETURNING id, user_id, in_cart, created_at`, id, userID).
		Scan(&o.ID, &o.UserID, &o.InCart, &o.CreatedAt)
	return o, err
}

// AddOrUpdateItem writes a cart line. An existing line for the product is
// replaced: quantity overwritten, price snapshot refreshed from the current
// product price. The price read and the write share one transaction.
func (r *Repo) AddOrUpdateItem(ctx context.Context, orderID, productID string, qty int) error {
	if qty <= 0 {
		return ErrQuantityInvalid
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := guardCart(ctx, tx, orderID); err != nil {
		return err
	}

	var price int64
	err = tx.QueryRow(ctx, `SELECT price_cents FROM products WHERE id=$1`, productID).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO order_items(id, order_id, product_id, quantity, price_cents)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, price_cents = EXCLUDED.price_cents`,
		uuid.NewString(), orderID, productID, qty, price); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// RemoveItem deletes a cart line. Removing an absent line is a no-op.
func (r *Repo) RemoveItem(ctx context.Context, orderID, productID string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := guardCart(ctx, tx, orderID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM order_items WHERE order_id=$1 AND product_id=$2`, orderID, productID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CartTotals sums quantities and snapshot subtotals. Pure read.
func (r *Repo) CartTotals(ctx context.Context, orderID string) (Totals, error) {
	var t Totals
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * price_cents), 0)
		FROM order_items WHERE order_id = $1`, orderID).Scan(&t.Items, &t.TotalCents)
	return t, err
}

// Items lists the order's lines with product names.
func (r *Repo) Items(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.price_cents
		FROM order_items i JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1 ORDER BY i.product_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Get fetches one order with its items, scoped to the owning user.
func (r *Repo) Get(ctx context.Context, orderID, userID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, in_cart, created_at, completed_at
		FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID).
		Scan(&o.ID, &o.UserID, &o.InCart, &o.CreatedAt, &o.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Items, err = r.Items(ctx, orderID)
	return o, err
}

// ListCompleted returns the user's order history, newest first.
func (r *Repo) ListCompleted(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, in_cart, created_at, completed_at
		FROM orders WHERE user_id = $1 AND NOT in_cart
		ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.InCart, &o.CreatedAt, &o.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// guardCart rejects mutation of completed orders before anything is written.
func guardCart(ctx context.Context, tx pgx.Tx, orderID string) error {
	var inCart bool
	err := tx.QueryRow(ctx, `SELECT in_cart FROM orders WHERE id=$1`, orderID).Scan(&inCart)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if !inCart {
		return ErrOrderCompleted
	}
	return nil
}
