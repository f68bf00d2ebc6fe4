package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CHECK constraints mirror the model invariants: price and stock never negative.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS brands (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id              UUID PRIMARY KEY,
		name            TEXT NOT NULL,
		details         TEXT NOT NULL DEFAULT '',
		price_cents     BIGINT NOT NULL CHECK (price_cents >= 0),
		available_stock INT NOT NULL DEFAULT 0 CHECK (available_stock >= 0),
		featured        BOOLEAN NOT NULL DEFAULT FALSE,
		brand_id        UUID NOT NULL REFERENCES brands(id),
		category_id     UUID NOT NULL REFERENCES categories(id),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_brand    ON products(brand_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           UUID PRIMARY KEY,
		user_id      TEXT NOT NULL,
		in_cart      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id          UUID PRIMARY KEY,
		order_id    UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id  UUID NOT NULL REFERENCES products(id),
		quantity    INT NOT NULL CHECK (quantity > 0),
		price_cents BIGINT NOT NULL,
		UNIQUE (order_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id         UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		rating     INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id)`,
}

func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
