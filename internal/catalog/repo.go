package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Listing caps for the landing and detail pages.
const (
	FeaturedLimit = 6
	LatestLimit   = 10
	RelatedLimit  = 4
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `p.id, p.name, p.details, p.price_cents, p.available_stock,
	p.featured, p.brand_id, b.name, p.category_id, c.name, p.created_at`

const productFrom = ` FROM products p
	JOIN brands b ON b.id = p.brand_id
	JOIN categories c ON c.id = p.category_id`

// Search runs the composed filter chain. Queries that can only be empty
// (unknown facet identifier, inverted price range) return an empty slice
// without a round trip.
func (r *Repo) Search(ctx context.Context, q Query) ([]Product, error) {
	if q.NoMatch() {
		return []Product{}, nil
	}
	sql, args := q.buildSQL()
	return r.queryProducts(ctx, sql, args...)
}

func (r *Repo) Featured(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, `SELECT `+productCols+productFrom+`
		WHERE p.available_stock > 0 AND p.featured
		ORDER BY p.created_at DESC, p.id LIMIT $1`, FeaturedLimit)
}

func (r *Repo) Latest(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, `SELECT `+productCols+productFrom+`
		WHERE p.available_stock > 0
		ORDER BY p.created_at DESC, p.id LIMIT $1`, LatestLimit)
}

// Related lists in-stock products sharing the subject's category, subject
// excluded.
func (r *Repo) Related(ctx context.Context, productID, categoryID string) ([]Product, error) {
	return r.queryProducts(ctx, `SELECT `+productCols+productFrom+`
		WHERE p.available_stock > 0 AND p.category_id = $1 AND p.id <> $2
		ORDER BY p.created_at DESC, p.id LIMIT $3`, categoryID, productID, RelatedLimit)
}

// Get fetches one product by id. Unlike the listing paths it also returns
// out-of-stock products; the detail and admin surfaces still need them.
func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `SELECT `+productCols+productFrom+` WHERE p.id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Details, &p.PriceCents, &p.Stock, &p.Featured,
			&p.BrandID, &p.BrandName, &p.CategoryID, &p.CategoryName, &p.CreatedAt)
	return p, err
}

func (r *Repo) Brands(ctx context.Context) ([]Brand, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM brands ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Brand{}
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) Categories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) queryProducts(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Details, &p.PriceCents, &p.Stock, &p.Featured,
			&p.BrandID, &p.BrandName, &p.CategoryID, &p.CategoryName, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
