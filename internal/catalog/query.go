package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pookiecare/storefront/internal/money"
)

type Sort string

const (
	SortLatest    Sort = "latest"
	SortPriceLow  Sort = "price_low"
	SortPriceHigh Sort = "price_high"
)

const maxPageSize = 100

// Query is a normalized catalog request. Zero value means "everything in
// stock, newest first".
type Query struct {
	Search     string
	BrandID    string
	CategoryID string
	MinCents   int64 // -1 when unset
	MaxCents   int64 // -1 when unset
	Sort       Sort
	Limit      int
	Offset     int

	// noMatch marks queries that can only yield an empty set (unknown
	// identifier, inverted price range). The repo short-circuits on it.
	noMatch bool
}

// ParseQuery builds a Query from untrusted request parameters. It never
// fails: malformed values degrade to "filter not applied" or to an empty
// result, so the catalog cannot be made to error with query strings.
func ParseQuery(v url.Values, pageSize int) Query {
	q := Query{
		Search:   strings.TrimSpace(v.Get("search")),
		MinCents: -1,
		MaxCents: -1,
		Sort:     SortLatest,
		Limit:    pageSize,
	}

	for _, f := range []struct {
		param string
		dst   *string
	}{
		{"brand", &q.BrandID},
		{"category", &q.CategoryID},
	} {
		raw := strings.TrimSpace(v.Get(f.param))
		if raw == "" {
			continue
		}
		if uuid.Validate(raw) != nil {
			q.noMatch = true // unknown identifier shape, nothing can match
			continue
		}
		*f.dst = raw
	}

	if raw := strings.TrimSpace(v.Get("min_price")); raw != "" {
		if c, err := money.ParseCents(raw); err == nil {
			q.MinCents = c
		}
	}
	if raw := strings.TrimSpace(v.Get("max_price")); raw != "" {
		if c, err := money.ParseCents(raw); err == nil {
			q.MaxCents = c
		}
	}
	if q.MinCents >= 0 && q.MaxCents >= 0 && q.MinCents > q.MaxCents {
		q.noMatch = true
	}

	switch Sort(v.Get("sort")) {
	case SortPriceLow:
		q.Sort = SortPriceLow
	case SortPriceHigh:
		q.Sort = SortPriceHigh
	}

	if raw := v.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.Limit = min(n, maxPageSize)
		}
	}
	if raw := v.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 1 {
			q.Offset = (n - 1) * q.Limit
		}
	}
	return q
}

// NoMatch reports whether the query is known to have an empty result without
// touching the store.
func (q Query) NoMatch() bool { return q.noMatch }

// buildSQL renders the conjunctive filter chain. Only in-stock products are
// ever visible through this path.
func (q Query) buildSQL() (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + productCols + productFrom + ` WHERE p.available_stock > 0`)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.Search != "" {
		ph := arg("%" + q.Search + "%")
		sb.WriteString(` AND (p.name ILIKE ` + ph + ` OR b.name ILIKE ` + ph + ` OR c.name ILIKE ` + ph + `)`)
	}
	if q.BrandID != "" {
		sb.WriteString(` AND p.brand_id = ` + arg(q.BrandID))
	}
	if q.CategoryID != "" {
		sb.WriteString(` AND p.category_id = ` + arg(q.CategoryID))
	}
	if q.MinCents >= 0 {
		sb.WriteString(` AND p.price_cents >= ` + arg(q.MinCents))
	}
	if q.MaxCents >= 0 {
		sb.WriteString(` AND p.price_cents <= ` + arg(q.MaxCents))
	}

	switch q.Sort {
	case SortPriceLow:
		sb.WriteString(` ORDER BY p.price_cents ASC, p.created_at DESC, p.id`)
	case SortPriceHigh:
		sb.WriteString(` ORDER BY p.price_cents DESC, p.created_at DESC, p.id`)
	default:
		sb.WriteString(` ORDER BY p.created_at DESC, p.id`)
	}

	sb.WriteString(` LIMIT ` + arg(q.Limit) + ` OFFSET ` + arg(q.Offset))
	return sb.String(), args
}
