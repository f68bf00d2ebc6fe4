package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrRatingInvalid   = errors.New("rating must be between 1 and 5")
	ErrProductNotFound = errors.New("product not found")
)

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary aggregates a product's reviews for the detail page.
type Summary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Add(ctx context.Context, productID, userID string, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrRatingInvalid
	}

	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id=$1)`, productID).
		Scan(&exists); err != nil {
		return Review{}, err
	}
	if !exists {
		return Review{}, ErrProductNotFound
	}

	rv := Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO reviews(id, product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment).Scan(&rv.CreatedAt)
	return rv, err
}

// ListByProduct returns reviews newest first.
func (r *Repo) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, user_id, rating, comment, created_at
		FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) Summarize(ctx context.Context, productID string) (Summary, error) {
	var s Summary
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM reviews WHERE product_id = $1`, productID).Scan(&s.Count, &s.Average)
	return s, err
}
