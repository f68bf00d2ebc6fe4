package reviews

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pookiecare/storefront/internal/postgres"
)

func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, postgres.EnsureSchema(ctx, db))
	t.Cleanup(db.Close)
	return db
}

func seedProduct(t *testing.T, db *pgxpool.Pool) string {
	t.Helper()
	ctx := context.Background()
	brandID, catID, productID := uuid.NewString(), uuid.NewString(), uuid.NewString()
	_, err := db.Exec(ctx, `INSERT INTO brands(id, name) VALUES ($1, $2)`, brandID, "brand-"+brandID[:8])
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO categories(id, name) VALUES ($1, $2)`, catID, "cat-"+catID[:8])
	require.NoError(t, err)
	_, err = db.Exec(ctx, `
		INSERT INTO products(id, name, price_cents, available_stock, brand_id, category_id)
		VALUES ($1, $2, 10000, 5, $3, $4)`, productID, "product-"+productID[:8], brandID, catID)
	require.NoError(t, err)
	return productID
}

func TestAddValidation(t *testing.T) {
	repo := &Repo{}
	// rating range is checked before any store access
	_, err := repo.Add(context.Background(), "p", "u", 0, "")
	assert.ErrorIs(t, err, ErrRatingInvalid)
	_, err = repo.Add(context.Background(), "p", "u", 6, "")
	assert.ErrorIs(t, err, ErrRatingInvalid)
}

func TestAddListSummarize(t *testing.T) {
	db := testDB(t)
	repo := &Repo{DB: db}
	ctx := context.Background()

	product := seedProduct(t, db)

	_, err := repo.Add(ctx, uuid.NewString(), "u1", 4, "missing product")
	assert.ErrorIs(t, err, ErrProductNotFound)

	first, err := repo.Add(ctx, product, "u1", 5, "  excellent  ")
	require.NoError(t, err)
	assert.Equal(t, "excellent", first.Comment)

	time.Sleep(10 * time.Millisecond) // distinct created_at for the ordering check
	_, err = repo.Add(ctx, product, "u2", 3, "fine")
	require.NoError(t, err)

	list, err := repo.ListByProduct(ctx, product)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "u2", list[0].UserID, "newest first")

	s, err := repo.Summarize(ctx, product)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 4.0, s.Average, 0.0001)
}
