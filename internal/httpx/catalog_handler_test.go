package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pookiecare/storefront/internal/catalog"
	"github.com/pookiecare/storefront/internal/reviews"
)

type fakeCatalogStore struct {
	products []catalog.Product
	brands   []catalog.Brand
	cats     []catalog.Category
	gotQuery catalog.Query
}

func (f *fakeCatalogStore) Search(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	f.gotQuery = q
	if q.NoMatch() {
		return []catalog.Product{}, nil
	}
	return f.products, nil
}

func (f *fakeCatalogStore) Featured(ctx context.Context) ([]catalog.Product, error) {
	return f.products, nil
}

func (f *fakeCatalogStore) Latest(ctx context.Context) ([]catalog.Product, error) {
	return f.products, nil
}

func (f *fakeCatalogStore) Related(ctx context.Context, productID, categoryID string) ([]catalog.Product, error) {
	return nil, nil
}

func (f *fakeCatalogStore) Get(ctx context.Context, id string) (catalog.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, errNotFound
}

func (f *fakeCatalogStore) Brands(ctx context.Context) ([]catalog.Brand, error) {
	return f.brands, nil
}

func (f *fakeCatalogStore) Categories(ctx context.Context) ([]catalog.Category, error) {
	return f.cats, nil
}

type fakeReviewStore struct {
	added []reviews.Review
}

func (f *fakeReviewStore) Add(ctx context.Context, productID, userID string, rating int, comment string) (reviews.Review, error) {
	if rating < 1 || rating > 5 {
		return reviews.Review{}, reviews.ErrRatingInvalid
	}
	rv := reviews.Review{ID: "r1", ProductID: productID, UserID: userID, Rating: rating, Comment: comment}
	f.added = append(f.added, rv)
	return rv, nil
}

func (f *fakeReviewStore) ListByProduct(ctx context.Context, productID string) ([]reviews.Review, error) {
	return f.added, nil
}

func (f *fakeReviewStore) Summarize(ctx context.Context, productID string) (reviews.Summary, error) {
	return reviews.Summary{Count: len(f.added)}, nil
}

func newCatalogServer(store *fakeCatalogStore, rs *fakeReviewStore) *httptest.Server {
	r := NewRouter()
	h := &CatalogHandler{Store: store, Reviews: rs, PageSize: 24, Currency: "BDT"}
	h.Register(r)
	return httptest.NewServer(r)
}

func TestListProducts(t *testing.T) {
	store := &fakeCatalogStore{
		products: []catalog.Product{{ID: "p1", Name: "Serum", PriceCents: 50000, Stock: 3}},
		brands:   []catalog.Brand{{ID: "b1", Name: "Brand"}},
		cats:     []catalog.Category{{ID: "c1", Name: "Serums"}},
	}
	srv := newCatalogServer(store, &fakeReviewStore{})
	defer srv.Close()

	t.Run("returns products plus facet lists", func(t *testing.T) {
		resp, body := doReq(t, http.MethodGet, srv.URL+"/products?search=serum", "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["products"], 1)
		assert.Len(t, body["brands"], 1)
		assert.Len(t, body["categories"], 1)
		assert.Equal(t, "serum", store.gotQuery.Search)
	})

	t.Run("malformed params degrade instead of failing", func(t *testing.T) {
		resp, _ := doReq(t, http.MethodGet,
			srv.URL+"/products?min_price=cheap&max_price=&sort=bogus&limit=x", "", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(-1), store.gotQuery.MinCents)
		assert.Equal(t, catalog.SortLatest, store.gotQuery.Sort)
	})

	t.Run("unknown brand identifier yields empty list with 200", func(t *testing.T) {
		resp, body := doReq(t, http.MethodGet, srv.URL+"/products?brand=not-a-uuid", "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body["products"])
	})
}

func TestProductDetail(t *testing.T) {
	store := &fakeCatalogStore{
		products: []catalog.Product{{ID: "p1", Name: "Serum", CategoryID: "c1"}},
	}
	srv := newCatalogServer(store, &fakeReviewStore{})
	defer srv.Close()

	resp, body := doReq(t, http.MethodGet, srv.URL+"/products/p1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	product := body["product"].(map[string]any)
	assert.Equal(t, "Serum", product["name"])

	resp, _ = doReq(t, http.MethodGet, srv.URL+"/products/missing", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddReview(t *testing.T) {
	store := &fakeCatalogStore{products: []catalog.Product{{ID: "p1"}}}
	rs := &fakeReviewStore{}
	srv := newCatalogServer(store, rs)
	defer srv.Close()

	t.Run("requires user", func(t *testing.T) {
		resp, _ := doReq(t, http.MethodPost, srv.URL+"/products/p1/reviews", "", `{"rating":5}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects out-of-range rating", func(t *testing.T) {
		resp, _ := doReq(t, http.MethodPost, srv.URL+"/products/p1/reviews", "u1", `{"rating":9}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("created", func(t *testing.T) {
		resp, body := doReq(t, http.MethodPost, srv.URL+"/products/p1/reviews", "u1",
			`{"rating":4,"comment":"nice"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, float64(4), body["rating"])
		require.Len(t, rs.added, 1)
		assert.Equal(t, "u1", rs.added[0].UserID)
	})
}

func TestHome(t *testing.T) {
	store := &fakeCatalogStore{products: []catalog.Product{{ID: "p1"}}}
	srv := newCatalogServer(store, &fakeReviewStore{})
	defer srv.Close()

	resp, body := doReq(t, http.MethodGet, srv.URL+"/home", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "featured")
	assert.Contains(t, body, "latest")
}

var errNotFound = errors.New("not found")
