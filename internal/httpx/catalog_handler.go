package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/pookiecare/storefront/internal/catalog"
	"github.com/pookiecare/storefront/internal/redisx"
	"github.com/pookiecare/storefront/internal/reviews"
)

type CatalogStore interface {
	Search(ctx context.Context, q catalog.Query) ([]catalog.Product, error)
	Featured(ctx context.Context) ([]catalog.Product, error)
	Latest(ctx context.Context) ([]catalog.Product, error)
	Related(ctx context.Context, productID, categoryID string) ([]catalog.Product, error)
	Get(ctx context.Context, id string) (catalog.Product, error)
	Brands(ctx context.Context) ([]catalog.Brand, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
}

type ReviewStore interface {
	Add(ctx context.Context, productID, userID string, rating int, comment string) (reviews.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]reviews.Review, error)
	Summarize(ctx context.Context, productID string) (reviews.Summary, error)
}

type CatalogHandler struct {
	Store    CatalogStore
	Reviews  ReviewStore
	Redis    *redis.Client // optional facet cache
	PageSize int
	Currency string
}

type facets struct {
	Brands     []catalog.Brand    `json:"brands"`
	Categories []catalog.Category `json:"categories"`
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/home", h.home)
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.detail)
	r.Get("/products/{id}/reviews", h.listReviews)
	r.Post("/products/{id}/reviews", h.addReview)
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	q := catalog.ParseQuery(r.URL.Query(), h.PageSize)
	products, err := h.Store.Search(ctx, q)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	f, err := h.facets(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products":   products,
		"brands":     f.Brands,
		"categories": f.Categories,
		"currency":   h.Currency,
	})
}

func (h *CatalogHandler) home(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	featured, err := h.Store.Featured(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	latest, err := h.Store.Latest(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"featured": featured,
		"latest":   latest,
		"currency": h.Currency,
	})
}

func (h *CatalogHandler) detail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	p, err := h.Store.Get(ctx, id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	related, err := h.Store.Related(ctx, p.ID, p.CategoryID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	summary, err := h.Reviews.Summarize(ctx, p.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product":  p,
		"related":  related,
		"reviews":  summary,
		"currency": h.Currency,
	})
}

func (h *CatalogHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Reviews.ListByProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": list})
}

type addReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *CatalogHandler) addReview(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}
	var req addReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rv, err := h.Reviews.Add(ctx, chi.URLParam(r, "id"), uid, req.Rating, req.Comment)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, rv)
	case errors.Is(err, reviews.ErrRatingInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, reviews.ErrProductNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
	}
}

// facets reads brand/category lists through the redis cache when one is
// wired; otherwise straight from the store.
func (h *CatalogHandler) facets(ctx context.Context) (facets, error) {
	if h.Redis != nil {
		if raw, err := h.Redis.Get(ctx, redisx.KeyCatalogFacets).Result(); err == nil && raw != "" {
			var f facets
			if json.Unmarshal([]byte(raw), &f) == nil {
				return f, nil
			}
		}
	}

	var f facets
	var err error
	if f.Brands, err = h.Store.Brands(ctx); err != nil {
		return facets{}, err
	}
	if f.Categories, err = h.Store.Categories(ctx); err != nil {
		return facets{}, err
	}
	if h.Redis != nil {
		if b, err := json.Marshal(f); err == nil {
			_ = h.Redis.Set(ctx, redisx.KeyCatalogFacets, b, redisx.TTLFacetCache).Err()
		}
	}
	return f, nil
}
