package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/pookiecare/storefront/internal/kafka"
	"github.com/pookiecare/storefront/internal/money"
	"github.com/pookiecare/storefront/internal/orders"
)

type OrderStore interface {
	GetOrCreateCart(ctx context.Context, userID string) (orders.Order, error)
	AddOrUpdateItem(ctx context.Context, orderID, productID string, qty int) error
	RemoveItem(ctx context.Context, orderID, productID string) error
	CartTotals(ctx context.Context, orderID string) (orders.Totals, error)
	Items(ctx context.Context, orderID string) ([]orders.OrderItem, error)
	Get(ctx context.Context, orderID, userID string) (orders.Order, error)
	ListCompleted(ctx context.Context, userID string) ([]orders.Order, error)
	CompleteOrder(ctx context.Context, orderID string) (orders.Order, []orders.CompletedItem, error)
}

// Publisher is what the handler needs from the kafka producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Store    OrderStore
	Producer Publisher
	Service  string
	Currency string
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/cart", h.getCart)
	r.Put("/cart/items", h.putItem)
	r.Delete("/cart/items/{productID}", h.removeItem)
	r.Post("/cart/complete", h.complete)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
}

type putItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type totalsResp struct {
	OrderID    string `json:"order_id"`
	Items      int    `json:"items"`
	TotalCents int64  `json:"total_cents"`
	Total      string `json:"total"`
	Currency   string `json:"currency"`
}

func (h *OrdersHandler) totals(ctx context.Context, orderID string) (totalsResp, error) {
	t, err := h.Store.CartTotals(ctx, orderID)
	if err != nil {
		return totalsResp{}, err
	}
	return totalsResp{
		OrderID:    orderID,
		Items:      t.Items,
		TotalCents: t.TotalCents,
		Total:      money.Format(t.TotalCents),
		Currency:   h.Currency,
	}, nil
}

func (h *OrdersHandler) getCart(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cart, err := h.Store.GetOrCreateCart(ctx, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	items, err := h.Store.Items(ctx, cart.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	t, err := h.totals(ctx, cart.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": cart, "items": items, "totals": t})
}

func (h *OrdersHandler) putItem(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}
	var req putItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing product_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := h.Store.GetOrCreateCart(ctx, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	if err := h.Store.AddOrUpdateItem(ctx, cart.ID, req.ProductID, req.Quantity); err != nil {
		h.writeOrderErr(w, err)
		return
	}
	t, err := h.totals(ctx, cart.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *OrdersHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := h.Store.GetOrCreateCart(ctx, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	if err := h.Store.RemoveItem(ctx, cart.ID, chi.URLParam(r, "productID")); err != nil {
		h.writeOrderErr(w, err)
		return
	}
	t, err := h.totals(ctx, cart.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *OrdersHandler) complete(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cart, err := h.Store.GetOrCreateCart(ctx, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}

	order, items, err := h.Store.CompleteOrder(ctx, cart.ID)
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}

	var total int64
	for _, it := range items {
		total += int64(it.Qty) * it.PriceCents
	}
	h.publishCompleted(order, items, total, r.Header.Get("X-Request-Id"))

	writeJSON(w, http.StatusOK, map[string]any{
		"order_id":     order.ID,
		"completed_at": order.CompletedAt,
		"items":        items,
		"total_cents":  total,
		"total":        money.Format(total),
		"currency":     h.Currency,
	})
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Store.ListCompleted(ctx, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": list})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Store.Get(ctx, chi.URLParam(r, "id"), uid)
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	t := orders.SumItems(o.Items)
	writeJSON(w, http.StatusOK, map[string]any{
		"order":       o,
		"total_cents": t.TotalCents,
		"total":       money.Format(t.TotalCents),
		"currency":    h.Currency,
	})
}

// writeOrderErr maps engine errors onto the HTTP surface. Unrecognized
// errors mean the store could not honor the transaction.
func (h *OrdersHandler) writeOrderErr(w http.ResponseWriter, err error) {
	var stockErr *orders.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     "insufficient stock",
			"shortages": stockErr.Shortages,
		})
	case errors.Is(err, orders.ErrOrderCompleted), errors.Is(err, orders.ErrEmptyOrder):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, orders.ErrQuantityInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, orders.ErrProductNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store unavailable"})
	}
}

func (h *OrdersHandler) publishCompleted(o orders.Order, items []orders.CompletedItem, total int64, trace string) {
	if h.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCompleted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       trace,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderCompletedPayload{
			OrderID:    o.ID,
			UserID:     o.UserID,
			Items:      items,
			TotalCents: total,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCompleted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
