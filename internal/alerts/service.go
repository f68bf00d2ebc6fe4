package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/pookiecare/storefront/internal/kafka"
	"github.com/pookiecare/storefront/internal/orders"
	"github.com/pookiecare/storefront/internal/redisx"
)

// Publisher is what the service needs from the kafka producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service watches completion events and flags products whose remaining stock
// fell to or under Threshold. Flags live in a redis set; a stock.low event is
// published per depleted product for restock tooling.
type Service struct {
	Redis       *redis.Client
	Producer    Publisher // publishes stock.low
	ServiceName string
	Threshold   int
}

// HandleOrderCompleted is the consumer handler for order.completed.
func (s *Service) HandleOrderCompleted(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCompleted {
		return nil // ignore
	}

	// dedup by event_id; replays must not re-alert
	dkey := fmt.Sprintf(redisx.KeyDedup, "alerts", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderCompletedPayload](env.Payload)
	if err != nil {
		return err
	}

	for _, it := range p.Items {
		if it.StockAfter > s.Threshold {
			continue
		}
		if err := s.Redis.SAdd(ctx, redisx.KeyLowStock, it.ProductID).Err(); err != nil {
			log.Printf("low-stock flag %s: %v", it.ProductID, err)
		}
		s.publishLow(it.ProductID, it.StockAfter, env.TraceID)
	}
	return nil
}

func (s *Service) publishLow(productID string, stock int, trace string) {
	ev := orders.Envelope{
		EventID:      uuid.NewString(),
		EventType:    orders.EventStockLow,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     s.ServiceName,
		TraceID:      trace,
		Payload: kafkax.MustMarshal(orders.StockLowPayload{
			ProductID: productID, Stock: stock, Threshold: s.Threshold,
		}),
	}
	s.Producer.Publish([]byte(productID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventStockLow)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
