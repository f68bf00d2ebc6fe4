package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pookiecare/storefront/internal/alerts"
	"github.com/pookiecare/storefront/internal/config"
	kafkax "github.com/pookiecare/storefront/internal/kafka"
	"github.com/pookiecare/storefront/internal/orders"
	"github.com/pookiecare/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicStockLow, 1024)
	prod.Start(ctx)

	svc := &alerts.Service{
		Redis:       rdb,
		Producer:    prod,
		ServiceName: cfg.ServiceName + "-alerts",
		Threshold:   cfg.LowStockThreshold,
	}

	group := getenv("ALERTS_GROUP", "stock-alerts")
	workers := mustAtoi(os.Getenv("ALERTS_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderCompleted, workers)

	go func() {
		log.Printf("alerts consumer started: group=%s topic=%s workers=%d", group, orders.TopicOrderCompleted, workers)
		if err := cons.Start(ctx, svc.HandleOrderCompleted); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	prod.Close()
	prod.WaitClosed()
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
