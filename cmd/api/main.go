package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pookiecare/storefront/internal/catalog"
	"github.com/pookiecare/storefront/internal/config"
	"github.com/pookiecare/storefront/internal/httpx"
	kafkax "github.com/pookiecare/storefront/internal/kafka"
	"github.com/pookiecare/storefront/internal/orders"
	"github.com/pookiecare/storefront/internal/postgres"
	"github.com/pookiecare/storefront/internal/redisx"
	"github.com/pookiecare/storefront/internal/reviews"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for completion events
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCompleted, 1024)
	prod.Start(ctx)

	// Repos & handlers
	router := httpx.NewRouter()
	ch := &httpx.CatalogHandler{
		Store:    &catalog.Repo{DB: db},
		Reviews:  &reviews.Repo{DB: db},
		Redis:    rdb,
		PageSize: cfg.CatalogPageSize,
		Currency: cfg.Currency,
	}
	ch.Register(router)
	oh := &httpx.OrdersHandler{
		Store:    &orders.Repo{DB: db},
		Producer: prod,
		Service:  cfg.ServiceName,
		Currency: cfg.Currency,
	}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	cancel()
	prod.WaitClosed()
}
