package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "storefront-api", cfg.ServiceName)
	assert.Equal(t, "BDT", cfg.Currency)
	assert.Equal(t, 24, cfg.CatalogPageSize)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,,")
	t.Setenv("CATALOG_PAGE_SIZE", "12")
	t.Setenv("LOW_STOCK_THRESHOLD", "notanumber")
	t.Setenv("CURRENCY", "USD")

	cfg := Load()
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 12, cfg.CatalogPageSize)
	assert.Equal(t, 5, cfg.LowStockThreshold) // bad value falls back
	assert.Equal(t, "USD", cfg.Currency)
}
