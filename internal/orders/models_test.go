package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumItems(t *testing.T) {
	items := []OrderItem{
		{ProductID: "a", Quantity: 2, PriceCents: 50000},
		{ProductID: "b", Quantity: 1, PriceCents: 30000},
	}
	got := SumItems(items)
	assert.Equal(t, 3, got.Items)
	assert.Equal(t, int64(130000), got.TotalCents)
}

func TestSumItemsEmpty(t *testing.T) {
	got := SumItems(nil)
	assert.Equal(t, 0, got.Items)
	assert.Equal(t, int64(0), got.TotalCents)
}
