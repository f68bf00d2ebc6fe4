package catalog

import "time"

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Details      string    `json:"details"`
	PriceCents   int64     `json:"price_cents"`
	Stock        int       `json:"available_stock"`
	Featured     bool      `json:"featured"`
	BrandID      string    `json:"brand_id"`
	BrandName    string    `json:"brand_name"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
