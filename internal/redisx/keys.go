package redisx

import "time"

const (
	// Facet lists for the filter sidebar: catalog:facets -> {"brands":[...],"categories":[...]}
	KeyCatalogFacets = "catalog:facets"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Low-stock flags, maintained by the alerts consumer: set of product ids.
	KeyLowStock = "stock:low"
)

var (
	TTLFacetCache = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
)
