package domain

import "time"

// CatalogItem is a city-scoped storefront entity: a product, service, add-on
// or bundle, distinguished by Type.
type CatalogItem struct {
	ID          string                 `json:"id"`
	CityID      string                 `json:"-"`
	Type        ItemType               `json:"type"`
	Slug        string                 `json:"slug"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	PriceCents  int64                  `json:"priceCents"`
	Currency    string                 `json:"currency"`
	ImageURL    string                 `json:"imageUrl,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// ItemSummary is the current-price view of a catalog item, used when a shared
// wishlist re-resolves ids against the live catalog.
type ItemSummary struct {
	ID         string   `json:"id"`
	Type       ItemType `json:"type"`
	Name       string   `json:"name"`
	PriceCents int64    `json:"priceCents"`
	Currency   string   `json:"currency"`
	ImageURL   string   `json:"imageUrl,omitempty"`
}
