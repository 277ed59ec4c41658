package catalog

import (
	"context"

	"tachpae-storefront/internal/domain"
)

// Repository provides read and upsert access to the city-scoped catalog.
type Repository interface {
	// ListByCity returns the catalog of one city, optionally filtered to a
	// single item type when itemType is non-empty.
	ListByCity(ctx context.Context, cityID string, itemType domain.ItemType) ([]domain.CatalogItem, error)

	GetByID(ctx context.Context, id string) (*domain.CatalogItem, error)

	// ResolveByIDs returns current summaries for the given ids in request
	// order. Unknown or malformed ids are omitted, never an error; a shared
	// wishlist must render whatever still resolves.
	ResolveByIDs(ctx context.Context, ids []string) ([]domain.ItemSummary, error)

	Upsert(ctx context.Context, item domain.CatalogItem) (*domain.CatalogItem, error)
}
