package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type itemSeed struct {
	Type        string
	Slug        string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	ImageURL    string
}

// Apply inserts a demo Valentine catalog for manual testing. It is idempotent
// via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	cityID, err := ensureCity(ctx, pool, "phnom-penh", "Phnom Penh")
	if err != nil {
		return fmt.Errorf("ensure city: %w", err)
	}

	items := []itemSeed{
		{
			Type:        "product",
			Slug:        "red-rose-bouquet",
			Name:        "Red Rose Bouquet",
			Description: "Two dozen long-stem red roses, hand wrapped",
			PriceCents:  4900,
			Currency:    "USD",
			ImageURL:    "https://cdn.tachpae.example/roses.jpg",
		},
		{
			Type:        "product",
			Slug:        "heart-chocolate-box",
			Name:        "Heart Chocolate Box",
			Description: "Assorted pralines in a heart-shaped box",
			PriceCents:  2500,
			Currency:    "USD",
		},
		{
			Type:        "service",
			Slug:        "surprise-delivery",
			Name:        "Surprise Delivery",
			Description: "Scheduled doorstep delivery with a serenade",
			PriceCents:  1500,
			Currency:    "USD",
		},
		{
			Type:        "addon",
			Slug:        "handwritten-card",
			Name:        "Handwritten Card",
			Description: "Your message, written by our calligrapher",
			PriceCents:  300,
			Currency:    "USD",
		},
		{
			Type:        "bundle",
			Slug:        "date-night-bundle",
			Name:        "Date Night Bundle",
			Description: "Roses, chocolates and a candle-lit dinner voucher",
			PriceCents:  9900,
			Currency:    "USD",
		},
	}

	for _, item := range items {
		if err := upsertItem(ctx, pool, cityID, item); err != nil {
			return fmt.Errorf("upsert item %s: %w", item.Slug, err)
		}
	}

	return nil
}

func ensureCity(ctx context.Context, pool *pgxpool.Pool, slug, name string) (string, error) {
	const q = `
INSERT INTO cities (slug, name)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, slug, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertItem(ctx context.Context, pool *pgxpool.Pool, cityID string, item itemSeed) error {
	const q = `
INSERT INTO catalog_items (city_id, item_type, slug, name, description, price_cents, currency, image_url, attributes)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), '{}'::jsonb)
ON CONFLICT (city_id, slug) DO UPDATE
SET item_type = EXCLUDED.item_type,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    image_url = EXCLUDED.image_url
`
	_, err := pool.Exec(ctx, q, cityID, item.Type, item.Slug, item.Name, item.Description, item.PriceCents, item.Currency, item.ImageURL)
	return err
}
