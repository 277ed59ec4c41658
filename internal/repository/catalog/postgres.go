package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tachpae-storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListByCity(ctx context.Context, cityID string, itemType domain.ItemType) ([]domain.CatalogItem, error) {
	const q = `
SELECT id::text, city_id::text, item_type, slug, name, COALESCE(description, ''), price_cents, currency, COALESCE(image_url, ''), attributes, created_at
FROM catalog_items
WHERE city_id = $1 AND ($2 = '' OR item_type = $2)
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, cityID, string(itemType))
	if err != nil {
		r.logger.Printf("catalog repo: list city_id=%s error=%v", cityID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.CityID, &item.Type, &item.Slug, &item.Name, &item.Description, &item.PriceCents, &item.Currency, &item.ImageURL, &item.Attributes, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("catalog repo: list rows city_id=%s error=%v", cityID, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.CatalogItem, error) {
	const q = `
SELECT id::text, city_id::text, item_type, slug, name, COALESCE(description, ''), price_cents, currency, COALESCE(image_url, ''), attributes, created_at
FROM catalog_items
WHERE id = $1
`
	var item domain.CatalogItem
	err := r.pool.QueryRow(ctx, q, id).Scan(&item.ID, &item.CityID, &item.Type, &item.Slug, &item.Name, &item.Description, &item.PriceCents, &item.Currency, &item.ImageURL, &item.Attributes, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) ResolveByIDs(ctx context.Context, ids []string) ([]domain.ItemSummary, error) {
	// Malformed ids are dropped up front so the uuid[] cast cannot fail on
	// junk coming from a shared link.
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	const q = `
SELECT id::text, item_type, name, price_cents, currency, COALESCE(image_url, '')
FROM catalog_items
WHERE id = ANY($1::uuid[])
`
	rows, err := r.pool.Query(ctx, q, valid)
	if err != nil {
		r.logger.Printf("catalog repo: resolve count=%d error=%v", len(valid), err)
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]domain.ItemSummary, len(valid))
	for rows.Next() {
		var s domain.ItemSummary
		if err := rows.Scan(&s.ID, &s.Type, &s.Name, &s.PriceCents, &s.Currency, &s.ImageURL); err != nil {
			return nil, err
		}
		found[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve request order, omit anything that did not resolve.
	result := make([]domain.ItemSummary, 0, len(found))
	seen := make(map[string]bool, len(found))
	for _, id := range valid {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s, ok := found[id]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, item domain.CatalogItem) (*domain.CatalogItem, error) {
	const q = `
INSERT INTO catalog_items (id, city_id, item_type, slug, name, description, price_cents, currency, image_url, attributes)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, NULLIF($6, ''), $7, $8, NULLIF($9, ''), COALESCE($10, '{}'::jsonb))
ON CONFLICT (city_id, slug) DO UPDATE SET
    item_type = EXCLUDED.item_type,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    image_url = EXCLUDED.image_url,
    attributes = EXCLUDED.attributes
RETURNING id::text, created_at
`
	res := item
	err := r.pool.QueryRow(ctx, q,
		item.ID,
		item.CityID,
		string(item.Type),
		item.Slug,
		item.Name,
		item.Description,
		item.PriceCents,
		item.Currency,
		item.ImageURL,
		item.Attributes,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("catalog repo: upsert slug=%s city_id=%s error=%v", item.Slug, item.CityID, err)
		return nil, err
	}
	return &res, nil
}
