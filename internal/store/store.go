package store

import (
	"context"

	"tachpae-storefront/internal/domain"
)

const (
	// cartKeyPrefix is the storage namespace for cart snapshots. A cart with
	// no city context lives under the bare prefix; city-scoped carts append
	// the city id so shoppers keep independent carts per city.
	cartKeyPrefix = "tachpae_cart"

	// visitKey is the storage namespace for promotional visit state.
	visitKey = "tachpae_visits"
)

// CartScopeKey builds the storage key suffix for a city scope. An empty
// cityID selects the default global scope.
func CartScopeKey(cityID string) string {
	if cityID == "" {
		return cartKeyPrefix
	}
	return cartKeyPrefix + "_" + cityID
}

// Store persists per-visitor session state as whole-value JSON documents.
// Writes overwrite wholesale; concurrent writers race with last-writer-wins.
//
// Loads fail soft on corrupt payloads: a snapshot that no longer parses is
// logged and replaced by the empty value, never surfaced as an error. Errors
// returned by Store methods are backend I/O failures only.
type Store interface {
	LoadCart(ctx context.Context, visitorID, scopeKey string) (domain.Cart, error)
	SaveCart(ctx context.Context, visitorID, scopeKey string, cart domain.Cart) error
	LoadVisitState(ctx context.Context, visitorID string) (domain.VisitState, error)
	SaveVisitState(ctx context.Context, visitorID string, state domain.VisitState) error
}

func cartStorageKey(visitorID, scopeKey string) string {
	return visitorID + ":" + scopeKey
}

func visitStorageKey(visitorID string) string {
	return visitorID + ":" + visitKey
}
