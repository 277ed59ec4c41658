// Package tracking publishes storefront analytics events. Sinks are
// fire-and-forget: a failed publish is logged and swallowed, never returned
// to the caller, so analytics outages cannot fail a cart mutation.
package tracking

import (
	"context"

	"tachpae-storefront/internal/domain"
)

// AddToCartEvent is emitted once per AddItem call.
type AddToCartEvent struct {
	VisitorID   string          `json:"visitorId"`
	CityID      string          `json:"cityId,omitempty"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	ItemType    domain.ItemType `json:"itemType"`
	PriceCents  int64           `json:"priceCents"`
	Quantity    int             `json:"quantity"`
}

// CartOpenedEvent is emitted when a shopper opens their cart.
type CartOpenedEvent struct {
	VisitorID  string `json:"visitorId"`
	CityID     string `json:"cityId,omitempty"`
	ItemCount  int    `json:"itemCount"`
	TotalCents int64  `json:"totalCents"`
}

// Sink receives analytics events. Implementations must not block the caller
// beyond enqueueing and must not propagate failures.
type Sink interface {
	AddToCart(ctx context.Context, ev AddToCartEvent)
	CartOpened(ctx context.Context, ev CartOpenedEvent)
}

// Nop discards all events.
type Nop struct{}

func (Nop) AddToCart(context.Context, AddToCartEvent) {}

func (Nop) CartOpened(context.Context, CartOpenedEvent) {}
