// Package cart implements the per-visitor, city-scoped cart session: the only
// place cart arithmetic happens. A Session hydrates from the session store,
// applies mutations in memory, and persists the whole snapshot after every
// mutation.
package cart

import (
	"context"
	"io"
	"log"
	"strings"

	"tachpae-storefront/internal/domain"
	"tachpae-storefront/internal/store"
	"tachpae-storefront/internal/tracking"
)

// ValidationError reports a rejected mutation input. Handlers map it to a
// client error rather than a server fault.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Session owns one visitor's cart within one city scope. Not safe for
// concurrent use; each request builds its own session and the store resolves
// concurrent writers last-writer-wins.
type Session struct {
	visitorID string
	cityID    string
	scopeKey  string
	store     store.Store
	tracker   tracking.Sink
	logger    *log.Logger

	hydrated bool
	cart     domain.Cart
}

// NewSession binds a session to a visitor and an optional city scope. The
// session is unusable until Hydrate has run.
func NewSession(visitorID, cityID string, st store.Store, tracker tracking.Sink, logger *log.Logger) *Session {
	if tracker == nil {
		tracker = tracking.Nop{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		visitorID: visitorID,
		cityID:    cityID,
		scopeKey:  store.CartScopeKey(cityID),
		store:     st,
		tracker:   tracker,
		logger:    logger,
	}
}

// Hydrate loads the persisted snapshot. Mutations before hydration are
// rejected with ErrNotHydrated so an unloaded session can never overwrite a
// prior one. Idempotent.
func (s *Session) Hydrate(ctx context.Context) error {
	if s.hydrated {
		return nil
	}
	cart, err := s.store.LoadCart(ctx, s.visitorID, s.scopeKey)
	if err != nil {
		return err
	}
	s.cart = cart
	s.hydrated = true
	return nil
}

// Cart returns the current snapshot.
func (s *Session) Cart() domain.Cart {
	return s.cart
}

// ItemCount sums quantities over the current snapshot.
func (s *Session) ItemCount() int {
	return s.cart.ItemCount()
}

// TotalCents sums line totals over the current snapshot.
func (s *Session) TotalCents() int64 {
	return s.cart.TotalCents()
}

// AddItemInput carries a line to add. TotalCents is computed here, never
// supplied by the caller.
type AddItemInput struct {
	ProductID     string                 `json:"productId"`
	ProductName   string                 `json:"productName,omitempty"`
	ProductImage  string                 `json:"productImage,omitempty"`
	PriceCents    int64                  `json:"priceCents"`
	Quantity      int                    `json:"quantity"`
	Variant       map[string]string      `json:"variant,omitempty"`
	Customization map[string]interface{} `json:"customization,omitempty"`
	Type          domain.ItemType        `json:"type"`
}

// AddItem appends a line or, when the product is already present, merges into
// the existing line: quantities sum and the total accumulates by this call's
// unit price, while display fields of the newest call win. Emits one
// add-to-cart tracking event per successful call.
func (s *Session) AddItem(ctx context.Context, in AddItemInput) (domain.Cart, error) {
	if !s.hydrated {
		return domain.Cart{}, domain.ErrNotHydrated
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return domain.Cart{}, ValidationError("productId required")
	}
	if in.Quantity <= 0 {
		return domain.Cart{}, ValidationError("quantity must be positive")
	}
	if in.PriceCents < 0 {
		return domain.Cart{}, ValidationError("priceCents must not be negative")
	}
	if in.Type == "" {
		in.Type = domain.ItemTypeProduct
	}
	if !domain.ValidItemType(in.Type) {
		return domain.Cart{}, ValidationError("unknown item type")
	}
	if err := domain.ValidateCustomization(in.Customization); err != nil {
		return domain.Cart{}, ValidationError(err.Error())
	}

	addedCents := in.PriceCents * int64(in.Quantity)
	if idx := s.cart.FindItem(in.ProductID); idx >= 0 {
		line := &s.cart.Items[idx]
		line.Quantity += in.Quantity
		line.TotalCents += addedCents
		line.ProductName = in.ProductName
		line.ProductImage = in.ProductImage
		line.Variant = in.Variant
		line.Customization = in.Customization
		line.Type = in.Type
	} else {
		s.cart.Items = append(s.cart.Items, domain.LineItem{
			ProductID:     in.ProductID,
			ProductName:   in.ProductName,
			ProductImage:  in.ProductImage,
			PriceCents:    in.PriceCents,
			Quantity:      in.Quantity,
			Variant:       in.Variant,
			Customization: in.Customization,
			TotalCents:    addedCents,
			Type:          in.Type,
		})
	}

	if err := s.persist(ctx); err != nil {
		return domain.Cart{}, err
	}

	s.tracker.AddToCart(ctx, tracking.AddToCartEvent{
		VisitorID:   s.visitorID,
		CityID:      s.cityID,
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		ItemType:    in.Type,
		PriceCents:  in.PriceCents,
		Quantity:    in.Quantity,
	})
	return s.cart, nil
}

// RemoveItem deletes the line holding productID. Removing an absent id is a
// no-op, not an error.
func (s *Session) RemoveItem(ctx context.Context, productID string) (domain.Cart, error) {
	if !s.hydrated {
		return domain.Cart{}, domain.ErrNotHydrated
	}
	idx := s.cart.FindItem(productID)
	if idx < 0 {
		return s.cart, nil
	}
	s.cart.Items = append(s.cart.Items[:idx], s.cart.Items[idx+1:]...)
	if err := s.persist(ctx); err != nil {
		return domain.Cart{}, err
	}
	return s.cart, nil
}

// UpdateQuantity overwrites a line's quantity and recomputes its total from
// the captured unit price. A quantity of zero or less removes the line.
func (s *Session) UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	if !s.hydrated {
		return domain.Cart{}, domain.ErrNotHydrated
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	idx := s.cart.FindItem(productID)
	if idx < 0 {
		return domain.Cart{}, domain.ErrNotFound
	}
	line := &s.cart.Items[idx]
	line.Quantity = quantity
	line.TotalCents = line.PriceCents * int64(quantity)
	if err := s.persist(ctx); err != nil {
		return domain.Cart{}, err
	}
	return s.cart, nil
}

// Clear empties the cart.
func (s *Session) Clear(ctx context.Context) (domain.Cart, error) {
	if !s.hydrated {
		return domain.Cart{}, domain.ErrNotHydrated
	}
	s.cart.Items = nil
	if err := s.persist(ctx); err != nil {
		return domain.Cart{}, err
	}
	return s.cart, nil
}

// MarkOpened emits a cart-opened tracking event for the current snapshot.
func (s *Session) MarkOpened(ctx context.Context) error {
	if !s.hydrated {
		return domain.ErrNotHydrated
	}
	s.tracker.CartOpened(ctx, tracking.CartOpenedEvent{
		VisitorID:  s.visitorID,
		CityID:     s.cityID,
		ItemCount:  s.cart.ItemCount(),
		TotalCents: s.cart.TotalCents(),
	})
	return nil
}

// persist writes the snapshot wholesale and mirrors cart non-emptiness into
// the visitor's visit state. The mirror is best-effort: a failure there is
// logged but does not fail the mutation.
func (s *Session) persist(ctx context.Context) error {
	if err := s.store.SaveCart(ctx, s.visitorID, s.scopeKey, s.cart); err != nil {
		return err
	}

	state, err := s.store.LoadVisitState(ctx, s.visitorID)
	if err != nil {
		s.logger.Printf("cart: load visit state visitor=%s error=%v", s.visitorID, err)
		return nil
	}
	hasItems := len(s.cart.Items) > 0
	if state.CartHasItems == hasItems {
		return nil
	}
	state.CartHasItems = hasItems
	if err := s.store.SaveVisitState(ctx, s.visitorID, state); err != nil {
		s.logger.Printf("cart: save visit state visitor=%s error=%v", s.visitorID, err)
	}
	return nil
}
