package cart

import (
	"context"
	"errors"
	"testing"

	"tachpae-storefront/internal/domain"
	"tachpae-storefront/internal/tracking"
)

type stubStore struct {
	carts      map[string]domain.Cart
	visits     map[string]domain.VisitState
	loadErr    error
	saveErr    error
	cartSaves  int
	visitSaves int
}

func newStubStore() *stubStore {
	return &stubStore{
		carts:  make(map[string]domain.Cart),
		visits: make(map[string]domain.VisitState),
	}
}

func (s *stubStore) LoadCart(_ context.Context, visitorID, scopeKey string) (domain.Cart, error) {
	if s.loadErr != nil {
		return domain.Cart{}, s.loadErr
	}
	return s.carts[visitorID+":"+scopeKey], nil
}

func (s *stubStore) SaveCart(_ context.Context, visitorID, scopeKey string, cart domain.Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.cartSaves++
	s.carts[visitorID+":"+scopeKey] = cart
	return nil
}

func (s *stubStore) LoadVisitState(_ context.Context, visitorID string) (domain.VisitState, error) {
	return s.visits[visitorID], nil
}

func (s *stubStore) SaveVisitState(_ context.Context, visitorID string, state domain.VisitState) error {
	s.visitSaves++
	s.visits[visitorID] = state
	return nil
}

type recordingSink struct {
	added  []tracking.AddToCartEvent
	opened []tracking.CartOpenedEvent
}

func (r *recordingSink) AddToCart(_ context.Context, ev tracking.AddToCartEvent) {
	r.added = append(r.added, ev)
}

func (r *recordingSink) CartOpened(_ context.Context, ev tracking.CartOpenedEvent) {
	r.opened = append(r.opened, ev)
}

func hydratedSession(t *testing.T, st *stubStore, sink tracking.Sink) *Session {
	t.Helper()
	s := NewSession("v1", "pp", st, sink, nil)
	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	return s
}

func TestMutationsRejectedBeforeHydration(t *testing.T) {
	st := newStubStore()
	s := NewSession("v1", "pp", st, nil, nil)

	_, err := s.AddItem(context.Background(), AddItemInput{ProductID: "p1", PriceCents: 100, Quantity: 1})
	if !errors.Is(err, domain.ErrNotHydrated) {
		t.Fatalf("AddItem before hydrate: got %v", err)
	}
	if _, err := s.RemoveItem(context.Background(), "p1"); !errors.Is(err, domain.ErrNotHydrated) {
		t.Fatalf("RemoveItem before hydrate: got %v", err)
	}
	if _, err := s.UpdateQuantity(context.Background(), "p1", 2); !errors.Is(err, domain.ErrNotHydrated) {
		t.Fatalf("UpdateQuantity before hydrate: got %v", err)
	}
	if _, err := s.Clear(context.Background()); !errors.Is(err, domain.ErrNotHydrated) {
		t.Fatalf("Clear before hydrate: got %v", err)
	}
	if st.cartSaves != 0 {
		t.Fatalf("expected no writes before hydration, got %d", st.cartSaves)
	}
}

func TestHydrateLoadError(t *testing.T) {
	st := newStubStore()
	st.loadErr = errors.New("redis down")
	s := NewSession("v1", "", st, nil, nil)
	if err := s.Hydrate(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestAddItemValidation(t *testing.T) {
	s := hydratedSession(t, newStubStore(), nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   AddItemInput
	}{
		{"missing product id", AddItemInput{PriceCents: 100, Quantity: 1}},
		{"zero quantity", AddItemInput{ProductID: "p1", PriceCents: 100}},
		{"negative quantity", AddItemInput{ProductID: "p1", PriceCents: 100, Quantity: -2}},
		{"negative price", AddItemInput{ProductID: "p1", PriceCents: -1, Quantity: 1}},
		{"bad type", AddItemInput{ProductID: "p1", PriceCents: 100, Quantity: 1, Type: "membership"}},
	}
	for _, tc := range cases {
		_, err := s.AddItem(ctx, tc.in)
		var vErr ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	sink := &recordingSink{}
	s := hydratedSession(t, newStubStore(), sink)
	ctx := context.Background()

	if _, err := s.AddItem(ctx, AddItemInput{ProductID: "p1", ProductName: "Roses", PriceCents: 1000, Quantity: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	got, err := s.AddItem(ctx, AddItemInput{ProductID: "p1", ProductName: "Roses Deluxe", PriceCents: 1000, Quantity: 1})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(got.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(got.Items))
	}
	line := got.Items[0]
	if line.Quantity != 3 || line.TotalCents != 3000 {
		t.Fatalf("merged line quantity=%d total=%d, want 3/3000", line.Quantity, line.TotalCents)
	}
	if line.ProductName != "Roses Deluxe" {
		t.Fatalf("display fields of the newest call should win, got %q", line.ProductName)
	}
	if len(sink.added) != 2 {
		t.Fatalf("expected one tracking event per add call, got %d", len(sink.added))
	}
	if sink.added[1].Quantity != 1 || sink.added[1].PriceCents != 1000 {
		t.Fatalf("tracking event carries the call's values, got %+v", sink.added[1])
	}
}

func TestAddItemAccumulatesAtEachCallsPrice(t *testing.T) {
	s := hydratedSession(t, newStubStore(), nil)
	ctx := context.Background()

	if _, err := s.AddItem(ctx, AddItemInput{ProductID: "p1", PriceCents: 1000, Quantity: 1}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	got, err := s.AddItem(ctx, AddItemInput{ProductID: "p1", PriceCents: 500, Quantity: 2})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	line := got.Items[0]
	if line.Quantity != 3 || line.TotalCents != 2000 {
		t.Fatalf("quantity=%d total=%d, want 3/2000 (1x1000 + 2x500)", line.Quantity, line.TotalCents)
	}
	if line.PriceCents != 1000 {
		t.Fatalf("captured unit price should not be overwritten on merge, got %d", line.PriceCents)
	}
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	s := hydratedSession(t, newStubStore(), nil)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.AddItem(ctx, AddItemInput{ProductID: id, PriceCents: 100, Quantity: 1}); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	if _, err := s.AddItem(ctx, AddItemInput{ProductID: "b", PriceCents: 100, Quantity: 1}); err != nil {
		t.Fatalf("merge b: %v", err)
	}

	cart := s.Cart()
	for i, want := range []string{"a", "b", "c"} {
		if cart.Items[i].ProductID != want {
			t.Fatalf("item %d = %s, want %s", i, cart.Items[i].ProductID, want)
		}
	}
}

func TestRemoveItem(t *testing.T) {
	st := newStubStore()
	s := hydratedSession(t, st, nil)
	ctx := context.Background()

	if _, err := s.AddItem(ctx, AddItemInput{ProductID: "p1", PriceCents: 100, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	saves := st.cartSaves

	got, err := s.RemoveItem(ctx, "p1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(got.Items))
	}
	if st.cartSaves != saves+1 {
		t.Fatalf("removal must persist")
	}

	// Removing an absent id is a no-op, not an error, and writes nothing.
	if _, err := s.RemoveItem(ctx, "ghost"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if st.cartSaves != saves+1 {
		t.Fatalf("no-op removal should not persist")
	}
}

func TestUpdateQuantityOverwrites(t *testing.T) {
	s := hydratedSession(t, newStubStore(), nil)
	ctx := context.Background()

	if _, err := s.AddItem(ctx, AddItemInput{ProductID: "p1", PriceCents: 250, Quantity: 4}); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := s.UpdateQuantity(ctx, "p1", 2)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	line := got.Items[0]
	if line.Quantity != 2 || line.TotalCents != 500 {
		t.Fatalf("quantity=%d total=%d, want 2/500 (overwrite, not accumulate)", line.Quantity, line.TotalCents)
	}
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	for _, qty := range []int{0, -3} {
		s := hydratedSession(t, newStubStore(), nil)
		ctx := context.Background()
		if _, err := s.AddItem(ctx, AddItemInput{ProductID: "p1", PriceCents: 100, Quantity: 2}); err != nil {
			t.Fatalf("add: %v", err)
		}
		got, err := s.UpdateQuantity(ctx, "p1", qty)
		if err != nil {
			t.Fatalf("update to %d: %v", qty, err)
		}
		if len(got.Items) != 0 {
			t.Fatalf("quantity %d should remove the line", qty)
		}
	}
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	s := hydratedSession(t, newStubStore(), nil)
	_, err := s.UpdateQuantity(context.Background(), "ghost", 2)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClearAndDerivedTotals(t *testing.T) {
	s := hydratedSession(t, newStubStore(), nil)
	ctx := context.Background()

	if _, err := s.AddItem(ctx, AddItemInput{ProductID: "a", PriceCents: 1000, Quantity: 2}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := s.AddItem(ctx, AddItemInput{ProductID: "b", PriceCents: 300, Quantity: 1}); err != nil {
		t.Fatalf("add b: %v", err)
	}
	if s.ItemCount() != 3 || s.TotalCents() != 2300 {
		t.Fatalf("count=%d total=%d, want 3/2300", s.ItemCount(), s.TotalCents())
	}

	if _, err := s.UpdateQuantity(ctx, "a", 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.ItemCount() != 2 || s.TotalCents() != 1300 {
		t.Fatalf("derived getters stale after update: count=%d total=%d", s.ItemCount(), s.TotalCents())
	}

	if _, err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.ItemCount() != 0 || s.TotalCents() != 0 {
		t.Fatalf("cleared cart count=%d total=%d", s.ItemCount(), s.TotalCents())
	}
}

func TestSaveErrorFailsMutation(t *testing.T) {
	st := newStubStore()
	s := hydratedSession(t, st, nil)
	st.saveErr = errors.New("redis down")

	sink := &recordingSink{}
	s.tracker = sink
	if _, err := s.AddItem(context.Background(), AddItemInput{ProductID: "p1", PriceCents: 100, Quantity: 1}); err == nil {
		t.Fatalf("expected save error")
	}
	if len(sink.added) != 0 {
		t.Fatalf("failed mutation must not emit tracking events")
	}
}

func TestPersistMirrorsCartHasItems(t *testing.T) {
	st := newStubStore()
	s := hydratedSession(t, st, nil)
	ctx := context.Background()

	if _, err := s.AddItem(ctx, AddItemInput{ProductID: "p1", PriceCents: 100, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !st.visits["v1"].CartHasItems {
		t.Fatalf("visit state should mirror non-empty cart")
	}

	if _, err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if st.visits["v1"].CartHasItems {
		t.Fatalf("visit state should mirror empty cart")
	}
}

func TestMarkOpenedEmitsSnapshot(t *testing.T) {
	sink := &recordingSink{}
	s := hydratedSession(t, newStubStore(), sink)
	ctx := context.Background()

	if _, err := s.AddItem(ctx, AddItemInput{ProductID: "p1", PriceCents: 1000, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.MarkOpened(ctx); err != nil {
		t.Fatalf("mark opened: %v", err)
	}
	if len(sink.opened) != 1 {
		t.Fatalf("expected one cart-opened event, got %d", len(sink.opened))
	}
	ev := sink.opened[0]
	if ev.ItemCount != 2 || ev.TotalCents != 2000 {
		t.Fatalf("event snapshot count=%d total=%d, want 2/2000", ev.ItemCount, ev.TotalCents)
	}
}
