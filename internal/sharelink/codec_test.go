package sharelink

import (
	"testing"

	"tachpae-storefront/internal/domain"
)

func TestRoundTrip(t *testing.T) {
	items := []SharedItem{
		{ID: "a", Qty: 2},
		{ID: "b", Qty: 1},
	}
	token, err := Encode(items)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	for i := range items {
		if got[i] != items[i] {
			t.Fatalf("item %d = %+v, want %+v (order must be preserved)", i, got[i], items[i])
		}
	}
}

func TestRoundTripEmpty(t *testing.T) {
	token, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}

func TestEncodeCartDropsPricing(t *testing.T) {
	cart := domain.Cart{Items: []domain.LineItem{
		{ProductID: "p1", ProductName: "Roses", PriceCents: 4900, Quantity: 2, TotalCents: 9800},
		{ProductID: "p2", ProductName: "Card", PriceCents: 300, Quantity: 1, TotalCents: 300},
	}}
	token, err := EncodeCart(cart)
	if err != nil {
		t.Fatalf("EncodeCart: %v", err)
	}

	got, err := Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []SharedItem{{ID: "p1", Qty: 2}, {ID: "p2", Qty: 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"not base64", "not-valid-base64!!"},
		{"base64 of junk", "bm90LWpzb24"},
		{"base64 of wrong shape", "eyJpZCI6ICJ4In0="},
	}
	for _, tc := range cases {
		got, err := Decode(tc.token)
		if err == nil {
			t.Fatalf("%s: expected a diagnostic error", tc.name)
		}
		if len(got) != 0 {
			t.Fatalf("%s: malformed token must decode to nothing, got %+v", tc.name, got)
		}
	}
}

func TestDecodeEmptyToken(t *testing.T) {
	got, err := Decode("")
	if err != nil {
		t.Fatalf("Decode empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}
