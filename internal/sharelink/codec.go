// Package sharelink encodes a cart snapshot into the wishlist share token:
// base64url of a JSON array of {id, q} pairs. Prices and names are dropped on
// purpose; the page opening the link re-resolves each id against the live
// catalog and must never trust pricing carried in the token (there is none).
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"tachpae-storefront/internal/domain"
)

// SharedItem is one id/quantity pair inside a share token.
type SharedItem struct {
	ID  string `json:"id"`
	Qty int    `json:"q"`
}

// Encode serializes the ordered pair list into a URL-safe token.
// Decode(Encode(x)) == x for any well-formed x, including the empty list.
func Encode(items []SharedItem) (string, error) {
	if items == nil {
		items = []SharedItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// EncodeCart maps cart lines to their id/quantity pairs and encodes them,
// preserving line order.
func EncodeCart(cart domain.Cart) (string, error) {
	items := make([]SharedItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, SharedItem{ID: line.ProductID, Qty: line.Quantity})
	}
	return Encode(items)
}

// Decode reverses Encode. Any malformed token yields (nil, error); callers
// log the error and render the empty wishlist state, never an error page.
func Decode(token string) ([]SharedItem, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("sharelink: decode token: %w", err)
	}
	var items []SharedItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("sharelink: parse token payload: %w", err)
	}
	return items, nil
}
