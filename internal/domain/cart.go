package domain

// ItemType tags which catalog collection a line item's ProductID refers to.
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
	ItemTypeAddon   ItemType = "addon"
	ItemTypeBundle  ItemType = "bundle"
)

// ValidItemType reports whether t is one of the known catalog collections.
func ValidItemType(t ItemType) bool {
	switch t {
	case ItemTypeProduct, ItemTypeService, ItemTypeAddon, ItemTypeBundle:
		return true
	}
	return false
}

// LineItem is one cart entry: a catalog id plus the quantity and display
// snapshot captured at add time. TotalCents is stored rather than derived on
// read and must be recomputed whenever Quantity or PriceCents changes.
type LineItem struct {
	ProductID     string                 `json:"productId"`
	ProductName   string                 `json:"productName,omitempty"`
	ProductImage  string                 `json:"productImage,omitempty"`
	PriceCents    int64                  `json:"priceCents"`
	Quantity      int                    `json:"quantity"`
	Variant       map[string]string      `json:"variant,omitempty"`
	Customization map[string]interface{} `json:"customization,omitempty"`
	TotalCents    int64                  `json:"totalCents"`
	Type          ItemType               `json:"type"`
}

// Cart holds an ordered sequence of line items, unique by ProductID.
type Cart struct {
	Items []LineItem `json:"items"`
}

// ItemCount sums quantities across all lines. Computed on every call so it is
// never stale relative to the last mutation.
func (c Cart) ItemCount() int {
	count := 0
	for _, line := range c.Items {
		count += line.Quantity
	}
	return count
}

// TotalCents sums the stored line totals across all lines.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Items {
		total += line.TotalCents
	}
	return total
}

// FindItem returns the index of the line holding productID, or -1.
func (c Cart) FindItem(productID string) int {
	for i, line := range c.Items {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
