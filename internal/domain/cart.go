package domain

import "maps"

// CartItem is one cart line. Product is a snapshot taken when the item was added.
type CartItem struct {
	ProductID string            `json:"productId"`
	Product   Product           `json:"product"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant,omitempty"`
}

// SameLine reports whether the item is for the given product and variant selection.
func (c CartItem) SameLine(productID string, variant map[string]string) bool {
	if c.ProductID != productID {
		return false
	}
	if len(c.Variant) == 0 && len(variant) == 0 {
		return true
	}
	return maps.Equal(c.Variant, variant)
}
