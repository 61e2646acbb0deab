package cart

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Cart is the in-memory cart state. Items are ordered and unique by Key.
// TotalQuantity and TotalAmount are derived and recomputed from the full
// item set after every mutation, never adjusted incrementally.
type Cart struct {
	Items         []Item          `json:"items"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

func New() *Cart {
	return &Cart{TotalAmount: decimal.Zero}
}

func (c *Cart) indexOf(key Key) int {
	for i, it := range c.Items {
		if it.Key == key {
			return i
		}
	}
	return -1
}

// AddItem appends a line for the given product and variant, or accumulates
// quantity into the existing line with the same identity. A quantity below
// one is treated as one.
func (c *Cart) AddItem(p Product, v *Variant, quantity int64) error {
	if p.ID <= 0 {
		return NewValidationError("invalid product id %d", p.ID)
	}
	if p.Price.IsNegative() {
		return NewValidationError("negative price for product %d", p.ID)
	}
	if quantity < 1 {
		quantity = 1
	}

	variantID := DefaultVariant
	unitPrice := p.Price
	if v != nil {
		if v.AdditionalPrice.IsNegative() {
			return NewValidationError("negative additional price for variant %d", v.ID)
		}
		variantID = v.ID
		unitPrice = unitPrice.Add(v.AdditionalPrice)
	}
	key := NewKey(p.ID, variantID)

	if i := c.indexOf(key); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		name := p.Name
		if v != nil && v.Name != "" {
			name = p.Name + " (" + v.Name + ")"
		}
		c.Items = append(c.Items, Item{
			Key:       key,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Name:      name,
			Image:     p.Image,
		})
	}

	c.recompute()
	return nil
}

// RemoveItem deletes the line with the given identity. Removing an absent
// identity is a no-op, not an error.
func (c *Cart) RemoveItem(key Key) {
	i := c.indexOf(key)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.recompute()
}

// SetQuantity replaces the quantity of an existing line. Quantities below
// one are rejected: deletion must be an explicit RemoveItem call.
func (c *Cart) SetQuantity(key Key, quantity int64) error {
	if quantity < 1 {
		return NewValidationError("quantity must be at least 1, got %d", quantity)
	}
	i := c.indexOf(key)
	if i < 0 {
		return NewValidationError("no cart line for product %d variant %d", key.ProductID, key.VariantID)
	}
	c.Items[i].Quantity = quantity
	c.recompute()
	return nil
}

// IncrementQuantity raises an existing line's quantity by one.
func (c *Cart) IncrementQuantity(key Key) {
	i := c.indexOf(key)
	if i < 0 {
		return
	}
	c.Items[i].Quantity++
	c.recompute()
}

// DecrementQuantity lowers an existing line's quantity by one, flooring at
// one. Use RemoveItem to delete the line.
func (c *Cart) DecrementQuantity(key Key) {
	i := c.indexOf(key)
	if i < 0 || c.Items[i].Quantity <= 1 {
		return
	}
	c.Items[i].Quantity--
	c.recompute()
}

// Clear empties the cart and zeroes the totals.
func (c *Cart) Clear() {
	c.Items = nil
	c.recompute()
}

// Replace swaps the whole item set for an authoritative server snapshot.
// Totals are re-derived locally rather than trusted from the wire.
func (c *Cart) Replace(items []Item) {
	c.Items = make([]Item, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		it.Key = NewKey(it.Key.ProductID, it.Key.VariantID)
		if i := c.indexOf(it.Key); i >= 0 {
			c.Items[i].Quantity += it.Quantity
			continue
		}
		c.Items = append(c.Items, it)
	}
	c.recompute()
}

// Snapshot returns a copy of the item set safe for the caller to hold.
func (c *Cart) Snapshot() []Item {
	out := make([]Item, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) recompute() {
	var qty int64
	total := decimal.Zero
	for _, it := range c.Items {
		qty += it.Quantity
		total = total.Add(it.LineTotal())
	}
	c.TotalQuantity = qty
	c.TotalAmount = total
}

// ParseQuantity converts an external quantity (form field, API payload)
// into a typed value. The cart core itself never accepts string numerics.
func ParseQuantity(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, NewValidationError("quantity %q is not an integer", s)
	}
	return n, nil
}

// ParsePrice converts an external price into a decimal.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, NewValidationError("price %q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, NewValidationError("price %q is negative", s)
	}
	return d, nil
}
