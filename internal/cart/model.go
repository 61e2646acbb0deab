package cart

import "github.com/shopspring/decimal"

// DefaultVariant is the normalized variant identity for products without
// variants. Real variant ids are positive.
const DefaultVariant int64 = 0

// Key identifies a cart line: same product and same normalized variant
// means the same line.
type Key struct {
	ProductID int64 `json:"product_id"`
	VariantID int64 `json:"variant_id"`
}

func NewKey(productID, variantID int64) Key {
	if variantID < 0 {
		variantID = DefaultVariant
	}
	return Key{ProductID: productID, VariantID: variantID}
}

// Product is the catalog data needed to add a line item.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Image string          `json:"image"`
	Price decimal.Decimal `json:"price"`
}

// Variant is a named product configuration with its own additional price.
type Variant struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
}

// Item is one cart line. UnitPrice is captured at add time as base price
// plus the variant's additional price. Name and Image are a display
// snapshot, not authoritative.
type Item struct {
	Key       Key             `json:"key"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
}

// LineTotal returns UnitPrice * Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
