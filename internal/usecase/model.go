package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/velora-shop/cartserv/internal/cart"
	"github.com/velora-shop/cartserv/internal/client"
	"github.com/velora-shop/cartserv/internal/pricing"
)

type AddItemRequest struct {
	Product  cart.Product
	Variant  *cart.Variant
	Quantity int64
}

type SetQuantityRequest struct {
	Key      cart.Key
	Quantity int64
}

type CartResponse struct {
	Items         []cart.Item
	TotalQuantity int64
	TotalAmount   decimal.Decimal
}

type CheckoutTotalsRequest struct {
	DiscountCode     string
	UseLoyaltyPoints bool
}

type CheckoutTotalsResponse struct {
	Totals pricing.Totals
}

type PlaceOrderRequest struct {
	ShippingAddress  client.ShippingAddress
	PaymentMethod    string
	DiscountCode     string
	UseLoyaltyPoints bool
}

type PlaceOrderResponse struct {
	OrderID int64
	Status  string
	Total   decimal.Decimal
}
