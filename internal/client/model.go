package client

import "github.com/shopspring/decimal"

// Cart is the server cart representation. Item ids are server-side row
// ids, needed for the update and remove endpoints.
type Cart struct {
	ID            int64           `json:"id"`
	Items         []CartItem      `json:"items"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

type CartItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	VariantID int64           `json:"variant_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	VariantID int64 `json:"variant_id,omitempty"`
	Quantity  int64 `json:"quantity"`
}

type OrderLine struct {
	ProductID int64           `json:"product_id"`
	VariantID int64           `json:"variant_id,omitempty"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type ShippingAddress struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type PlaceOrderRequest struct {
	Items           []OrderLine     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	DiscountCode    string          `json:"discount_code,omitempty"`
	PointsUsed      int64           `json:"points_used"`
	Total           decimal.Decimal `json:"total"`
}

type Order struct {
	ID     int64           `json:"id"`
	Status string          `json:"status"`
	Total  decimal.Decimal `json:"total"`
}
