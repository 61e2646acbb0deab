package repository

import "github.com/shopspring/decimal"

const (
	OwnerGuest = "guest"
	OwnerUser  = "user"
)

type GetOrCreateCartRequest struct {
	OwnerKind string `db:"owner_kind"`
	OwnerID   string `db:"owner_id"`
}

type GetOrCreateCartResponse struct {
	CartID int64 `db:"id"`
}

type CartItem struct {
	ID          int64           `json:"id" db:"id"`
	ProductID   int64           `json:"product_id" db:"product_id"`
	VariantID   int64           `json:"variant_id" db:"variant_id"`
	Quantity    int64           `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ProductName string          `json:"name" db:"product_name"`
	VariantName string          `json:"variant_name" db:"variant_name"`
	Image       string          `json:"image" db:"image"`
}

type GetCartResponse struct {
	CartID int64
	Items  []CartItem
}

type AddItemRequest struct {
	CartID    int64 `db:"cart_id"`
	ProductID int64 `db:"product_id"`
	VariantID int64 `db:"variant_id"`
	Quantity  int64 `db:"quantity"`
}

type UpdateItemQuantityRequest struct {
	CartID   int64 `db:"cart_id"`
	ItemID   int64 `db:"id"`
	Quantity int64 `db:"quantity"`
}

type RemoveItemRequest struct {
	CartID int64 `db:"cart_id"`
	ItemID int64 `db:"id"`
}

type AssociateGuestCartRequest struct {
	GuestSession string
	UserID       string
}

type OrderLine struct {
	ProductID int64           `db:"product_id"`
	VariantID int64           `db:"variant_id"`
	Quantity  int64           `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}

type CreateOrderRequest struct {
	OwnerKind     string
	OwnerID       string
	Items         []OrderLine
	Name          string
	Email         string
	Phone         string
	Address       string
	City          string
	PostalCode    string
	Country       string
	PaymentMethod string
	DiscountCode  string
	PointsUsed    int64
	Total         decimal.Decimal
}

type CreateOrderResponse struct {
	OrderID int64
	Status  string
}

// Event is one outbox row waiting to be published to Kafka.
type Event struct {
	ID      int64  `db:"id"`
	Key     string `db:"key"`
	Message string `db:"message"`
}
