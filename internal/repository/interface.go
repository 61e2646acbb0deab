package repository

import "context"

type Interface interface {
	EnsureSchema(ctx context.Context) error
	GetOrCreateCart(ctx context.Context, req GetOrCreateCartRequest) (GetOrCreateCartResponse, error)
	FindCart(ctx context.Context, req GetOrCreateCartRequest) (int64, bool, error)
	GetCart(ctx context.Context, cartID int64) (GetCartResponse, error)
	AddItem(ctx context.Context, req AddItemRequest) error
	UpdateItemQuantity(ctx context.Context, req UpdateItemQuantityRequest) error
	RemoveItem(ctx context.Context, req RemoveItemRequest) error
	ClearCart(ctx context.Context, cartID int64) error
	AssociateGuestCart(ctx context.Context, req AssociateGuestCartRequest) (GetOrCreateCartResponse, error)
	VerifyDiscountCode(ctx context.Context, code string) (int64, bool, error)
	CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResponse, error)
}

// EventSource is the outbox view the Kafka sender polls.
type EventSource interface {
	GetNextEvent(ctx context.Context) (Event, error)
	SetEventDone(ctx context.Context, id int64) error
}
