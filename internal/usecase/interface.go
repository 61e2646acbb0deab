package usecase

import (
	"context"

	"github.com/velora-shop/cartserv/internal/cart"
)

type Interface interface {
	Restore(ctx context.Context) error
	GetCart(ctx context.Context) (CartResponse, error)
	AddItem(ctx context.Context, req AddItemRequest) (CartResponse, error)
	SetQuantity(ctx context.Context, req SetQuantityRequest) (CartResponse, error)
	IncrementQuantity(ctx context.Context, key cart.Key) (CartResponse, error)
	DecrementQuantity(ctx context.Context, key cart.Key) (CartResponse, error)
	RemoveItem(ctx context.Context, key cart.Key) (CartResponse, error)
	Clear(ctx context.Context) (CartResponse, error)
	SyncAfterLogin(ctx context.Context) error
	CheckoutTotals(ctx context.Context, req CheckoutTotalsRequest) (CheckoutTotalsResponse, error)
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (PlaceOrderResponse, error)
}
