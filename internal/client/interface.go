package client

import "context"

// Interface is the Cart API collaborator. Every cart-mutating call returns
// the authoritative server cart; callers replace local state with it
// wholesale instead of keeping parallel bookkeeping.
type Interface interface {
	GetCart(ctx context.Context) (Cart, error)
	AddItem(ctx context.Context, req AddItemRequest) (Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID, quantity int64) (Cart, error)
	RemoveItem(ctx context.Context, itemID int64) (Cart, error)
	ClearCart(ctx context.Context) (Cart, error)
	AssociateGuestCart(ctx context.Context) (Cart, error)
	VerifyDiscountCode(ctx context.Context, code string) (int64, error)
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (Order, error)
}

// Credentials supplies the identity headers for each call: the bearer
// token when a user is logged in and the stable guest session id otherwise.
type Credentials interface {
	Token() string
	GuestSession() string
}
