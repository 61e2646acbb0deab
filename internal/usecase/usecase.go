package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/velora-shop/cartserv/internal/auth"
	"github.com/velora-shop/cartserv/internal/cart"
	"github.com/velora-shop/cartserv/internal/client"
	"github.com/velora-shop/cartserv/internal/pricing"
	"github.com/velora-shop/cartserv/internal/store"
)

type syncState int

const (
	syncAnonymous syncState = iota
	syncInProgress
	syncDone
)

// CartUseCase is the state container that owns the cart engine. All cart
// mutations flow through it: guest sessions mutate the local engine and
// snapshot to the guest store, authenticated sessions call the Cart API
// and replace local state with the server response wholesale.
type CartUseCase struct {
	engine *cart.Cart
	store  store.Interface
	client client.Interface
	auth   auth.Interface

	shippingFee   decimal.Decimal
	serverItemIDs map[cart.Key]int64
	sync          syncState
}

func New(a auth.Interface, c client.Interface, s store.Interface, shippingFee decimal.Decimal) *CartUseCase {
	return &CartUseCase{
		engine:        cart.New(),
		store:         s,
		client:        c,
		auth:          a,
		shippingFee:   shippingFee,
		serverItemIDs: make(map[cart.Key]int64),
	}
}

// Restore loads the guest cart snapshot saved by a previous visit. Called
// once at startup for anonymous sessions.
func (u *CartUseCase) Restore(ctx context.Context) error {
	if u.auth.IsLoggedIn() {
		return nil
	}
	items, err := u.store.Load(ctx, u.auth.GuestSession())
	if err != nil {
		return fmt.Errorf("failed to restore guest cart: %w", err)
	}
	if items != nil {
		u.engine.Replace(items)
	}
	return nil
}

func (u *CartUseCase) GetCart(ctx context.Context) (CartResponse, error) {
	if u.auth.IsLoggedIn() {
		serverCart, err := u.client.GetCart(ctx)
		if err != nil {
			return CartResponse{}, fmt.Errorf("failed to fetch cart: %w", err)
		}
		u.replaceFromServer(serverCart)
	}
	return u.cartResponse(), nil
}

func (u *CartUseCase) AddItem(ctx context.Context, req AddItemRequest) (CartResponse, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	if u.auth.IsLoggedIn() {
		variantID := cart.DefaultVariant
		if req.Variant != nil {
			variantID = req.Variant.ID
		}
		serverCart, err := u.client.AddItem(ctx, client.AddItemRequest{
			ProductID: req.Product.ID,
			VariantID: variantID,
			Quantity:  quantity,
		})
		if err != nil {
			return CartResponse{}, fmt.Errorf("failed to add to cart: %w", err)
		}
		u.replaceFromServer(serverCart)
		return u.cartResponse(), nil
	}

	if err := u.engine.AddItem(req.Product, req.Variant, quantity); err != nil {
		return CartResponse{}, err
	}
	u.saveSnapshot(ctx)
	return u.cartResponse(), nil
}

func (u *CartUseCase) SetQuantity(ctx context.Context, req SetQuantityRequest) (CartResponse, error) {
	if req.Quantity < 1 {
		return CartResponse{}, cart.NewValidationError("quantity must be at least 1, got %d", req.Quantity)
	}

	if u.auth.IsLoggedIn() {
		itemID, ok, err := u.serverItemID(ctx, req.Key)
		if err != nil {
			return CartResponse{}, err
		}
		if !ok {
			return CartResponse{}, cart.NewValidationError("no cart line for product %d variant %d", req.Key.ProductID, req.Key.VariantID)
		}
		serverCart, err := u.client.UpdateItemQuantity(ctx, itemID, req.Quantity)
		if err != nil {
			return CartResponse{}, fmt.Errorf("failed to update quantity: %w", err)
		}
		u.replaceFromServer(serverCart)
		return u.cartResponse(), nil
	}

	if err := u.engine.SetQuantity(req.Key, req.Quantity); err != nil {
		return CartResponse{}, err
	}
	u.saveSnapshot(ctx)
	return u.cartResponse(), nil
}

func (u *CartUseCase) IncrementQuantity(ctx context.Context, key cart.Key) (CartResponse, error) {
	current, ok := u.lineQuantity(key)
	if !ok {
		return u.cartResponse(), nil
	}
	return u.SetQuantity(ctx, SetQuantityRequest{Key: key, Quantity: current + 1})
}

// DecrementQuantity floors at one: deleting a line takes an explicit
// RemoveItem call.
func (u *CartUseCase) DecrementQuantity(ctx context.Context, key cart.Key) (CartResponse, error) {
	current, ok := u.lineQuantity(key)
	if !ok || current <= 1 {
		return u.cartResponse(), nil
	}
	return u.SetQuantity(ctx, SetQuantityRequest{Key: key, Quantity: current - 1})
}

func (u *CartUseCase) RemoveItem(ctx context.Context, key cart.Key) (CartResponse, error) {
	if u.auth.IsLoggedIn() {
		itemID, ok, err := u.serverItemID(ctx, key)
		if err != nil {
			return CartResponse{}, err
		}
		if !ok {
			return u.cartResponse(), nil
		}
		serverCart, err := u.client.RemoveItem(ctx, itemID)
		if err != nil {
			return CartResponse{}, fmt.Errorf("failed to remove item: %w", err)
		}
		u.replaceFromServer(serverCart)
		return u.cartResponse(), nil
	}

	u.engine.RemoveItem(key)
	u.saveSnapshot(ctx)
	return u.cartResponse(), nil
}

func (u *CartUseCase) Clear(ctx context.Context) (CartResponse, error) {
	if u.auth.IsLoggedIn() {
		serverCart, err := u.client.ClearCart(ctx)
		if err != nil {
			return CartResponse{}, fmt.Errorf("failed to clear cart: %w", err)
		}
		u.replaceFromServer(serverCart)
		return u.cartResponse(), nil
	}

	u.engine.Clear()
	if err := u.store.Delete(ctx, u.auth.GuestSession()); err != nil {
		log.Printf("failed to drop guest cart snapshot: %v", err)
	}
	return u.cartResponse(), nil
}

// SyncAfterLogin runs the guest-to-user cart association once per login
// event. The merge policy lives server-side; locally the authoritative
// cart always replaces state wholesale, so a duplicate invocation cannot
// double-merge. Failure keeps the local cart intact and must not fail the
// login flow.
func (u *CartUseCase) SyncAfterLogin(ctx context.Context) error {
	if u.sync != syncAnonymous {
		return nil
	}
	u.sync = syncInProgress

	if _, err := u.client.AssociateGuestCart(ctx); err != nil {
		u.sync = syncAnonymous
		log.Printf("cart sync failed, keeping local cart: %v", err)
		return &SyncFailure{Err: err}
	}

	serverCart, err := u.client.GetCart(ctx)
	if err != nil {
		u.sync = syncAnonymous
		log.Printf("cart sync failed, keeping local cart: %v", err)
		return &SyncFailure{Err: err}
	}

	u.replaceFromServer(serverCart)
	if err := u.store.Delete(ctx, u.auth.GuestSession()); err != nil {
		log.Printf("failed to drop guest cart snapshot after sync: %v", err)
	}
	u.sync = syncDone
	return nil
}

// Logout tears the container down for the next anonymous session. The
// server cart stays persisted for the user's next login.
func (u *CartUseCase) Logout() {
	u.engine.Clear()
	u.serverItemIDs = make(map[cart.Key]int64)
	u.sync = syncAnonymous
}

func (u *CartUseCase) CheckoutTotals(ctx context.Context, req CheckoutTotalsRequest) (CheckoutTotalsResponse, error) {
	totals, err := u.computeTotals(ctx, req.DiscountCode, req.UseLoyaltyPoints)
	if err != nil {
		return CheckoutTotalsResponse{}, err
	}
	return CheckoutTotalsResponse{Totals: totals}, nil
}

func (u *CartUseCase) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (PlaceOrderResponse, error) {
	if len(u.engine.Items) == 0 {
		return PlaceOrderResponse{}, cart.NewValidationError("cart is empty")
	}

	totals, err := u.computeTotals(ctx, req.DiscountCode, req.UseLoyaltyPoints)
	if err != nil {
		return PlaceOrderResponse{}, err
	}

	lines := make([]client.OrderLine, 0, len(u.engine.Items))
	for _, it := range u.engine.Items {
		lines = append(lines, client.OrderLine{
			ProductID: it.Key.ProductID,
			VariantID: it.Key.VariantID,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		})
	}

	order, err := u.client.PlaceOrder(ctx, client.PlaceOrderRequest{
		Items:           lines,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		DiscountCode:    req.DiscountCode,
		PointsUsed:      totals.PointsUsed,
		Total:           totals.Total,
	})
	if err != nil {
		return PlaceOrderResponse{}, fmt.Errorf("failed to place order: %w", err)
	}

	u.engine.Clear()
	u.serverItemIDs = make(map[cart.Key]int64)
	if !u.auth.IsLoggedIn() {
		if err := u.store.Delete(ctx, u.auth.GuestSession()); err != nil {
			log.Printf("failed to drop guest cart snapshot after order: %v", err)
		}
	}

	return PlaceOrderResponse{OrderID: order.ID, Status: order.Status, Total: order.Total}, nil
}

func (u *CartUseCase) computeTotals(ctx context.Context, discountCode string, useLoyaltyPoints bool) (pricing.Totals, error) {
	// Canonical subtotal is the engine's derived total, the sum of line
	// totals. Nothing downstream re-derives it another way.
	subtotal := u.engine.TotalAmount

	var discountPercent int64
	if discountCode != "" {
		percent, err := u.client.VerifyDiscountCode(ctx, discountCode)
		if err != nil {
			return pricing.Totals{}, fmt.Errorf("failed to verify discount code: %w", err)
		}
		discountPercent = percent
	}

	var points int64
	if user := u.auth.CurrentUser(); user != nil {
		points = user.LoyaltyPoints
	}

	return pricing.ComputeTotals(subtotal, u.shippingFee, discountPercent, points, useLoyaltyPoints)
}

func (u *CartUseCase) cartResponse() CartResponse {
	return CartResponse{
		Items:         u.engine.Snapshot(),
		TotalQuantity: u.engine.TotalQuantity,
		TotalAmount:   u.engine.TotalAmount,
	}
}

func (u *CartUseCase) lineQuantity(key cart.Key) (int64, bool) {
	for _, it := range u.engine.Items {
		if it.Key == key {
			return it.Quantity, true
		}
	}
	return 0, false
}

// replaceFromServer makes the server cart the whole local truth. Totals
// are re-derived by the engine; item ids are remembered for the update and
// remove endpoints, which address server-side lines.
func (u *CartUseCase) replaceFromServer(serverCart client.Cart) {
	items := make([]cart.Item, 0, len(serverCart.Items))
	ids := make(map[cart.Key]int64, len(serverCart.Items))
	for _, it := range serverCart.Items {
		key := cart.NewKey(it.ProductID, it.VariantID)
		items = append(items, cart.Item{
			Key:       key,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			Name:      it.Name,
			Image:     it.Image,
		})
		ids[key] = it.ID
	}
	u.engine.Replace(items)
	u.serverItemIDs = ids
}

func (u *CartUseCase) serverItemID(ctx context.Context, key cart.Key) (int64, bool, error) {
	if id, ok := u.serverItemIDs[key]; ok {
		return id, true, nil
	}
	serverCart, err := u.client.GetCart(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch cart: %w", err)
	}
	u.replaceFromServer(serverCart)
	id, ok := u.serverItemIDs[key]
	return id, ok, nil
}

func (u *CartUseCase) saveSnapshot(ctx context.Context) {
	if err := u.store.Save(ctx, u.auth.GuestSession(), u.engine.Snapshot()); err != nil {
		log.Printf("failed to save guest cart snapshot: %v", err)
	}
}
