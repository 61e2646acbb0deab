package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/sqlx"
	"github.com/avito-tech/go-transaction-manager/trm"
	"github.com/jmoiron/sqlx"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotFound    = errors.New("cart item not found")
)

// CartRepository is the persistence layer of the Cart API stand-in. Cart
// identity accumulation and the guest-to-user merge both lean on the
// (cart_id, product_id, variant_id) unique key: inserting a line that
// already exists sums quantities instead of duplicating it.
type CartRepository struct {
	db        *sqlx.DB
	getter    *trmsqlx.CtxGetter
	trManager trm.Manager
}

func NewCartRepository(db *sqlx.DB, trManager trm.Manager) *CartRepository {
	return &CartRepository{
		db:        db,
		getter:    trmsqlx.DefaultCtxGetter,
		trManager: trManager,
	}
}

func (r *CartRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func (r *CartRepository) conn(ctx context.Context) trmsqlx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

func (r *CartRepository) GetOrCreateCart(ctx context.Context, req GetOrCreateCartRequest) (resp GetOrCreateCartResponse, err error) {
	if _, err = r.conn(ctx).ExecContext(ctx, CreateCartIfNotExistsInsertSQL, req.OwnerKind, req.OwnerID); err != nil {
		return resp, fmt.Errorf("failed to create or check cart: %w", err)
	}

	err = r.conn(ctx).GetContext(ctx, &resp.CartID, CreateCartIfNotExistsSelectSQL, req.OwnerKind, req.OwnerID)
	if err != nil {
		return resp, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	return resp, nil
}

func (r *CartRepository) FindCart(ctx context.Context, req GetOrCreateCartRequest) (int64, bool, error) {
	var id int64
	err := r.conn(ctx).GetContext(ctx, &id, FindCartSQL, req.OwnerKind, req.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find cart: %w", err)
	}
	return id, true, nil
}

func (r *CartRepository) GetCart(ctx context.Context, cartID int64) (resp GetCartResponse, err error) {
	resp.CartID = cartID
	resp.Items = []CartItem{}

	if err := r.conn(ctx).SelectContext(ctx, &resp.Items, GetCartItemsSQL, cartID); err != nil {
		return resp, fmt.Errorf("failed to query cart items: %w", err)
	}

	return resp, nil
}

func (r *CartRepository) AddItem(ctx context.Context, req AddItemRequest) error {
	return r.trManager.Do(ctx, func(ctx context.Context) error {
		res, err := r.conn(ctx).ExecContext(ctx, AddItemToCartSQL, req.CartID, req.ProductID, req.VariantID, req.Quantity)
		if err != nil {
			return fmt.Errorf("failed to add item to cart: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to add item to cart: %w", err)
		}
		if affected == 0 {
			return ErrProductNotFound
		}

		return r.saveEvent(ctx, "cart.item_added", map[string]any{
			"cart_id":    req.CartID,
			"product_id": req.ProductID,
			"variant_id": req.VariantID,
			"quantity":   req.Quantity,
		})
	})
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, req UpdateItemQuantityRequest) error {
	res, err := r.conn(ctx).ExecContext(ctx, UpdateItemQuantitySQL, req.ItemID, req.CartID, req.Quantity)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// RemoveItem deletes a line; removing an absent line is not an error.
func (r *CartRepository) RemoveItem(ctx context.Context, req RemoveItemRequest) error {
	if _, err := r.conn(ctx).ExecContext(ctx, RemoveItemSQL, req.ItemID, req.CartID); err != nil {
		return fmt.Errorf("failed to remove item from cart: %w", err)
	}
	return nil
}

func (r *CartRepository) ClearCart(ctx context.Context, cartID int64) error {
	if _, err := r.conn(ctx).ExecContext(ctx, ClearCartSQL, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// AssociateGuestCart merges the guest session's cart into the user's
// persistent cart, summing quantities per (product, variant). The whole
// merge runs in one transaction and is idempotent: once the guest cart is
// consumed, a repeated call finds nothing to merge and simply returns the
// user's cart.
func (r *CartRepository) AssociateGuestCart(ctx context.Context, req AssociateGuestCartRequest) (resp GetOrCreateCartResponse, err error) {
	err = r.trManager.Do(ctx, func(ctx context.Context) error {
		userCart, err := r.GetOrCreateCart(ctx, GetOrCreateCartRequest{OwnerKind: OwnerUser, OwnerID: req.UserID})
		if err != nil {
			return err
		}
		resp = userCart

		guestCartID, found, err := r.FindCart(ctx, GetOrCreateCartRequest{OwnerKind: OwnerGuest, OwnerID: req.GuestSession})
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		if _, err := r.conn(ctx).ExecContext(ctx, MergeCartItemsSQL, guestCartID, userCart.CartID); err != nil {
			return fmt.Errorf("failed to merge guest cart: %w", err)
		}
		if _, err := r.conn(ctx).ExecContext(ctx, DeleteCartSQL, guestCartID); err != nil {
			return fmt.Errorf("failed to drop guest cart: %w", err)
		}

		return r.saveEvent(ctx, "cart.associated", map[string]any{
			"guest_session": req.GuestSession,
			"user_id":       req.UserID,
			"cart_id":       userCart.CartID,
		})
	})
	if err != nil {
		return GetOrCreateCartResponse{}, err
	}
	return resp, nil
}

func (r *CartRepository) VerifyDiscountCode(ctx context.Context, code string) (int64, bool, error) {
	var percent int64
	err := r.conn(ctx).GetContext(ctx, &percent, VerifyDiscountCodeSQL, code)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to verify discount code: %w", err)
	}
	return percent, true, nil
}

// CreateOrder stores the order and its lines, clears the owner's cart and
// records the checkout event, all in one transaction. Payment processing
// belongs to another system; the order starts out pending.
func (r *CartRepository) CreateOrder(ctx context.Context, req CreateOrderRequest) (resp CreateOrderResponse, err error) {
	err = r.trManager.Do(ctx, func(ctx context.Context) error {
		row := r.conn(ctx).QueryRowxContext(ctx, InsertOrderSQL,
			req.OwnerKind, req.OwnerID, req.Name, req.Email, req.Phone,
			req.Address, req.City, req.PostalCode, req.Country,
			req.PaymentMethod, req.DiscountCode, req.PointsUsed, req.Total,
		)
		if err := row.Scan(&resp.OrderID, &resp.Status); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, line := range req.Items {
			if _, err := r.conn(ctx).ExecContext(ctx, InsertOrderItemSQL,
				resp.OrderID, line.ProductID, line.VariantID, line.Quantity, line.Price); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		cartID, found, err := r.FindCart(ctx, GetOrCreateCartRequest{OwnerKind: req.OwnerKind, OwnerID: req.OwnerID})
		if err != nil {
			return err
		}
		if found {
			if err := r.ClearCart(ctx, cartID); err != nil {
				return err
			}
		}

		return r.saveEvent(ctx, "checkout.completed", map[string]any{
			"order_id":    resp.OrderID,
			"owner_kind":  req.OwnerKind,
			"owner_id":    req.OwnerID,
			"total":       req.Total,
			"points_used": req.PointsUsed,
		})
	})
	if err != nil {
		return CreateOrderResponse{}, err
	}
	return resp, nil
}

func (r *CartRepository) GetNextEvent(ctx context.Context) (Event, error) {
	var event Event
	err := r.conn(ctx).GetContext(ctx, &event, GetNextEventSQL)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, nil
	}
	if err != nil {
		return Event{}, fmt.Errorf("failed to get next event: %w", err)
	}
	return event, nil
}

func (r *CartRepository) SetEventDone(ctx context.Context, id int64) error {
	if _, err := r.conn(ctx).ExecContext(ctx, SetEventDoneSQL, id); err != nil {
		return fmt.Errorf("failed to set event done: %w", err)
	}
	return nil
}

func (r *CartRepository) saveEvent(ctx context.Context, key string, payload map[string]any) error {
	message, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := r.conn(ctx).ExecContext(ctx, InsertEventSQL, key, string(message)); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}
