package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/cartserv/internal/cart"
	"github.com/velora-shop/cartserv/internal/client"
	"github.com/velora-shop/cartserv/internal/pricing"
	"github.com/velora-shop/cartserv/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// stubUseCase returns canned responses and records the last request per
// operation.
type stubUseCase struct {
	cart   usecase.CartResponse
	totals pricing.Totals
	order  usecase.PlaceOrderResponse
	err    error

	lastAdd    usecase.AddItemRequest
	lastSet    usecase.SetQuantityRequest
	lastKey    cart.Key
	lastTotals usecase.CheckoutTotalsRequest
	lastOrder  usecase.PlaceOrderRequest

	incrementCalls int
	decrementCalls int
	syncErr        error
}

func (s *stubUseCase) Restore(ctx context.Context) error { return nil }

func (s *stubUseCase) GetCart(ctx context.Context) (usecase.CartResponse, error) {
	return s.cart, s.err
}

func (s *stubUseCase) AddItem(ctx context.Context, req usecase.AddItemRequest) (usecase.CartResponse, error) {
	s.lastAdd = req
	return s.cart, s.err
}

func (s *stubUseCase) SetQuantity(ctx context.Context, req usecase.SetQuantityRequest) (usecase.CartResponse, error) {
	s.lastSet = req
	return s.cart, s.err
}

func (s *stubUseCase) IncrementQuantity(ctx context.Context, key cart.Key) (usecase.CartResponse, error) {
	s.incrementCalls++
	s.lastKey = key
	return s.cart, s.err
}

func (s *stubUseCase) DecrementQuantity(ctx context.Context, key cart.Key) (usecase.CartResponse, error) {
	s.decrementCalls++
	s.lastKey = key
	return s.cart, s.err
}

func (s *stubUseCase) RemoveItem(ctx context.Context, key cart.Key) (usecase.CartResponse, error) {
	s.lastKey = key
	return s.cart, s.err
}

func (s *stubUseCase) Clear(ctx context.Context) (usecase.CartResponse, error) {
	return s.cart, s.err
}

func (s *stubUseCase) SyncAfterLogin(ctx context.Context) error { return s.syncErr }

func (s *stubUseCase) CheckoutTotals(ctx context.Context, req usecase.CheckoutTotalsRequest) (usecase.CheckoutTotalsResponse, error) {
	s.lastTotals = req
	return usecase.CheckoutTotalsResponse{Totals: s.totals}, s.err
}

func (s *stubUseCase) PlaceOrder(ctx context.Context, req usecase.PlaceOrderRequest) (usecase.PlaceOrderResponse, error) {
	s.lastOrder = req
	return s.order, s.err
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func oneLineCart() usecase.CartResponse {
	return usecase.CartResponse{
		Items: []cart.Item{
			{Key: cart.NewKey(1, 0), Quantity: 5, UnitPrice: dec("10"), Name: "Phone", Image: "phone.jpg"},
		},
		TotalQuantity: 5,
		TotalAmount:   dec("50"),
	}
}

func TestGetCartRendersRoundedAmounts(t *testing.T) {
	stub := &stubUseCase{cart: oneLineCart()}
	w := perform(NewHandler(stub).Router(), http.MethodGet, "/cart", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got cartPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "10.00", got.Items[0].UnitPrice)
	assert.Equal(t, "50.00", got.Items[0].LineTotal)
	assert.Equal(t, "50.00", got.TotalAmount)
	assert.Equal(t, int64(5), got.TotalQuantity)
}

func TestAddItemBindsPayload(t *testing.T) {
	stub := &stubUseCase{cart: oneLineCart()}
	body := `{"product_id":1,"name":"Phone","price":"10.00","quantity":2,"variant":{"id":3,"name":"256GB","additional_price":"5.50"}}`
	w := perform(NewHandler(stub).Router(), http.MethodPost, "/cart/items", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), stub.lastAdd.Product.ID)
	assert.Equal(t, int64(2), stub.lastAdd.Quantity)
	require.NotNil(t, stub.lastAdd.Variant)
	assert.Equal(t, int64(3), stub.lastAdd.Variant.ID)
	assert.True(t, stub.lastAdd.Variant.AdditionalPrice.Equal(dec("5.50")))
}

func TestAddItemRejectsMissingProductID(t *testing.T) {
	stub := &stubUseCase{}
	w := perform(NewHandler(stub).Router(), http.MethodPost, "/cart/items", `{"quantity":2}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var got ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "INVALID_INPUT", got.Error)
}

func TestSetQuantityMapsValidationError(t *testing.T) {
	stub := &stubUseCase{err: cart.NewValidationError("quantity must be at least 1, got 0")}
	body := `{"product_id":1,"quantity":7}`
	w := perform(NewHandler(stub).Router(), http.MethodPut, "/cart/items", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var got ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "VALIDATION_ERROR", got.Error)
}

func TestIncrementAndDecrementRoutes(t *testing.T) {
	stub := &stubUseCase{cart: oneLineCart()}
	router := NewHandler(stub).Router()

	w := perform(router, http.MethodPost, "/cart/items/increment", `{"product_id":1,"variant_id":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stub.incrementCalls)
	assert.Equal(t, cart.NewKey(1, 3), stub.lastKey)

	w = perform(router, http.MethodPost, "/cart/items/decrement", `{"product_id":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stub.decrementCalls)
	assert.Equal(t, cart.NewKey(1, 0), stub.lastKey)
}

func TestRemoveItemReadsQueryParams(t *testing.T) {
	stub := &stubUseCase{cart: oneLineCart()}
	router := NewHandler(stub).Router()

	w := perform(router, http.MethodDelete, "/cart/items?product_id=2&variant_id=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cart.NewKey(2, 3), stub.lastKey)

	w = perform(router, http.MethodDelete, "/cart/items?product_id=abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncFailureIsAnOKResponse(t *testing.T) {
	stub := &stubUseCase{syncErr: &usecase.SyncFailure{Err: errors.New("connection refused")}}
	w := perform(NewHandler(stub).Router(), http.MethodPost, "/cart/sync", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got syncPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.False(t, got.Synced)
	assert.NotEmpty(t, got.Message)
}

func TestSyncSuccess(t *testing.T) {
	stub := &stubUseCase{}
	w := perform(NewHandler(stub).Router(), http.MethodPost, "/cart/sync", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got syncPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Synced)
}

func TestCheckoutTotalsRendersBreakdown(t *testing.T) {
	stub := &stubUseCase{totals: pricing.Totals{
		Subtotal:        dec("100"),
		ShippingFee:     dec("10"),
		DiscountPercent: 15,
		DiscountAmount:  dec("15"),
		PointsUsed:      200,
		LoyaltyDiscount: dec("2"),
		Total:           dec("93"),
	}}
	body := `{"discount_code":"SAVE15","use_loyalty_points":true}`
	w := perform(NewHandler(stub).Router(), http.MethodPost, "/checkout/totals", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SAVE15", stub.lastTotals.DiscountCode)
	assert.True(t, stub.lastTotals.UseLoyaltyPoints)
	var got totalsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "93.00", got.Total)
	assert.Equal(t, int64(200), got.PointsUsed)
	assert.Equal(t, "2.00", got.LoyaltyDiscount)
}

func TestPlaceOrderCreated(t *testing.T) {
	stub := &stubUseCase{order: usecase.PlaceOrderResponse{OrderID: 9, Status: "confirmed", Total: dec("60")}}
	body := `{"name":"Ada","phone":"123","address":"Main St 1","city":"Oslo","postal_code":"0150","payment_method":"card"}`
	w := perform(NewHandler(stub).Router(), http.MethodPost, "/checkout/orders", body)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Oslo", stub.lastOrder.ShippingAddress.City)
	var got orderPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(9), got.OrderID)
	assert.Equal(t, "60.00", got.Total)
}

func TestPlaceOrderRejectsIncompleteAddress(t *testing.T) {
	stub := &stubUseCase{}
	w := perform(NewHandler(stub).Router(), http.MethodPost, "/checkout/orders", `{"name":"Ada"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"auth expired", client.ErrAuthExpired, http.StatusUnauthorized, "AUTH_EXPIRED"},
		{"cart api down", &client.NetworkError{Op: "get cart", Err: errors.New("refused")}, http.StatusBadGateway, "CART_API_UNAVAILABLE"},
		{"cart api rejected", &client.APIError{Op: "add cart item", Status: http.StatusNotFound, Message: "product not found"}, http.StatusNotFound, "CART_API_REJECTED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubUseCase{err: tc.err}
			w := perform(NewHandler(stub).Router(), http.MethodGet, "/cart", "")

			require.Equal(t, tc.status, w.Code)
			var got ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tc.code, got.Error)
		})
	}
}
