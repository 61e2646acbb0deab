package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/cartserv/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeRepo serves canned rows and records the requests the handlers build.
type fakeRepo struct {
	items           []repository.CartItem
	discountPercent int64
	discountFound   bool

	err error

	lastOwner     repository.GetOrCreateCartRequest
	lastAdd       repository.AddItemRequest
	lastUpdate    repository.UpdateItemQuantityRequest
	lastRemove    repository.RemoveItemRequest
	lastAssociate repository.AssociateGuestCartRequest
	lastOrder     repository.CreateOrderRequest
	clearedCartID int64
}

func (f *fakeRepo) EnsureSchema(ctx context.Context) error { return nil }

func (f *fakeRepo) GetOrCreateCart(ctx context.Context, req repository.GetOrCreateCartRequest) (repository.GetOrCreateCartResponse, error) {
	f.lastOwner = req
	return repository.GetOrCreateCartResponse{CartID: 4}, f.err
}

func (f *fakeRepo) FindCart(ctx context.Context, req repository.GetOrCreateCartRequest) (int64, bool, error) {
	return 4, true, nil
}

func (f *fakeRepo) GetCart(ctx context.Context, cartID int64) (repository.GetCartResponse, error) {
	return repository.GetCartResponse{CartID: cartID, Items: f.items}, f.err
}

func (f *fakeRepo) AddItem(ctx context.Context, req repository.AddItemRequest) error {
	f.lastAdd = req
	return f.err
}

func (f *fakeRepo) UpdateItemQuantity(ctx context.Context, req repository.UpdateItemQuantityRequest) error {
	f.lastUpdate = req
	return f.err
}

func (f *fakeRepo) RemoveItem(ctx context.Context, req repository.RemoveItemRequest) error {
	f.lastRemove = req
	return f.err
}

func (f *fakeRepo) ClearCart(ctx context.Context, cartID int64) error {
	f.clearedCartID = cartID
	return f.err
}

func (f *fakeRepo) AssociateGuestCart(ctx context.Context, req repository.AssociateGuestCartRequest) (repository.GetOrCreateCartResponse, error) {
	f.lastAssociate = req
	return repository.GetOrCreateCartResponse{CartID: 4}, f.err
}

func (f *fakeRepo) VerifyDiscountCode(ctx context.Context, code string) (int64, bool, error) {
	return f.discountPercent, f.discountFound, f.err
}

func (f *fakeRepo) CreateOrder(ctx context.Context, req repository.CreateOrderRequest) (repository.CreateOrderResponse, error) {
	f.lastOrder = req
	return repository.CreateOrderResponse{OrderID: 9, Status: "confirmed"}, f.err
}

func perform(router *gin.Engine, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func twoRows() []repository.CartItem {
	return []repository.CartItem{
		{ID: 11, ProductID: 1, Quantity: 5, Price: dec("10.00"), ProductName: "Phone", Image: "phone.jpg"},
		{ID: 12, ProductID: 2, VariantID: 3, Quantity: 1, Price: dec("25.00"), ProductName: "Watch", VariantName: "Steel"},
	}
}

func TestGetCartComputesTotalsAndVariantNames(t *testing.T) {
	repo := &fakeRepo{items: twoRows()}
	w := perform(NewServer(repo).Router(), http.MethodGet, "/cart", "", map[string]string{"X-Guest-Session": "guest-1"})

	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Cart cartPayload `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, int64(4), env.Cart.ID)
	require.Len(t, env.Cart.Items, 2)
	assert.Equal(t, "Phone", env.Cart.Items[0].Name)
	assert.Equal(t, "Watch (Steel)", env.Cart.Items[1].Name)
	assert.Equal(t, int64(6), env.Cart.TotalQuantity)
	assert.True(t, env.Cart.TotalAmount.Equal(dec("75.00")))
	assert.Equal(t, repository.GetOrCreateCartRequest{OwnerKind: repository.OwnerGuest, OwnerID: "guest-1"}, repo.lastOwner)
}

func TestGetCartMintsGuestSessionCookie(t *testing.T) {
	repo := &fakeRepo{}
	w := perform(NewServer(repo).Router(), http.MethodGet, "/cart", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var cookie string
	for _, c := range w.Result().Cookies() {
		if c.Name == guestCookie {
			cookie = c.Value
		}
	}
	assert.NotEmpty(t, cookie)
	assert.Equal(t, cookie, repo.lastOwner.OwnerID)
}

func TestBearerTokenResolvesUserOwner(t *testing.T) {
	repo := &fakeRepo{}
	w := perform(NewServer(repo).Router(), http.MethodGet, "/cart", "", map[string]string{
		"Authorization":   "Bearer user-7",
		"X-Guest-Session": "guest-1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, repository.GetOrCreateCartRequest{OwnerKind: repository.OwnerUser, OwnerID: "7"}, repo.lastOwner)
}

func TestMalformedBearerTokenIsRejected(t *testing.T) {
	repo := &fakeRepo{}
	w := perform(NewServer(repo).Router(), http.MethodGet, "/cart", "", map[string]string{
		"Authorization": "Bearer whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddItemDefaultsQuantity(t *testing.T) {
	repo := &fakeRepo{items: twoRows()}
	w := perform(NewServer(repo).Router(), http.MethodPost, "/cart/items", `{"product_id":1}`, map[string]string{"X-Guest-Session": "guest-1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, repository.AddItemRequest{CartID: 4, ProductID: 1, Quantity: 1}, repo.lastAdd)
}

func TestAddItemUnknownProduct(t *testing.T) {
	repo := &fakeRepo{err: repository.ErrProductNotFound}
	w := perform(NewServer(repo).Router(), http.MethodPost, "/cart/items", `{"product_id":99}`, map[string]string{"X-Guest-Session": "guest-1"})

	require.Equal(t, http.StatusNotFound, w.Code)
	var got errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "PRODUCT_NOT_FOUND", got.Error)
}

func TestUpdateItemQuantityRejectsBelowOne(t *testing.T) {
	repo := &fakeRepo{}
	w := perform(NewServer(repo).Router(), http.MethodPut, "/cart/items/11", `{"quantity":0}`, map[string]string{"X-Guest-Session": "guest-1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveItemTargetsRow(t *testing.T) {
	repo := &fakeRepo{items: twoRows()}
	w := perform(NewServer(repo).Router(), http.MethodDelete, "/cart/items/12", "", map[string]string{"X-Guest-Session": "guest-1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, repository.RemoveItemRequest{CartID: 4, ItemID: 12}, repo.lastRemove)
}

func TestAssociateRequiresAuth(t *testing.T) {
	repo := &fakeRepo{}
	router := NewServer(repo).Router()

	w := perform(router, http.MethodPost, "/cart/associate", "", map[string]string{"X-Guest-Session": "guest-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(router, http.MethodPost, "/cart/associate", "", map[string]string{
		"Authorization":   "Bearer user-7",
		"X-Guest-Session": "guest-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, repository.AssociateGuestCartRequest{GuestSession: "guest-1", UserID: "7"}, repo.lastAssociate)
}

func TestVerifyDiscountCode(t *testing.T) {
	repo := &fakeRepo{discountPercent: 15, discountFound: true}
	router := NewServer(repo).Router()

	w := perform(router, http.MethodPost, "/discounts/verify", `{"code":"SAVE15"}`, map[string]string{"X-Guest-Session": "guest-1"})
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		DiscountPercent int64 `json:"discount_percent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(15), got.DiscountPercent)

	repo.discountFound = false
	w = perform(router, http.MethodPost, "/discounts/verify", `{"code":"NOPE"}`, map[string]string{"X-Guest-Session": "guest-1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaceOrder(t *testing.T) {
	repo := &fakeRepo{}
	body := `{
		"items":[{"product_id":1,"quantity":5,"price":"10.00"}],
		"shipping_address":{"name":"Ada","city":"Oslo"},
		"payment_method":"card",
		"points_used":200,
		"total":"60.00"
	}`
	w := perform(NewServer(repo).Router(), http.MethodPost, "/orders", body, map[string]string{
		"Authorization":   "Bearer user-7",
		"X-Guest-Session": "guest-1",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, repository.OwnerUser, repo.lastOrder.OwnerKind)
	assert.Equal(t, "7", repo.lastOrder.OwnerID)
	require.Len(t, repo.lastOrder.Items, 1)
	assert.Equal(t, int64(200), repo.lastOrder.PointsUsed)
	assert.True(t, repo.lastOrder.Total.Equal(dec("60.00")))
	var env struct {
		Order struct {
			ID     int64           `json:"id"`
			Status string          `json:"status"`
			Total  decimal.Decimal `json:"total"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, int64(9), env.Order.ID)
	assert.Equal(t, "confirmed", env.Order.Status)
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	repo := &fakeRepo{}
	w := perform(NewServer(repo).Router(), http.MethodPost, "/orders", `{"items":[]}`, map[string]string{"X-Guest-Session": "guest-1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
