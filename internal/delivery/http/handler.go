package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/velora-shop/cartserv/internal/cart"
	"github.com/velora-shop/cartserv/internal/client"
	"github.com/velora-shop/cartserv/internal/usecase"
)

// Handler is the REST surface presentational callers consume. It is thin
// glue: validation of the wire payloads, then a straight mapping onto the
// usecase operations.
type Handler struct {
	useCase usecase.Interface
}

func NewHandler(u usecase.Interface) *Handler {
	return &Handler{useCase: u}
}

func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddItem)
	r.PUT("/cart/items", h.SetQuantity)
	r.POST("/cart/items/increment", h.IncrementQuantity)
	r.POST("/cart/items/decrement", h.DecrementQuantity)
	r.DELETE("/cart/items", h.RemoveItem)
	r.DELETE("/cart", h.ClearCart)
	r.POST("/cart/sync", h.SyncAfterLogin)
	r.POST("/checkout/totals", h.CheckoutTotals)
	r.POST("/checkout/orders", h.PlaceOrder)

	return r
}

func (h *Handler) GetCart(c *gin.Context) {
	resp, err := h.useCase.GetCart(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartPayload(resp))
}

func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.useCase.AddItem(c.Request.Context(), req.toUsecase())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartPayload(resp))
}

func (h *Handler) SetQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.useCase.SetQuantity(c.Request.Context(), usecase.SetQuantityRequest{
		Key:      cart.NewKey(req.ProductID, req.VariantID),
		Quantity: req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartPayload(resp))
}

func (h *Handler) IncrementQuantity(c *gin.Context) {
	h.adjustQuantity(c, h.useCase.IncrementQuantity)
}

func (h *Handler) DecrementQuantity(c *gin.Context) {
	h.adjustQuantity(c, h.useCase.DecrementQuantity)
}

func (h *Handler) adjustQuantity(c *gin.Context, op func(ctx context.Context, key cart.Key) (usecase.CartResponse, error)) {
	var req lineKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := op(c.Request.Context(), cart.NewKey(req.ProductID, req.VariantID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartPayload(resp))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
	if err != nil || productID < 1 {
		writeBadRequest(c, "invalid product_id")
		return
	}
	var variantID int64
	if raw := c.Query("variant_id"); raw != "" {
		variantID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeBadRequest(c, "invalid variant_id")
			return
		}
	}

	resp, err := h.useCase.RemoveItem(c.Request.Context(), cart.NewKey(productID, variantID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartPayload(resp))
}

func (h *Handler) ClearCart(c *gin.Context) {
	resp, err := h.useCase.Clear(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartPayload(resp))
}

// SyncAfterLogin reports sync failures instead of surfacing them as HTTP
// errors: a failed sync must never break the login flow.
func (h *Handler) SyncAfterLogin(c *gin.Context) {
	err := h.useCase.SyncAfterLogin(c.Request.Context())
	if err != nil {
		var sf *usecase.SyncFailure
		if errors.As(err, &sf) {
			log.Printf("cart sync reported: %v", sf)
			c.JSON(http.StatusOK, syncPayload{Synced: false, Message: sf.Error()})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, syncPayload{Synced: true})
}

func (h *Handler) CheckoutTotals(c *gin.Context) {
	var req checkoutTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.useCase.CheckoutTotals(c.Request.Context(), usecase.CheckoutTotalsRequest{
		DiscountCode:     req.DiscountCode,
		UseLoyaltyPoints: req.UseLoyaltyPoints,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTotalsPayload(resp.Totals))
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.useCase.PlaceOrder(c.Request.Context(), req.toUsecase())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderPayload{
		OrderID: resp.OrderID,
		Status:  resp.Status,
		Total:   resp.Total.StringFixed(2),
	})
}

func writeBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "INVALID_INPUT", Message: msg})
}

func writeError(c *gin.Context, err error) {
	var ve *cart.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "VALIDATION_ERROR", Message: ve.Msg})
		return
	}
	if errors.Is(err, client.ErrAuthExpired) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "AUTH_EXPIRED", Message: "please log in again"})
		return
	}
	var ne *client.NetworkError
	if errors.As(err, &ne) {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "CART_API_UNAVAILABLE", Message: err.Error()})
		return
	}
	var ae *client.APIError
	if errors.As(err, &ae) {
		c.JSON(ae.Status, ErrorResponse{Error: "CART_API_REJECTED", Message: ae.Message})
		return
	}
	log.Printf("unhandled error: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "INTERNAL_ERROR", Message: "internal error"})
}
