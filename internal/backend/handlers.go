package backend

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/velora-shop/cartserv/internal/repository"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type cartItemPayload struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	VariantID int64           `json:"variant_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
}

type cartPayload struct {
	ID            int64             `json:"id"`
	Items         []cartItemPayload `json:"items"`
	TotalQuantity int64             `json:"total_quantity"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
}

func toCartPayload(resp repository.GetCartResponse) cartPayload {
	items := make([]cartItemPayload, 0, len(resp.Items))
	var totalQuantity int64
	totalAmount := decimal.Zero

	for _, it := range resp.Items {
		name := it.ProductName
		if it.VariantName != "" {
			name = it.ProductName + " (" + it.VariantName + ")"
		}
		items = append(items, cartItemPayload{
			ID:        it.ID,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Name:      name,
			Image:     it.Image,
		})
		totalQuantity += it.Quantity
		totalAmount = totalAmount.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}

	return cartPayload{
		ID:            resp.CartID,
		Items:         items,
		TotalQuantity: totalQuantity,
		TotalAmount:   totalAmount,
	}
}

func (s *Server) respondCart(c *gin.Context, cartID int64) {
	resp, err := s.repo.GetCart(c.Request.Context(), cartID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": toCartPayload(resp)})
}

func (s *Server) GetCart(c *gin.Context) {
	cart, err := s.repo.GetOrCreateCart(c.Request.Context(), owner(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondCart(c, cart.CartID)
}

func (s *Server) AddItem(c *gin.Context) {
	var req struct {
		ProductID int64 `json:"product_id" binding:"required,min=1"`
		VariantID int64 `json:"variant_id"`
		Quantity  int64 `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "INVALID_INPUT", Message: "invalid request body: " + err.Error()})
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	cart, err := s.repo.GetOrCreateCart(c.Request.Context(), owner(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	err = s.repo.AddItem(c.Request.Context(), repository.AddItemRequest{
		CartID:    cart.CartID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondCart(c, cart.CartID)
}

func (s *Server) UpdateItemQuantity(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "INVALID_INPUT", Message: "invalid item id"})
		return
	}

	var req struct {
		Quantity int64 `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "INVALID_INPUT", Message: "quantity must be at least 1"})
		return
	}

	cart, err := s.repo.GetOrCreateCart(c.Request.Context(), owner(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	err = s.repo.UpdateItemQuantity(c.Request.Context(), repository.UpdateItemQuantityRequest{
		CartID:   cart.CartID,
		ItemID:   itemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondCart(c, cart.CartID)
}

func (s *Server) RemoveItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "INVALID_INPUT", Message: "invalid item id"})
		return
	}

	cart, err := s.repo.GetOrCreateCart(c.Request.Context(), owner(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	err = s.repo.RemoveItem(c.Request.Context(), repository.RemoveItemRequest{CartID: cart.CartID, ItemID: itemID})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondCart(c, cart.CartID)
}

func (s *Server) ClearCart(c *gin.Context) {
	cart, err := s.repo.GetOrCreateCart(c.Request.Context(), owner(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.repo.ClearCart(c.Request.Context(), cart.CartID); err != nil {
		s.writeError(c, err)
		return
	}
	s.respondCart(c, cart.CartID)
}

// AssociateGuestCart merges the caller's guest cart into their user cart.
// Requires authentication; harmless to repeat.
func (s *Server) AssociateGuestCart(c *gin.Context) {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "UNAUTHORIZED", Message: "login required to associate a cart"})
		return
	}

	cart, err := s.repo.AssociateGuestCart(c.Request.Context(), repository.AssociateGuestCartRequest{
		GuestSession: c.GetString(ctxGuestSession),
		UserID:       userID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.respondCart(c, cart.CartID)
}

func (s *Server) VerifyDiscountCode(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "INVALID_INPUT", Message: "code is required"})
		return
	}

	percent, found, err := s.repo.VerifyDiscountCode(c.Request.Context(), req.Code)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Error: "INVALID_CODE", Message: "discount code not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"discount_percent": percent})
}

func (s *Server) PlaceOrder(c *gin.Context) {
	var req struct {
		Items []struct {
			ProductID int64           `json:"product_id" binding:"required,min=1"`
			VariantID int64           `json:"variant_id"`
			Quantity  int64           `json:"quantity" binding:"required,min=1"`
			Price     decimal.Decimal `json:"price"`
		} `json:"items" binding:"required,min=1"`
		ShippingAddress struct {
			Name       string `json:"name" binding:"required"`
			Email      string `json:"email"`
			Phone      string `json:"phone"`
			Address    string `json:"address"`
			City       string `json:"city"`
			PostalCode string `json:"postal_code"`
			Country    string `json:"country"`
		} `json:"shipping_address"`
		PaymentMethod string          `json:"payment_method"`
		DiscountCode  string          `json:"discount_code"`
		PointsUsed    int64           `json:"points_used"`
		Total         decimal.Decimal `json:"total"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "INVALID_INPUT", Message: "invalid request body: " + err.Error()})
		return
	}

	own := owner(c)
	lines := make([]repository.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, repository.OrderLine{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	resp, err := s.repo.CreateOrder(c.Request.Context(), repository.CreateOrderRequest{
		OwnerKind:     own.OwnerKind,
		OwnerID:       own.OwnerID,
		Items:         lines,
		Name:          req.ShippingAddress.Name,
		Email:         req.ShippingAddress.Email,
		Phone:         req.ShippingAddress.Phone,
		Address:       req.ShippingAddress.Address,
		City:          req.ShippingAddress.City,
		PostalCode:    req.ShippingAddress.PostalCode,
		Country:       req.ShippingAddress.Country,
		PaymentMethod: req.PaymentMethod,
		DiscountCode:  req.DiscountCode,
		PointsUsed:    req.PointsUsed,
		Total:         req.Total,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": gin.H{
		"id":     resp.OrderID,
		"status": resp.Status,
		"total":  req.Total,
	}})
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "PRODUCT_NOT_FOUND", Message: "product not found"})
	case errors.Is(err, repository.ErrItemNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "ITEM_NOT_FOUND", Message: "cart item not found"})
	default:
		log.Printf("cart api error: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "DATABASE_ERROR", Message: "internal error"})
	}
}
