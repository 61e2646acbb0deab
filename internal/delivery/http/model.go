package http

import (
	"github.com/shopspring/decimal"

	"github.com/velora-shop/cartserv/internal/cart"
	"github.com/velora-shop/cartserv/internal/client"
	"github.com/velora-shop/cartserv/internal/pricing"
	"github.com/velora-shop/cartserv/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type variantPayload struct {
	ID              int64           `json:"id" binding:"required,min=1"`
	Name            string          `json:"name"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
}

type addItemRequest struct {
	ProductID int64           `json:"product_id" binding:"required,min=1"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Variant   *variantPayload `json:"variant"`
	Quantity  int64           `json:"quantity"`
}

type setQuantityRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
	VariantID int64 `json:"variant_id"`
	Quantity  int64 `json:"quantity" binding:"required"`
}

type lineKeyRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
	VariantID int64 `json:"variant_id"`
}

type checkoutTotalsRequest struct {
	DiscountCode     string `json:"discount_code"`
	UseLoyaltyPoints bool   `json:"use_loyalty_points"`
}

type placeOrderRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email"`
	Phone            string `json:"phone" binding:"required"`
	Address          string `json:"address" binding:"required"`
	City             string `json:"city" binding:"required"`
	PostalCode       string `json:"postal_code" binding:"required"`
	Country          string `json:"country"`
	PaymentMethod    string `json:"payment_method"`
	DiscountCode     string `json:"discount_code"`
	UseLoyaltyPoints bool   `json:"use_loyalty_points"`
}

type itemPayload struct {
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id,omitempty"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
}

type cartPayload struct {
	Items         []itemPayload `json:"items"`
	TotalQuantity int64         `json:"total_quantity"`
	TotalAmount   string        `json:"total_amount"`
}

// totalsPayload is the display form of the price breakdown: amounts are
// rounded to two places here and nowhere earlier.
type totalsPayload struct {
	Subtotal        string `json:"subtotal"`
	ShippingFee     string `json:"shipping_fee"`
	DiscountPercent int64  `json:"discount_percent"`
	DiscountAmount  string `json:"discount_amount"`
	PointsUsed      int64  `json:"points_used"`
	LoyaltyDiscount string `json:"loyalty_discount"`
	Total           string `json:"total"`
}

type orderPayload struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
	Total   string `json:"total"`
}

type syncPayload struct {
	Synced  bool   `json:"synced"`
	Message string `json:"message,omitempty"`
}

func toCartPayload(resp usecase.CartResponse) cartPayload {
	items := make([]itemPayload, 0, len(resp.Items))
	for _, it := range resp.Items {
		items = append(items, itemPayload{
			ProductID: it.Key.ProductID,
			VariantID: it.Key.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			LineTotal: it.LineTotal().StringFixed(2),
			Name:      it.Name,
			Image:     it.Image,
		})
	}
	return cartPayload{
		Items:         items,
		TotalQuantity: resp.TotalQuantity,
		TotalAmount:   resp.TotalAmount.StringFixed(2),
	}
}

func toTotalsPayload(t pricing.Totals) totalsPayload {
	return totalsPayload{
		Subtotal:        t.Subtotal.StringFixed(2),
		ShippingFee:     t.ShippingFee.StringFixed(2),
		DiscountPercent: t.DiscountPercent,
		DiscountAmount:  t.DiscountAmount.StringFixed(2),
		PointsUsed:      t.PointsUsed,
		LoyaltyDiscount: t.LoyaltyDiscount.StringFixed(2),
		Total:           t.Total.StringFixed(2),
	}
}

func (r addItemRequest) toUsecase() usecase.AddItemRequest {
	req := usecase.AddItemRequest{
		Product: cart.Product{
			ID:    r.ProductID,
			Name:  r.Name,
			Image: r.Image,
			Price: r.Price,
		},
		Quantity: r.Quantity,
	}
	if r.Variant != nil {
		req.Variant = &cart.Variant{
			ID:              r.Variant.ID,
			Name:            r.Variant.Name,
			AdditionalPrice: r.Variant.AdditionalPrice,
		}
	}
	return req
}

func (r placeOrderRequest) toUsecase() usecase.PlaceOrderRequest {
	return usecase.PlaceOrderRequest{
		ShippingAddress: client.ShippingAddress{
			Name:       r.Name,
			Email:      r.Email,
			Phone:      r.Phone,
			Address:    r.Address,
			City:       r.City,
			PostalCode: r.PostalCode,
			Country:    r.Country,
		},
		PaymentMethod:    r.PaymentMethod,
		DiscountCode:     r.DiscountCode,
		UseLoyaltyPoints: r.UseLoyaltyPoints,
	}
}
