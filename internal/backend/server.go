package backend

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/velora-shop/cartserv/internal/repository"
)

// Server is a development stand-in for the external Cart API. It owns the
// merge policy and persistence the storefront core treats as a
// collaborator, speaking the same REST surface the production backend
// exposes.
type Server struct {
	repo repository.Interface
}

func NewServer(repo repository.Interface) *Server {
	return &Server{repo: repo}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), identify())

	r.GET("/cart", s.GetCart)
	r.POST("/cart/items", s.AddItem)
	r.PUT("/cart/items/:id", s.UpdateItemQuantity)
	r.DELETE("/cart/items/:id", s.RemoveItem)
	r.DELETE("/cart/clear", s.ClearCart)
	r.POST("/cart/associate", s.AssociateGuestCart)
	r.POST("/discounts/verify", s.VerifyDiscountCode)
	r.POST("/orders", s.PlaceOrder)

	return r
}

const (
	ctxUserID       = "user_id"
	ctxGuestSession = "guest_session"

	guestCookie = "guest_session"
	bearerDev   = "user-"
)

// identify resolves the caller: a dev bearer token of the form "user-<id>"
// for authenticated calls, the guest session header or cookie otherwise.
// A fresh guest session is minted when the caller brings neither.
func identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			token := strings.TrimPrefix(header, "Bearer ")
			if !strings.HasPrefix(token, bearerDev) || token == bearerDev {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "UNAUTHORIZED",
					"message": "invalid or expired token",
				})
				return
			}
			c.Set(ctxUserID, strings.TrimPrefix(token, bearerDev))
		}

		guest := c.GetHeader("X-Guest-Session")
		if guest == "" {
			guest, _ = c.Cookie(guestCookie)
		}
		if guest == "" {
			guest = uuid.NewString()
			c.SetCookie(guestCookie, guest, 30*24*3600, "/", "", false, true)
		}
		c.Set(ctxGuestSession, guest)

		c.Next()
	}
}

func owner(c *gin.Context) repository.GetOrCreateCartRequest {
	if userID := c.GetString(ctxUserID); userID != "" {
		return repository.GetOrCreateCartRequest{OwnerKind: repository.OwnerUser, OwnerID: userID}
	}
	return repository.GetOrCreateCartRequest{OwnerKind: repository.OwnerGuest, OwnerID: c.GetString(ctxGuestSession)}
}
