package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"farmfresh-market/internal/cart"
	"farmfresh-market/internal/checkout"
	"farmfresh-market/internal/domain"
)

// cartStore builds the request-scoped store over the caller's durable
// snapshot. Each authenticated user gets their own snapshot key.
func (h *handlers) cartStore(c *gin.Context, user authUser) *cart.Store {
	key := cart.DefaultKey + ":" + user.ID
	return cart.NewStore(key, h.deps.Snapshots.Bound(c.Request.Context()), h.lg)
}

func (h *handlers) getCart(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	store := h.cartStore(c, user)
	c.JSON(http.StatusOK, gin.H{"cart": toAPICart(store.Cart())})
}

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	var in addCartItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	p, err := h.deps.Products.Get(c.Request.Context(), in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.lg.Error("add cart item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	store := h.cartStore(c, user)

	// Clamp against listed stock at the boundary; the store itself does not
	// consult stock.
	quantity := in.Quantity
	for _, item := range store.Cart().Items {
		if item.ProductID == p.ID {
			if item.Quantity+quantity > p.Quantity {
				quantity = p.Quantity - item.Quantity
			}
			break
		}
	}
	if quantity > p.Quantity {
		quantity = p.Quantity
	}
	if quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough stock available"})
		return
	}

	store.Add(*p, quantity)
	c.JSON(http.StatusOK, gin.H{"cart": toAPICart(store.Cart())})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *handlers) updateCartItem(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	var in updateCartItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	store := h.cartStore(c, user)
	store.UpdateQuantity(c.Param("productId"), in.Quantity)
	c.JSON(http.StatusOK, gin.H{"cart": toAPICart(store.Cart())})
}

func (h *handlers) removeCartItem(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	store := h.cartStore(c, user)
	store.Remove(c.Param("productId"))
	c.JSON(http.StatusOK, gin.H{"cart": toAPICart(store.Cart())})
}

func (h *handlers) clearCart(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	store := h.cartStore(c, user)
	store.Clear()
	c.JSON(http.StatusOK, gin.H{"cart": toAPICart(store.Cart())})
}

type checkoutRequest struct {
	DeliveryMethod  string `json:"deliveryMethod"`
	DeliveryAddress string `json:"deliveryAddress"`
	PickupLocation  string `json:"pickupLocation"`
	PaymentMethod   string `json:"paymentMethod"`
}

func (h *handlers) checkoutCart(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	var in checkoutRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	store := h.cartStore(c, user)
	submitter := checkout.NewSubmitter(h.deps.Orders)

	order, err := submitter.Submit(c.Request.Context(), store, checkout.Options{
		CustomerID:      user.ID,
		DeliveryMethod:  domain.DeliveryMethod(in.DeliveryMethod),
		DeliveryAddress: in.DeliveryAddress,
		PickupLocation:  in.PickupLocation,
		PaymentMethod:   domain.PaymentMethod(in.PaymentMethod),
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrMissingAddress):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.lg.Error("checkout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   toAPIOrder(order),
	})
}
