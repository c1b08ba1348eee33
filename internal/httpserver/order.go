package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"farmfresh-market/internal/domain"
	ordersvc "farmfresh-market/internal/service/order"
)

type createOrderRequest struct {
	Items []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	TotalPrice      float64 `json:"totalPrice"`
	DeliveryMethod  string  `json:"deliveryMethod"`
	DeliveryAddress string  `json:"deliveryAddress"`
	PickupLocation  string  `json:"pickupLocation"`
	PaymentMethod   string  `json:"paymentMethod"`
}

func (h *handlers) createOrder(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	var in createOrderRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items := make([]domain.OrderDraftItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = domain.OrderDraftItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	draft := domain.OrderDraft{
		CustomerID:      user.ID,
		Items:           items,
		TotalPrice:      decimal.NewFromFloat(in.TotalPrice),
		DeliveryMethod:  domain.DeliveryMethod(in.DeliveryMethod),
		DeliveryAddress: in.DeliveryAddress,
		PickupLocation:  in.PickupLocation,
		PaymentMethod:   domain.PaymentMethod(in.PaymentMethod),
	}

	order, err := h.deps.Orders.CreateOrder(c.Request.Context(), draft)
	if err != nil {
		var notFound *ordersvc.ProductNotFoundError
		switch {
		case errors.Is(err, ordersvc.ErrEmptyItems),
			errors.Is(err, ordersvc.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &notFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": notFound.Error()})
		default:
			h.lg.Error("create order failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   toAPIOrder(order),
	})
}

func (h *handlers) listOrders(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	orders, err := h.deps.Orders.ListForUser(c.Request.Context(), user.ID, user.Role)
	if err != nil {
		h.lg.Error("list orders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": toAPIOrders(orders)})
}
