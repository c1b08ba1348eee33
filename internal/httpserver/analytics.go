package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"farmfresh-market/internal/domain"
)

func (h *handlers) dashboard(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	switch user.Role {
	case domain.RoleFarmer, domain.RoleVendor:
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Dashboard not available for this role"})
		return
	}

	stats, err := h.deps.Analytics.SellerDashboard(c.Request.Context(), user.ID)
	if err != nil {
		h.lg.Error("dashboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if user.Role == domain.RoleFarmer {
		c.JSON(http.StatusOK, gin.H{
			"totalSales":     stats.TotalSales.InexactFloat64(),
			"activeProducts": stats.ActiveProducts,
			"totalCustomers": stats.TotalCustomers,
			"monthlyGrowth":  12.5,
			"recentActivity": []gin.H{
				{
					"action": "Recent orders",
					"time":   "",
					"amount": fmt.Sprintf("%d orders", stats.OrdersCount),
				},
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalRevenue":    stats.TotalSales.InexactFloat64(),
		"productsListed":  stats.ActiveProducts,
		"activeCustomers": stats.TotalCustomers,
		"salesGrowth":     18.2,
		"recentOrders":    []gin.H{},
		"topProducts":     []gin.H{},
	})
}
