package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// buildRouter wires all routes for the API.
func buildRouter(lg *zap.Logger, pool *pgxpool.Pool, deps Deps, corsOpts CORSOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(lg))

	if len(corsOpts.Origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     corsOpts.Origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: corsOpts.AllowCredentials,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(pool))

	h := &handlers{deps: deps, lg: lg}

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler)

		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)

		api.GET("/products", h.listProducts)
		api.GET("/products/categories", h.listCategories)
		api.GET("/products/:id", h.getProduct)

		authed := api.Group("", authRequired(deps.Tokens))
		{
			authed.GET("/auth/me", h.currentUser)
			authed.POST("/products", h.createProduct)

			authed.POST("/orders", h.createOrder)
			authed.GET("/orders", h.listOrders)

			authed.GET("/cart", h.getCart)
			authed.POST("/cart/items", h.addCartItem)
			authed.PATCH("/cart/items/:productId", h.updateCartItem)
			authed.DELETE("/cart/items/:productId", h.removeCartItem)
			authed.DELETE("/cart", h.clearCart)
			authed.POST("/cart/checkout", h.checkoutCart)

			authed.GET("/analytics/dashboard", h.dashboard)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}

// handlers groups the route implementations around their dependencies.
type handlers struct {
	deps Deps
	lg   *zap.Logger
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func readyHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pool == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
