package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"farmfresh-market/internal/domain"
	productsvc "farmfresh-market/internal/service/product"
)

func (h *handlers) listProducts(c *gin.Context) {
	organic, _ := strconv.ParseBool(c.Query("organic"))
	filter := domain.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Organic:  organic,
	}

	products, err := h.deps.Products.List(c.Request.Context(), filter)
	if err != nil {
		h.lg.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": toAPIProducts(products)})
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.Products.Categories(c.Request.Context())
	if err != nil {
		h.lg.Error("list categories failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.lg.Error("get product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": toAPIProduct(*p)})
}

func (h *handlers) createProduct(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}
	if user.Role != domain.RoleFarmer {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only farmers can create products"})
		return
	}

	var in productsvc.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.deps.Products.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		if errors.Is(err, productsvc.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.lg.Error("create product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": toAPIProduct(*p),
	})
}
