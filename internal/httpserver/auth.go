package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"farmfresh-market/internal/domain"
	userrepo "farmfresh-market/internal/repository/user"
	usersvc "farmfresh-market/internal/service/user"
)

func (h *handlers) register(c *gin.Context) {
	var in usersvc.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, token, err := h.deps.Users.Register(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, userrepo.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists with this email"})
		case errors.Is(err, usersvc.ErrMissingFields),
			errors.Is(err, usersvc.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.lg.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during registration"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    toAPIUser(u),
		"token":   token,
	})
}

type loginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func (h *handlers) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, token, err := h.deps.Users.Login(c.Request.Context(), in.Email, in.Password, in.Role)
	if err != nil {
		if errors.Is(err, usersvc.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.lg.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    toAPIUser(u),
		"token":   token,
	})
}

func (h *handlers) currentUser(c *gin.Context) {
	user, ok := currentAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}

	u, err := h.deps.Users.GetByID(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.lg.Error("get current user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toAPIUser(u)})
}
