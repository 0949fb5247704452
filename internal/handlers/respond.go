package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/customers"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/images"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/orders"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/products"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/settings"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/users"
)

// respondError maps store sentinels onto the HTTP surface. Anything unmapped
// is a server error: logged in full, surfaced as a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists"})
	case errors.Is(err, customers.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Customer with this email already exists"})
	case errors.Is(err, products.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
	case errors.Is(err, products.ErrDuplicateSKU):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Product with this SKU already exists"})
	case errors.Is(err, products.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"message": "Insufficient stock for one or more items"})
	case errors.Is(err, products.ErrAlreadyReviewed):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You have already reviewed this product"})
	case errors.Is(err, products.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, gin.H{"message": "Product was modified concurrently, please retry"})
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
	case errors.Is(err, orders.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order status transition"})
	case errors.Is(err, orders.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"message": "Order is already cancelled or refunded"})
	case errors.Is(err, orders.ErrStatusMismatch):
		c.JSON(http.StatusConflict, gin.H{"message": "Order status changed concurrently, please retry"})
	case errors.Is(err, settings.ErrExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Settings already exist, use update instead"})
	case errors.Is(err, settings.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Settings not found"})
	case errors.Is(err, images.ErrInvalidURL):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid image URL"})
	default:
		log.Printf("[api] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
	}
}

// userView strips credentials and token material from a staff account.
func userView(u *users.User) gin.H {
	return gin.H{
		"email":         u.Email,
		"username":      u.Username,
		"role":          u.Role,
		"fullname":      u.FullName,
		"phoneNumber":   u.PhoneNumber,
		"avatar":        u.Avatar,
		"status":        u.Status,
		"emailVerified": u.EmailVerified,
		"dateJoined":    u.DateJoined,
		"updatedAt":     u.UpdatedAt,
	}
}

// customerView strips credentials and token material from a customer account.
func customerView(cu *customers.Customer) gin.H {
	return gin.H{
		"email":           cu.Email,
		"fullname":        cu.FullName,
		"phoneNumber":     cu.PhoneNumber,
		"shippingAddress": cu.ShippingAddress,
		"avatar":          cu.Avatar,
		"status":          cu.Status,
		"emailVerified":   cu.EmailVerified,
		"dateJoined":      cu.DateJoined,
		"updatedAt":       cu.UpdatedAt,
	}
}
