package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Principal is the resolved identity attached to the request context.
type Principal struct {
	Email    string
	Role     string
	Kind     string
	FullName string
}

// ErrPrincipalNotFound is returned by a Resolver when the token's subject no
// longer exists in its identity space.
var ErrPrincipalNotFound = errors.New("principal not found")

// Resolver loads the principal behind a token subject.
type Resolver func(ctx context.Context, email string) (Principal, error)

const principalKey = "auth.principal"

// FromContext returns the principal set by RequireAuth.
func FromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// RequireAuth extracts and verifies the bearer token, then resolves the
// principal from the identity space named by the token's kind claim.
func RequireAuth(signer *Signer, resolveUser, resolveCustomer Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token provided"})
			return
		}

		claims, err := signer.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token expired, please log in again"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		resolve := resolveUser
		if claims.Kind == KindCustomer {
			resolve = resolveCustomer
		}
		principal, err := resolve(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, ErrPrincipalNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User or Customer not found"})
				return
			}
			log.Printf("[auth] resolve principal: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRoles gates a route on a declarative role allow-list.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := FromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token provided"})
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message": fmt.Sprintf("User role %s is not authorized to access this route", principal.Role),
		})
	}
}
