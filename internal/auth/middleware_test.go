package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func middlewareRouter(signer *Signer, resolveUser, resolveCustomer Resolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("", RequireAuth(signer, resolveUser, resolveCustomer))
	protected.GET("/me", func(c *gin.Context) {
		p, _ := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": p.Email, "role": p.Role, "kind": p.Kind})
	})
	protected.GET("/admin", RequireRoles("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func staticResolver(role, kind string) Resolver {
	return func(ctx context.Context, email string) (Principal, error) {
		return Principal{Email: email, Role: role, Kind: kind}, nil
	}
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingToken(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	r := middlewareRouter(signer, staticResolver("staff", KindUser), staticResolver("customer", KindCustomer))

	w := doRequest(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no token provided") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	signer.nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _ := signer.Issue("a@example.com", "staff", KindUser)
	signer.nowFunc = time.Now

	r := middlewareRouter(signer, staticResolver("staff", KindUser), staticResolver("customer", KindCustomer))
	w := doRequest(r, token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Token expired") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRequireAuthDispatchesOnKind(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	userResolver := func(ctx context.Context, email string) (Principal, error) {
		t.Fatal("user resolver must not be called for a customer token")
		return Principal{}, nil
	}
	r := middlewareRouter(signer, userResolver, staticResolver("customer", KindCustomer))

	token, _ := signer.Issue("buyer@example.com", "customer", KindCustomer)
	w := doRequest(r, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"kind":"customer"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRequireAuthUnknownPrincipal(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	missing := func(ctx context.Context, email string) (Principal, error) {
		return Principal{}, ErrPrincipalNotFound
	}
	r := middlewareRouter(signer, missing, missing)

	token, _ := signer.Issue("ghost@example.com", "staff", KindUser)
	w := doRequest(r, token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	r := middlewareRouter(signer, staticResolver("staff", KindUser), staticResolver("customer", KindCustomer))

	token, _ := signer.Issue("staff@example.com", "staff", KindUser)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "is not authorized") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
