package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/auth"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/customers"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/images"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/notify"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/users"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/validation"
)

// registerCustomerAuthRoutes mounts the public customer account flows. They
// live under /api/auth/customer because gin's router forbids a static segment
// next to the /:id wildcard the record routes need.
func registerCustomerAuthRoutes(g *gin.RouterGroup, d *deps) {
	g.POST("/register", d.registerCustomer)
	g.POST("/login", d.loginCustomer)
	g.GET("/verify/:token", d.verifyCustomerEmail)
	g.POST("/forgot-password", d.forgotCustomerPassword)
	g.POST("/reset-password/:token", d.resetCustomerPassword)
}

func registerCustomerRoutes(g *gin.RouterGroup, d *deps, authn gin.HandlerFunc) {
	staff := auth.RequireRoles(users.RoleAdmin, users.RoleManager, users.RoleStaff)
	g.GET("", authn, staff, d.listCustomers)
	g.POST("", authn, staff, d.createCustomer)

	ownerOrStaff := auth.RequireRoles(users.RoleAdmin, users.RoleManager, customers.RoleCustomer)
	g.GET("/:id", authn, ownerOrStaff, d.getCustomer)
	g.PUT("/:id", authn, ownerOrStaff, d.updateCustomer)
	g.DELETE("/:id", authn, auth.RequireRoles(users.RoleAdmin), d.deleteCustomer)
}

func customerFromRegistration(req validation.RegisterCustomerRequest) (customers.Customer, error) {
	cu := customers.Customer{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Status:      users.StatusPending,
	}
	if req.ShippingAddress != nil {
		cu.ShippingAddress = customers.Address{
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			ZipCode: req.ShippingAddress.ZipCode,
			Country: req.ShippingAddress.Country,
		}
	}
	if req.Avatar != "" {
		ref, err := images.ParseURL(req.Avatar)
		if err != nil {
			return customers.Customer{}, err
		}
		cu.Avatar = &ref
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return customers.Customer{}, err
	}
	cu.PasswordHash = hash
	return cu, nil
}

func (d *deps) registerCustomer(c *gin.Context) {
	var req validation.RegisterCustomerRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	cu, err := customerFromRegistration(req)
	if err != nil {
		respondError(c, err)
		return
	}
	rawToken, hashedToken, err := auth.NewOneTimeToken()
	if err != nil {
		respondError(c, err)
		return
	}
	cu.VerificationTokenHash = hashedToken
	cu.VerificationExpiresAt = time.Now().Add(auth.VerificationTokenTTL)

	if err := d.customers.Create(ctx, cu); err != nil {
		respondError(c, err)
		return
	}

	d.notifier.Publish(ctx, notify.Message{
		Kind:          notify.KindVerification,
		Recipient:     cu.Email,
		RecipientName: cu.FullName,
		Link:          fmt.Sprintf("%s/customers/verify-email/%s", d.frontend, rawToken),
	})

	token, err := d.signer.Issue(cu.Email, customers.RoleCustomer, auth.KindCustomer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "customer": customerView(&cu)})
}

func (d *deps) loginCustomer(c *gin.Context) {
	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	cu, err := d.customers.Get(ctx, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if cu == nil || !auth.CheckPassword(cu.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	if !cu.EmailVerified {
		c.JSON(http.StatusForbidden, gin.H{"message": "Please verify your email before logging in"})
		return
	}
	if cu.Status == users.StatusSuspended || cu.Status == users.StatusInactive {
		c.JSON(http.StatusForbidden, gin.H{"message": "Account is not active"})
		return
	}

	token, err := d.signer.Issue(cu.Email, customers.RoleCustomer, auth.KindCustomer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "customer": customerView(cu)})
}

func (d *deps) verifyCustomerEmail(c *gin.Context) {
	ctx := c.Request.Context()
	cu, err := d.customers.FindByVerificationToken(ctx, auth.HashToken(c.Param("token")))
	if err != nil {
		respondError(c, err)
		return
	}
	if cu == nil || time.Now().After(cu.VerificationExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired verification token"})
		return
	}

	cu.EmailVerified = true
	if cu.Status == users.StatusPending {
		cu.Status = users.StatusActive
	}
	cu.VerificationTokenHash = ""
	cu.VerificationExpiresAt = time.Time{}
	if err := d.customers.Save(ctx, *cu); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (d *deps) forgotCustomerPassword(c *gin.Context) {
	var req validation.ForgotPasswordRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	cu, err := d.customers.Get(ctx, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if cu == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No account found with that email"})
		return
	}

	rawToken, hashedToken, err := auth.NewOneTimeToken()
	if err != nil {
		respondError(c, err)
		return
	}
	cu.ResetTokenHash = hashedToken
	cu.ResetExpiresAt = time.Now().Add(auth.ResetTokenTTL)
	if err := d.customers.Save(ctx, *cu); err != nil {
		respondError(c, err)
		return
	}

	d.notifier.Publish(ctx, notify.Message{
		Kind:          notify.KindPasswordReset,
		Recipient:     cu.Email,
		RecipientName: cu.FullName,
		Link:          fmt.Sprintf("%s/customers/reset-password/%s", d.frontend, rawToken),
	})
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

func (d *deps) resetCustomerPassword(c *gin.Context) {
	var req validation.ResetPasswordRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	cu, err := d.customers.FindByResetToken(ctx, auth.HashToken(c.Param("token")))
	if err != nil {
		respondError(c, err)
		return
	}
	if cu == nil || time.Now().After(cu.ResetExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	cu.PasswordHash = hash
	cu.ResetTokenHash = ""
	cu.ResetExpiresAt = time.Time{}
	if err := d.customers.Save(ctx, *cu); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (d *deps) listCustomers(c *gin.Context) {
	list, err := d.customers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	if search != "" {
		list = lo.Filter(list, func(cu customers.Customer, _ int) bool {
			return strings.Contains(strings.ToLower(cu.FullName), search) ||
				strings.Contains(strings.ToLower(cu.Email), search) ||
				strings.Contains(strings.ToLower(cu.PhoneNumber), search)
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DateJoined.After(list[j].DateJoined) })

	page, limit := pageParams(c)
	pageItems, info := paginate(list, page, limit)
	views := lo.Map(pageItems, func(cu customers.Customer, _ int) gin.H { return customerView(&cu) })
	c.JSON(http.StatusOK, gin.H{"customers": views, "pagination": info})
}

// createCustomer is the back-office path: the account starts active and
// verified, no verification email is sent.
func (d *deps) createCustomer(c *gin.Context) {
	var req validation.RegisterCustomerRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	cu, err := customerFromRegistration(req)
	if err != nil {
		respondError(c, err)
		return
	}
	cu.Status = users.StatusActive
	cu.EmailVerified = true

	if err := d.customers.Create(ctx, cu); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": customerView(&cu)})
}

// requireCustomerAccess enforces that customers only reach their own record.
func requireCustomerAccess(c *gin.Context, email string) bool {
	p, _ := auth.FromContext(c)
	if p.Kind == auth.KindCustomer && p.Email != email {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only access your own account"})
		return false
	}
	return true
}

func (d *deps) getCustomer(c *gin.Context) {
	email := c.Param("id")
	if !requireCustomerAccess(c, email) {
		return
	}
	cu, err := d.customers.Get(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	if cu == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customerView(cu)})
}

func (d *deps) updateCustomer(c *gin.Context) {
	email := c.Param("id")
	if !requireCustomerAccess(c, email) {
		return
	}
	var req validation.UpdateCustomerRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	if p, _ := auth.FromContext(c); p.Kind == auth.KindCustomer {
		// status is staff-managed
		req.Status = nil
	}

	cu, err := d.applyCustomerUpdate(c.Request.Context(), email, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if cu == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customerView(cu)})
}

func (d *deps) deleteCustomer(c *gin.Context) {
	ctx := c.Request.Context()
	cu, err := d.customers.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if cu == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return
	}
	if err := d.customers.Delete(ctx, cu.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// applyCustomerUpdate loads, patches and saves a customer record. Returns
// (nil, nil) when the record does not exist.
func (d *deps) applyCustomerUpdate(ctx context.Context, email string, req validation.UpdateCustomerRequest) (*customers.Customer, error) {
	cu, err := d.customers.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if cu == nil {
		return nil, nil
	}

	if req.FullName != nil {
		cu.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		cu.PhoneNumber = *req.PhoneNumber
	}
	if req.ShippingAddress != nil {
		cu.ShippingAddress = customers.Address{
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			ZipCode: req.ShippingAddress.ZipCode,
			Country: req.ShippingAddress.Country,
		}
	}
	if req.Status != nil {
		cu.Status = *req.Status
	}
	if req.Avatar != nil {
		ref, err := images.ParseURL(*req.Avatar)
		if err != nil {
			return nil, err
		}
		cu.Avatar = &ref
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		cu.PasswordHash = hash
	}

	if err := d.customers.Save(ctx, *cu); err != nil {
		return nil, err
	}
	return d.customers.Get(ctx, email)
}
