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
	"github.com/damilolajohn6/qwik-trendora-backend/internal/images"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/notify"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/users"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/validation"
)

func registerAuthRoutes(g *gin.RouterGroup, d *deps, authn gin.HandlerFunc) {
	g.POST("/register", d.registerUser)
	g.POST("/login", d.loginUser)
	g.GET("/verify/:token", d.verifyUserEmail)
	g.POST("/forgot-password", d.forgotUserPassword)
	g.POST("/reset-password/:token", d.resetUserPassword)

	g.GET("/profile", authn, d.getProfile)
	g.PUT("/profile", authn, d.updateProfile)

	staff := g.Group("/users", authn, auth.RequireRoles(users.RoleAdmin, users.RoleManager, users.RoleStaff))
	staff.GET("", d.listUsers)
	staff.GET("/:id", d.getUser)

	admin := g.Group("/users", authn, auth.RequireRoles(users.RoleAdmin))
	admin.PUT("/:id", d.updateUser)
	admin.DELETE("/:id", d.deleteUser)
}

func (d *deps) registerUser(c *gin.Context) {
	var req validation.RegisterUserRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	taken, err := d.users.FindByUsername(ctx, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	if taken != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username already taken"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	rawToken, hashedToken, err := auth.NewOneTimeToken()
	if err != nil {
		respondError(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = users.RoleStaff
	}
	u := users.User{
		Email:                 req.Email,
		Username:              req.Username,
		PasswordHash:          hash,
		Role:                  role,
		FullName:              req.FullName,
		PhoneNumber:           req.PhoneNumber,
		Status:                users.StatusPending,
		VerificationTokenHash: hashedToken,
		VerificationExpiresAt: time.Now().Add(auth.VerificationTokenTTL),
	}
	if req.Avatar != "" {
		ref, err := images.ParseURL(req.Avatar)
		if err != nil {
			respondError(c, err)
			return
		}
		u.Avatar = &ref
	}

	if err := d.users.Create(ctx, u); err != nil {
		respondError(c, err)
		return
	}

	d.notifier.Publish(ctx, notify.Message{
		Kind:          notify.KindVerification,
		Recipient:     u.Email,
		RecipientName: u.FullName,
		Link:          fmt.Sprintf("%s/verify-email/%s", d.frontend, rawToken),
	})

	token, err := d.signer.Issue(u.Email, u.Role, auth.KindUser)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": userView(&u)})
}

func (d *deps) loginUser(c *gin.Context) {
	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	u, err := d.users.Get(ctx, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	if !u.EmailVerified {
		c.JSON(http.StatusForbidden, gin.H{"message": "Please verify your email before logging in"})
		return
	}
	if u.Status == users.StatusSuspended || u.Status == users.StatusInactive {
		c.JSON(http.StatusForbidden, gin.H{"message": "Account is not active"})
		return
	}
	if !users.ValidRole(u.Role) {
		c.JSON(http.StatusForbidden, gin.H{"message": fmt.Sprintf("User role %s is not authorized to access this route", u.Role)})
		return
	}

	token, err := d.signer.Issue(u.Email, u.Role, auth.KindUser)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": userView(u)})
}

func (d *deps) verifyUserEmail(c *gin.Context) {
	ctx := c.Request.Context()
	u, err := d.users.FindByVerificationToken(ctx, auth.HashToken(c.Param("token")))
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil || time.Now().After(u.VerificationExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired verification token"})
		return
	}

	u.EmailVerified = true
	if u.Status == users.StatusPending {
		u.Status = users.StatusActive
	}
	u.VerificationTokenHash = ""
	u.VerificationExpiresAt = time.Time{}
	if err := d.users.Save(ctx, *u); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (d *deps) forgotUserPassword(c *gin.Context) {
	var req validation.ForgotPasswordRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	u, err := d.users.Get(ctx, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No account found with that email"})
		return
	}

	rawToken, hashedToken, err := auth.NewOneTimeToken()
	if err != nil {
		respondError(c, err)
		return
	}
	u.ResetTokenHash = hashedToken
	u.ResetExpiresAt = time.Now().Add(auth.ResetTokenTTL)
	if err := d.users.Save(ctx, *u); err != nil {
		respondError(c, err)
		return
	}

	d.notifier.Publish(ctx, notify.Message{
		Kind:          notify.KindPasswordReset,
		Recipient:     u.Email,
		RecipientName: u.FullName,
		Link:          fmt.Sprintf("%s/reset-password/%s", d.frontend, rawToken),
	})
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

func (d *deps) resetUserPassword(c *gin.Context) {
	var req validation.ResetPasswordRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	u, err := d.users.FindByResetToken(ctx, auth.HashToken(c.Param("token")))
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil || time.Now().After(u.ResetExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	u.PasswordHash = hash
	u.ResetTokenHash = ""
	u.ResetExpiresAt = time.Time{}
	if err := d.users.Save(ctx, *u); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// getProfile serves the caller's own record, whichever identity space it
// lives in.
func (d *deps) getProfile(c *gin.Context) {
	p, _ := auth.FromContext(c)
	ctx := c.Request.Context()

	if p.Kind == auth.KindCustomer {
		cu, err := d.customers.Get(ctx, p.Email)
		if err != nil {
			respondError(c, err)
			return
		}
		if cu == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"customer": customerView(cu)})
		return
	}

	u, err := d.users.Get(ctx, p.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(u)})
}

// updateProfile lets a principal edit its own record. Role and status are
// admin-managed and ignored here.
func (d *deps) updateProfile(c *gin.Context) {
	p, _ := auth.FromContext(c)
	ctx := c.Request.Context()

	if p.Kind == auth.KindCustomer {
		var req validation.UpdateCustomerRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}
		req.Status = nil
		cu, err := d.applyCustomerUpdate(ctx, p.Email, req)
		if err != nil {
			respondError(c, err)
			return
		}
		if cu == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"customer": customerView(cu)})
		return
	}

	var req validation.UpdateUserRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	req.Role = nil
	req.Status = nil
	u, err := d.applyUserUpdate(ctx, p.Email, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(u)})
}

func (d *deps) listUsers(c *gin.Context) {
	list, err := d.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	if search != "" {
		list = lo.Filter(list, func(u users.User, _ int) bool {
			return strings.Contains(strings.ToLower(u.Username), search) ||
				strings.Contains(strings.ToLower(u.Email), search) ||
				strings.Contains(strings.ToLower(u.FullName), search)
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DateJoined.After(list[j].DateJoined) })

	page, limit := pageParams(c)
	pageItems, info := paginate(list, page, limit)
	views := lo.Map(pageItems, func(u users.User, _ int) gin.H { return userView(&u) })
	c.JSON(http.StatusOK, gin.H{"users": views, "pagination": info})
}

func (d *deps) getUser(c *gin.Context) {
	u, err := d.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(u)})
}

func (d *deps) updateUser(c *gin.Context) {
	var req validation.UpdateUserRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	u, err := d.applyUserUpdate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(u)})
}

func (d *deps) deleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	u, err := d.users.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err := d.users.Delete(ctx, u.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// applyUserUpdate loads, patches and saves a staff record. Returns (nil, nil)
// when the record does not exist.
func (d *deps) applyUserUpdate(ctx context.Context, email string, req validation.UpdateUserRequest) (*users.User, error) {
	u, err := d.users.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	if req.Username != nil && *req.Username != u.Username {
		taken, err := d.users.FindByUsername(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, users.ErrDuplicate
		}
		u.Username = *req.Username
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = *req.PhoneNumber
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
	if req.Avatar != nil {
		ref, err := images.ParseURL(*req.Avatar)
		if err != nil {
			return nil, err
		}
		u.Avatar = &ref
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := d.users.Save(ctx, *u); err != nil {
		return nil, err
	}
	return d.users.Get(ctx, email)
}
