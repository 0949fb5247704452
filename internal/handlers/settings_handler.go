package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/auth"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/users"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/validation"
)

func registerSettingsRoutes(g *gin.RouterGroup, d *deps, authn gin.HandlerFunc) {
	g.Use(authn, auth.RequireRoles(users.RoleAdmin))

	g.GET("", d.getSettings)
	g.POST("", d.createSettings)
	g.PUT("", d.updateSettings)
	g.DELETE("", d.deleteSettings)
}

func (d *deps) getSettings(c *gin.Context) {
	cfg, err := d.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	// admin dashboards poll this; never let intermediaries cache it
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusOK, gin.H{"settings": cfg})
}

func (d *deps) createSettings(c *gin.Context) {
	var req validation.SettingsRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	if err := d.settings.Create(c.Request.Context(), req.Settings); err != nil {
		respondError(c, err)
		return
	}
	created, err := d.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"settings": created})
}

func (d *deps) updateSettings(c *gin.Context) {
	var req validation.SettingsRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	existing, err := d.settings.Get(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	req.CreatedAt = existing.CreatedAt
	if err := d.settings.Save(ctx, req.Settings); err != nil {
		respondError(c, err)
		return
	}
	updated, err := d.settings.Get(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": updated})
}

func (d *deps) deleteSettings(c *gin.Context) {
	if err := d.settings.Delete(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings deleted successfully"})
}
