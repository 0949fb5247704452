package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/auth"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/users"
)

func registerDashboardRoutes(g *gin.RouterGroup, d *deps, authn gin.HandlerFunc) {
	g.Use(authn, auth.RequireRoles(users.RoleAdmin, users.RoleManager, users.RoleStaff))

	g.GET("/stats", d.getStats)
	g.GET("/sales-trends", d.getSalesTrends)
}

func (d *deps) getStats(c *gin.Context) {
	stats, err := d.dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (d *deps) getSalesTrends(c *gin.Context) {
	trends, err := d.dashboard.SalesTrends(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends})
}
