// Package handlers wires the HTTP surface: one file per resource, a shared
// dependency bundle, and a single error-to-status mapping.
package handlers

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/auth"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/config"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/customers"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/dashboard"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/notify"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/orders"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/products"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/settings"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/users"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/validation"
)

// HandlerConfig groups the external dependencies the API needs.
type HandlerConfig struct {
	DynamoDBClient   awsx.DynamoDBAPI
	SQSClient        awsx.SQSAPI
	CloudWatchClient awsx.CloudWatchAPI
	Tables           config.Tables
	JWTSecret        string
	JWTExpiry        time.Duration
	QueueURL         string
	FrontendURL      string
	MetricsNamespace string
}

// deps is the constructed dependency bundle shared by the resource handlers.
type deps struct {
	users     *users.Store
	customers *customers.Store
	products  *products.Store
	orders    *orders.Store
	settings  *settings.Store
	dashboard *dashboard.Service
	signer    *auth.Signer
	notifier  *notify.Notifier
	metrics   *awsx.MetricsPublisher
	validate  *validatorv10.Validate
	frontend  string
}

// RegisterRoutes builds all stores and mounts every resource group under /api.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	userStore := users.NewStore(cfg.DynamoDBClient, cfg.Tables.Users)
	customerStore := customers.NewStore(cfg.DynamoDBClient, cfg.Tables.Customers)
	productStore := products.NewStore(cfg.DynamoDBClient, cfg.Tables.Products)
	orderStore := orders.NewStore(cfg.DynamoDBClient, cfg.Tables.Orders)
	settingsStore := settings.NewStore(cfg.DynamoDBClient, cfg.Tables.Settings)

	d := &deps{
		users:     userStore,
		customers: customerStore,
		products:  productStore,
		orders:    orderStore,
		settings:  settingsStore,
		dashboard: dashboard.NewService(orderStore, customerStore, productStore),
		signer:    auth.NewSigner(cfg.JWTSecret, cfg.JWTExpiry),
		notifier:  notify.NewNotifier(awsx.NewPublisher(cfg.SQSClient, cfg.QueueURL)),
		metrics:   awsx.NewMetricsPublisher(cfg.CloudWatchClient, cfg.MetricsNamespace),
		validate:  validation.New(),
		frontend:  cfg.FrontendURL,
	}

	authn := auth.RequireAuth(d.signer, d.resolveUser, d.resolveCustomer)

	api := r.Group("/api")
	registerAuthRoutes(api.Group("/auth"), d, authn)
	registerCustomerAuthRoutes(api.Group("/auth/customer"), d)
	registerCustomerRoutes(api.Group("/customers"), d, authn)
	registerProductRoutes(api.Group("/products"), d, authn)
	registerOrderRoutes(api.Group("/orders"), d, authn)
	registerSettingsRoutes(api.Group("/settings"), d, authn)
	registerDashboardRoutes(api.Group("/dashboard"), d, authn)
}

// resolveUser maps a token subject onto a staff principal.
func (d *deps) resolveUser(ctx context.Context, email string) (auth.Principal, error) {
	u, err := d.users.Get(ctx, email)
	if err != nil {
		return auth.Principal{}, err
	}
	if u == nil {
		return auth.Principal{}, auth.ErrPrincipalNotFound
	}
	return auth.Principal{Email: u.Email, Role: u.Role, Kind: auth.KindUser, FullName: u.FullName}, nil
}

// resolveCustomer maps a token subject onto a customer principal.
func (d *deps) resolveCustomer(ctx context.Context, email string) (auth.Principal, error) {
	cu, err := d.customers.Get(ctx, email)
	if err != nil {
		return auth.Principal{}, err
	}
	if cu == nil {
		return auth.Principal{}, auth.ErrPrincipalNotFound
	}
	return auth.Principal{Email: cu.Email, Role: customers.RoleCustomer, Kind: auth.KindCustomer, FullName: cu.FullName}, nil
}

// pageParams reads ?page and ?limit with sane defaults.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// paginate slices a filtered listing into the requested 1-based page.
func paginate[T any](list []T, page, limit int) ([]T, gin.H) {
	total := len(list)
	info := gin.H{
		"currentPage": page,
		"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		"totalItems":  total,
	}
	start := (page - 1) * limit
	if start >= total {
		return []T{}, info
	}
	end := start + limit
	if end > total {
		end = total
	}
	return list[start:end], info
}
