package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/auth"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/customers"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/images"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/products"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/users"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/validation"
)

func registerProductRoutes(g *gin.RouterGroup, d *deps, authn gin.HandlerFunc) {
	g.GET("", d.listProducts)
	g.GET("/:sku", d.getProduct)

	catalogAdmin := auth.RequireRoles(users.RoleAdmin, users.RoleManager)
	g.POST("", authn, catalogAdmin, d.createProduct)
	g.PUT("/:sku", authn, catalogAdmin, d.updateProduct)
	g.DELETE("/:sku", authn, auth.RequireRoles(users.RoleAdmin), d.deleteProduct)

	g.POST("/:sku/reviews", authn, auth.RequireRoles(customers.RoleCustomer), d.addReview)

	g.PUT("/:sku/stock", authn, auth.RequireRoles(users.RoleAdmin), d.adjustStock)
}

// adjustStock applies a manual stock delta through the same conditional
// primitive the order transactions use, so stock still cannot go below zero.
func (d *deps) adjustStock(c *gin.Context) {
	var req validation.StockAdjustRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()
	sku := c.Param("sku")

	p, err := d.products.Get(ctx, sku)
	if err != nil {
		respondError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err := d.products.AdjustStock(ctx, sku, req.Delta); err != nil {
		respondError(c, err)
		return
	}

	updated, err := d.products.Get(ctx, sku)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": updated})
}

func (d *deps) listProducts(c *gin.Context) {
	list, err := d.products.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	q := products.ListQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		SortBy:   c.Query("sort"),
	}
	q.MinPrice, _ = strconv.ParseFloat(c.Query("minPrice"), 64)
	q.MaxPrice, _ = strconv.ParseFloat(c.Query("maxPrice"), 64)
	if raw := c.Query("published"); raw != "" {
		published := raw == "true"
		q.Published = &published
	}

	filtered := products.FilterSort(list, q)
	page, limit := pageParams(c)
	pageItems, info := products.Paginate(filtered, page, limit)
	c.JSON(http.StatusOK, gin.H{"products": pageItems, "pagination": info})
}

func (d *deps) getProduct(c *gin.Context) {
	p, err := d.products.Get(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (d *deps) createProduct(c *gin.Context) {
	var req validation.CreateProductRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()

	refs, err := images.ParseURLs(lo.Map(req.Images, func(i validation.ImagePayload, _ int) string { return i.URL }))
	if err != nil {
		respondError(c, err)
		return
	}

	p := products.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		Category:    req.Category,
		Stock:       req.Stock,
		Images:      refs,
		Tags:        products.NormalizeTags(req.Tags),
		Published:   req.Published,
		Variants: lo.Map(req.Variants, func(v validation.VariantPayload, _ int) products.Variant {
			return products.Variant{Type: v.Type, Value: v.Value, AdditionalPrice: v.AdditionalPrice}
		}),
	}

	if err := d.products.Create(ctx, p); err != nil {
		respondError(c, err)
		return
	}
	created, err := d.products.Get(ctx, p.SKU)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": created})
}

func (d *deps) updateProduct(c *gin.Context) {
	var req validation.UpdateProductRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()
	sku := c.Param("sku")

	p, err := d.products.Get(ctx, sku)
	if err != nil {
		respondError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Discount != nil {
		p.Discount = *req.Discount
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Images != nil {
		refs, err := images.ParseURLs(lo.Map(req.Images, func(i validation.ImagePayload, _ int) string { return i.URL }))
		if err != nil {
			respondError(c, err)
			return
		}
		p.Images = refs
	}
	if req.Tags != nil {
		p.Tags = products.NormalizeTags(*req.Tags)
	}
	if req.Variants != nil {
		p.Variants = lo.Map(req.Variants, func(v validation.VariantPayload, _ int) products.Variant {
			return products.Variant{Type: v.Type, Value: v.Value, AdditionalPrice: v.AdditionalPrice}
		})
	}
	if req.Published != nil {
		p.Published = *req.Published
	}

	// SKU change is a transactional move; a plain save would fork the record
	if req.SKU != nil && *req.SKU != sku {
		p.SKU = *req.SKU
		if err := d.products.Rekey(ctx, sku, *p); err != nil {
			respondError(c, err)
			return
		}
	} else if err := d.products.Save(ctx, *p); err != nil {
		respondError(c, err)
		return
	}

	updated, err := d.products.Get(ctx, p.SKU)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": updated})
}

func (d *deps) deleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	sku := c.Param("sku")

	p, err := d.products.Get(ctx, sku)
	if err != nil {
		respondError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err := d.products.Delete(ctx, sku); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (d *deps) addReview(c *gin.Context) {
	var req validation.ReviewRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	p, _ := auth.FromContext(c)

	updated, err := d.products.AddReview(c.Request.Context(), c.Param("sku"), products.Review{
		CustomerEmail: p.Email,
		CustomerName:  p.FullName,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": updated})
}
