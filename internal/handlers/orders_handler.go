package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/auth"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/customers"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/notify"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/orders"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/users"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/validation"
)

func registerOrderRoutes(g *gin.RouterGroup, d *deps, authn gin.HandlerFunc) {
	g.Use(authn)

	g.POST("", auth.RequireRoles(customers.RoleCustomer), d.createOrder)
	g.GET("", d.listOrders)
	g.GET("/:id", d.getOrder)
	g.PUT("/:id", auth.RequireRoles(users.RoleAdmin, customers.RoleCustomer), d.updateOrder)
	g.DELETE("/:id", auth.RequireRoles(users.RoleAdmin, customers.RoleCustomer), d.cancelOrder)
	g.POST("/:id/process-payment", auth.RequireRoles(users.RoleAdmin, customers.RoleCustomer), d.processPayment)
}

func (d *deps) createOrder(c *gin.Context) {
	var req validation.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	ctx := c.Request.Context()
	principal, _ := auth.FromContext(c)

	// snapshot name and discounted price from the catalog; client-supplied
	// prices are never trusted
	items := make([]orders.Item, 0, len(req.Items))
	for _, line := range req.Items {
		p, err := d.products.Get(ctx, line.SKU)
		if err != nil {
			respondError(c, err)
			return
		}
		if p == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Product not found: %s", line.SKU)})
			return
		}
		items = append(items, orders.Item{
			SKU:      p.SKU,
			Name:     p.Name,
			Price:    p.DiscountedPrice,
			Quantity: line.Quantity,
			Variant:  line.Variant,
		})
	}

	order := orders.Order{
		OrderID:       uuid.NewString(),
		InvoiceNumber: orders.NewInvoiceNumber(time.Now()),
		CustomerEmail: principal.Email,
		Items:         items,
		TotalAmount:   orders.TotalOf(items),
		ShippingAddress: orders.Address{
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			ZipCode: req.ShippingAddress.ZipCode,
			Country: req.ShippingAddress.Country,
		},
		Status:        orders.StatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: orders.PaymentPending,
	}

	if err := d.orders.CreateWithStockTransaction(ctx, d.products.TableName(), order); err != nil {
		respondError(c, err)
		return
	}

	d.notifier.Publish(ctx, notify.Message{
		Kind:          notify.KindOrderConfirmation,
		Recipient:     principal.Email,
		RecipientName: principal.FullName,
		OrderID:       order.OrderID,
		InvoiceNumber: order.InvoiceNumber,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
	})
	if err := d.metrics.RecordOrderCreated(ctx, order.TotalAmount); err != nil {
		log.Printf("[api] record order metrics: %v", err)
	}

	created, err := d.orders.Get(ctx, order.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": created})
}

func (d *deps) listOrders(c *gin.Context) {
	principal, _ := auth.FromContext(c)
	list, err := d.orders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if principal.Kind == auth.KindCustomer {
		list = lo.Filter(list, func(o orders.Order, _ int) bool {
			return o.CustomerEmail == principal.Email
		})
	}
	if status := c.Query("status"); status != "" {
		list = lo.Filter(list, func(o orders.Order, _ int) bool { return o.Status == status })
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		list = lo.Filter(list, func(o orders.Order, _ int) bool {
			if strings.Contains(strings.ToLower(o.InvoiceNumber), search) {
				return true
			}
			return lo.SomeBy(o.Items, func(it orders.Item) bool {
				return strings.Contains(strings.ToLower(it.Name), search)
			})
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	page, limit := pageParams(c)
	pageItems, info := paginate(list, page, limit)
	c.JSON(http.StatusOK, gin.H{"orders": pageItems, "pagination": info})
}

// loadOrderForPrincipal fetches the order and enforces ownership for
// customers. Writes the error response itself and returns nil on failure.
func (d *deps) loadOrderForPrincipal(c *gin.Context) *orders.Order {
	principal, _ := auth.FromContext(c)
	o, err := d.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil
	}
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return nil
	}
	if principal.Kind == auth.KindCustomer && o.CustomerEmail != principal.Email {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only access your own orders"})
		return nil
	}
	return o
}

func (d *deps) getOrder(c *gin.Context) {
	o := d.loadOrderForPrincipal(c)
	if o == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

func (d *deps) updateOrder(c *gin.Context) {
	var req validation.UpdateOrderRequest
	if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
		return
	}
	o := d.loadOrderForPrincipal(c)
	if o == nil {
		return
	}
	ctx := c.Request.Context()
	principal, _ := auth.FromContext(c)

	if principal.Kind == auth.KindCustomer {
		// customers may only cancel through this route
		if req.Status == nil || *req.Status != orders.StatusCancelled ||
			req.PaymentStatus != nil || req.TrackingNumber != nil || req.Refund != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "Customers can only cancel their orders"})
			return
		}
		d.doCancel(c, o, req.CancelReason, "Order cancelled by customer")
		return
	}

	if req.Status != nil && *req.Status != o.Status {
		if *req.Status == orders.StatusCancelled {
			d.doCancel(c, o, req.CancelReason, "Order cancelled by admin")
			return
		}
		if !orders.CanTransition(o.Status, *req.Status) {
			respondError(c, orders.ErrInvalidTransition)
			return
		}
		if err := d.orders.UpdateStatus(ctx, o.OrderID, o.Status, *req.Status); err != nil {
			respondError(c, err)
			return
		}
		o.Status = *req.Status
	}

	if req.PaymentStatus != nil {
		o.PaymentStatus = *req.PaymentStatus
	}
	if req.TrackingNumber != nil {
		o.TrackingNumber = *req.TrackingNumber
	}
	if req.Refund != nil {
		o.Refund = &orders.Refund{
			Amount: req.Refund.Amount,
			Status: req.Refund.Status,
			Reason: req.Refund.Reason,
		}
	}
	if req.PaymentStatus != nil || req.TrackingNumber != nil || req.Refund != nil {
		if err := d.orders.Save(ctx, *o); err != nil {
			respondError(c, err)
			return
		}
	}

	d.finishOrderMutation(c, o.OrderID)
}

func (d *deps) cancelOrder(c *gin.Context) {
	o := d.loadOrderForPrincipal(c)
	if o == nil {
		return
	}
	principal, _ := auth.FromContext(c)
	fallback := "Order cancelled by admin"
	if principal.Kind == auth.KindCustomer {
		fallback = "Order cancelled by customer"
	}
	d.doCancel(c, o, c.Query("reason"), fallback)
}

// doCancel runs the stock-reversing cancel transaction and responds with the
// refreshed order.
func (d *deps) doCancel(c *gin.Context, o *orders.Order, reason, fallback string) {
	if reason == "" {
		reason = fallback
	}
	if err := d.orders.CancelWithStockReversal(c.Request.Context(), d.products.TableName(), *o, reason); err != nil {
		respondError(c, err)
		return
	}
	d.finishOrderMutation(c, o.OrderID)
}

// finishOrderMutation re-reads the order, enqueues the update email, and
// writes the 200.
func (d *deps) finishOrderMutation(c *gin.Context, orderID string) {
	ctx := c.Request.Context()
	updated, err := d.orders.Get(ctx, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}

	d.notifier.Publish(ctx, notify.Message{
		Kind:          notify.KindOrderUpdate,
		Recipient:     updated.CustomerEmail,
		OrderID:       updated.OrderID,
		InvoiceNumber: updated.InvoiceNumber,
		TotalAmount:   updated.TotalAmount,
		Status:        updated.Status,
	})
	c.JSON(http.StatusOK, gin.H{"order": updated})
}

func (d *deps) processPayment(c *gin.Context) {
	o := d.loadOrderForPrincipal(c)
	if o == nil {
		return
	}
	ctx := c.Request.Context()

	o.PaymentStatus = orders.PaymentCompleted
	// a paid pending order moves straight into fulfilment
	if o.Status == orders.StatusPending {
		o.Status = orders.StatusProcessing
	}
	if err := d.orders.Save(ctx, *o); err != nil {
		respondError(c, err)
		return
	}

	d.finishOrderMutation(c, o.OrderID)
}
