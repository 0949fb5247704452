package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/awsx/awstest"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/customers"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/orders"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/products"
)

func newTestService(t *testing.T) (*Service, *orders.Store, *customers.Store, *products.Store) {
	t.Helper()
	db := awstest.NewDynamo()
	db.AddTable("orders", "order_id")
	db.AddTable("customers", "email")
	db.AddTable("products", "sku")

	orderStore := orders.NewStore(db, "orders")
	customerStore := customers.NewStore(db, "customers")
	productStore := products.NewStore(db, "products")
	return NewService(orderStore, customerStore, productStore), orderStore, customerStore, productStore
}

func seedOrder(t *testing.T, store *orders.Store, id string, amount float64, paymentStatus string, orderTime time.Time) {
	t.Helper()
	err := store.Save(context.Background(), orders.Order{
		OrderID:       id,
		CustomerEmail: "buyer@example.com",
		TotalAmount:   amount,
		Status:        orders.StatusProcessing,
		PaymentStatus: paymentStatus,
		OrderTime:     orderTime,
	})
	require.NoError(t, err)
}

func TestStats(t *testing.T) {
	svc, orderStore, customerStore, productStore := newTestService(t)
	ctx := context.Background()

	require.NoError(t, customerStore.Create(ctx, customers.Customer{Email: "a@example.com"}))
	require.NoError(t, customerStore.Create(ctx, customers.Customer{Email: "b@example.com"}))
	require.NoError(t, productStore.Create(ctx, products.Product{SKU: "p-1", Name: "one", Price: 10, Category: products.CategoryOther}))
	seedOrder(t, orderStore, "o-1", 40, orders.PaymentCompleted, time.Now())
	seedOrder(t, orderStore, "o-2", 25, orders.PaymentPending, time.Now())

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalCustomers)
	require.Equal(t, 2, stats.TotalOrders)
	require.Equal(t, 1, stats.TotalProducts)
	require.Equal(t, 65.0, stats.TotalRevenue)
}

func TestSalesTrendsGroupsCompletedPaymentsByMonth(t *testing.T) {
	svc, orderStore, _, _ := newTestService(t)
	ctx := context.Background()

	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC)
	seedOrder(t, orderStore, "o-1", 100, orders.PaymentCompleted, jan)
	seedOrder(t, orderStore, "o-2", 50, orders.PaymentCompleted, jan)
	seedOrder(t, orderStore, "o-3", 70, orders.PaymentCompleted, feb)
	// pending payments never count toward sales
	seedOrder(t, orderStore, "o-4", 999, orders.PaymentPending, feb)

	trends, err := svc.SalesTrends(ctx)
	require.NoError(t, err)
	require.Len(t, trends, 2)

	// newest first
	require.Equal(t, 2026, trends[0].Year)
	require.Equal(t, int(time.February), trends[0].Month)
	require.Equal(t, 70.0, trends[0].TotalSales)
	require.Equal(t, 1, trends[0].OrderCount)

	require.Equal(t, int(time.January), trends[1].Month)
	require.Equal(t, 150.0, trends[1].TotalSales)
	require.Equal(t, 2, trends[1].OrderCount)
}
