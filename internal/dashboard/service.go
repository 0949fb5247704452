// Package dashboard aggregates store-wide stats for the admin overview.
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/damilolajohn6/qwik-trendora-backend/internal/customers"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/orders"
	"github.com/damilolajohn6/qwik-trendora-backend/internal/products"
	"github.com/samber/lo"
)

// Stats is the overview card set.
type Stats struct {
	TotalCustomers int     `json:"totalCustomers"`
	TotalOrders    int     `json:"totalOrders"`
	TotalProducts  int     `json:"totalProducts"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// Trend is one month of completed-payment sales.
type Trend struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	TotalSales float64 `json:"totalSales"`
	OrderCount int     `json:"orderCount"`
}

// Service computes dashboard aggregates by scanning the stores.
type Service struct {
	orders    *orders.Store
	customers *customers.Store
	products  *products.Store
}

func NewService(orderStore *orders.Store, customerStore *customers.Store, productStore *products.Store) *Service {
	return &Service{
		orders:    orderStore,
		customers: customerStore,
		products:  productStore,
	}
}

// Stats returns the overview counters and total revenue across all orders.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	allOrders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	allCustomers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	allProducts, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	revenue := lo.SumBy(allOrders, func(o orders.Order) float64 { return o.TotalAmount })
	return &Stats{
		TotalCustomers: len(allCustomers),
		TotalOrders:    len(allOrders),
		TotalProducts:  len(allProducts),
		TotalRevenue:   revenue,
	}, nil
}

// SalesTrends groups completed-payment orders by (year, month) of their order
// time and returns up to the last 12 months, newest first.
func (s *Service) SalesTrends(ctx context.Context) ([]Trend, error) {
	allOrders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	completed := lo.Filter(allOrders, func(o orders.Order, _ int) bool {
		return o.PaymentStatus == orders.PaymentCompleted
	})
	groups := lo.GroupBy(completed, func(o orders.Order) [2]int {
		return [2]int{o.OrderTime.Year(), int(o.OrderTime.Month())}
	})

	trends := make([]Trend, 0, len(groups))
	for key, monthOrders := range groups {
		trends = append(trends, Trend{
			Year:       key[0],
			Month:      key[1],
			TotalSales: lo.SumBy(monthOrders, func(o orders.Order) float64 { return o.TotalAmount }),
			OrderCount: len(monthOrders),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Year != trends[j].Year {
			return trends[i].Year > trends[j].Year
		}
		return trends[i].Month > trends[j].Month
	})
	if len(trends) > 12 {
		trends = trends[:12]
	}
	return trends, nil
}
