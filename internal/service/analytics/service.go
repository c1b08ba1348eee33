package analytics

import (
	"context"

	"github.com/shopspring/decimal"

	orderrepo "farmfresh-market/internal/repository/order"
)

// SellerDashboard holds the numbers shown on a farmer's or vendor's
// dashboard.
type SellerDashboard struct {
	TotalSales     decimal.Decimal
	ActiveProducts int
	TotalCustomers int
	OrdersCount    int
}

// Service aggregates order data into dashboard figures.
type Service struct {
	orders orderrepo.Repository
}

func New(orders orderrepo.Repository) *Service {
	return &Service{orders: orders}
}

// SellerDashboard computes dashboard figures for a seller. Vendors reuse the
// farmer aggregation: both are keyed by product ownership.
func (s *Service) SellerDashboard(ctx context.Context, sellerID string) (*SellerDashboard, error) {
	stats, err := s.orders.SellerStats(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return &SellerDashboard{
		TotalSales:     stats.TotalSales,
		ActiveProducts: stats.ActiveProducts,
		TotalCustomers: stats.TotalCustomers,
		OrdersCount:    stats.OrdersCount,
	}, nil
}
