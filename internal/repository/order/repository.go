package order

import (
	"context"

	"github.com/shopspring/decimal"

	"farmfresh-market/internal/domain"
)

// SellerStats aggregates a farmer's (or vendor's) order activity for the
// dashboard.
type SellerStats struct {
	TotalSales     decimal.Decimal
	ActiveProducts int
	TotalCustomers int
	OrdersCount    int
}

type Repository interface {
	// Create persists the order and its items atomically.
	Create(ctx context.Context, o *domain.Order) error
	// ListByCustomer returns the customer's orders, newest first, with items
	// and product snapshots populated.
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	// ListBySeller returns orders containing at least one of the seller's
	// products, newest first.
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Order, error)
	// SellerStats aggregates dashboard numbers for a seller.
	SellerStats(ctx context.Context, sellerID string) (*SellerStats, error)
}
