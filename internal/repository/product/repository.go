package product

import (
	"context"

	"farmfresh-market/internal/domain"
)

type Repository interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}
