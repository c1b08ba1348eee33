package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"farmfresh-market/internal/domain"
)

const productColumns = `
p.id::text, p.name, p.description, p.price, p.unit, p.quantity, p.image_url,
p.category, p.harvest_date, p.location, p.organic, p.farmer_id::text, u.name,
p.created_at, p.updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
	lg   *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, lg *zap.Logger) Repository {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &postgresRepo{pool: pool, lg: lg}
}

func (r *postgresRepo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products p
JOIN users u ON u.id = p.farmer_id
WHERE ($1 = '' OR p.category = $1)
  AND ($2 = '' OR p.name ILIKE '%' || $2 || '%' OR p.description ILIKE '%' || $2 || '%')
  AND (NOT $3 OR p.organic)
ORDER BY p.created_at DESC
`
	category := filter.Category
	if category == "all" {
		category = ""
	}
	rows, err := r.pool.Query(ctx, q, category, filter.Search, filter.Organic)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	result, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	r.lg.Debug("listed products", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products p
JOIN users u ON u.id = p.farmer_id
WHERE p.id = $1::uuid
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return p, nil
}

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products p
JOIN users u ON u.id = p.farmer_id
WHERE p.id = ANY($1::uuid[])
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products by ids")
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, description, price, unit, quantity, image_url, category,
                      harvest_date, location, organic, farmer_id)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::uuid)
RETURNING created_at, updated_at
`
	created := p
	err := r.pool.QueryRow(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Unit,
		p.Quantity,
		p.ImageURL,
		p.Category,
		p.HarvestDate,
		p.Location,
		p.Organic,
		p.FarmerID,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "create product %q", p.Name)
	}
	r.lg.Info("created product",
		zap.String("id", created.ID),
		zap.String("name", created.Name),
		zap.String("farmer_id", created.FarmerID))
	return &created, nil
}

func (r *postgresRepo) Categories(ctx context.Context) ([]string, error) {
	const q = `
SELECT DISTINCT category
FROM products
WHERE category <> ''
ORDER BY category
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Unit,
		&p.Quantity,
		&p.ImageURL,
		&p.Category,
		&p.HarvestDate,
		&p.Location,
		&p.Organic,
		&p.FarmerID,
		&p.FarmerName,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
