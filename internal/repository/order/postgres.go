package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"farmfresh-market/internal/domain"
)

const orderColumns = `
o.id::text, o.customer_id::text, o.total_price, o.status, o.delivery_method,
o.delivery_address, o.pickup_location, o.payment_method, o.payment_status,
o.created_at, o.updated_at`

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

func (r *postgresRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx)

	const orderQ = `
INSERT INTO orders (id, customer_id, total_price, status, delivery_method,
                    delivery_address, pickup_location, payment_method, payment_status)
VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at, updated_at
`
	err = tx.QueryRow(ctx, orderQ,
		o.ID,
		o.CustomerID,
		o.TotalPrice,
		o.Status,
		o.DeliveryMethod,
		o.DeliveryAddress,
		o.PickupLocation,
		o.PaymentMethod,
		o.PaymentStatus,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "insert order %q", o.ID)
	}

	const itemQ = `
INSERT INTO order_items (order_id, product_id, quantity)
VALUES ($1::uuid, $2::uuid, $3)
RETURNING id::text
`
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		if err := tx.QueryRow(ctx, itemQ, o.ID, item.ProductID, item.Quantity).Scan(&item.ID); err != nil {
			return errors.Wrapf(err, "insert order item %q", item.ProductID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	r.lg.Info("created order",
		zap.String("id", o.ID),
		zap.String("customer_id", o.CustomerID),
		zap.Int("items", len(o.Items)))
	return nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders o
WHERE o.customer_id = $1::uuid
ORDER BY o.created_at DESC
`
	return r.listOrders(ctx, q, customerID)
}

func (r *postgresRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders o
WHERE EXISTS (
    SELECT 1
    FROM order_items oi
    JOIN products p ON p.id = oi.product_id
    WHERE oi.order_id = o.id AND p.farmer_id = $1::uuid
)
ORDER BY o.created_at DESC
`
	return r.listOrders(ctx, q, sellerID)
}

func (r *postgresRepo) SellerStats(ctx context.Context, sellerID string) (*SellerStats, error) {
	const q = `
SELECT COALESCE(SUM(oi.quantity * p.price), 0),
       COUNT(DISTINCT o.customer_id),
       COUNT(DISTINCT o.id)
FROM order_items oi
JOIN products p ON p.id = oi.product_id
JOIN orders o ON o.id = oi.order_id
WHERE p.farmer_id = $1::uuid
`
	var stats SellerStats
	err := r.pool.QueryRow(ctx, q, sellerID).Scan(
		&stats.TotalSales,
		&stats.TotalCustomers,
		&stats.OrdersCount,
	)
	if err != nil {
		return nil, errors.Wrap(err, "seller order stats")
	}

	const productsQ = `
SELECT COUNT(*) FROM products WHERE farmer_id = $1::uuid AND quantity > 0
`
	if err := r.pool.QueryRow(ctx, productsQ, sellerID).Scan(&stats.ActiveProducts); err != nil {
		return nil, errors.Wrap(err, "seller product stats")
	}
	return &stats, nil
}

func (r *postgresRepo) listOrders(ctx context.Context, q string, arg string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var orders []domain.Order
	ids := make([]string, 0, 8)
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(
			&o.ID,
			&o.CustomerID,
			&o.TotalPrice,
			&o.Status,
			&o.DeliveryMethod,
			&o.DeliveryAddress,
			&o.PickupLocation,
			&o.PaymentMethod,
			&o.PaymentStatus,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		o.Items = []domain.OrderItem{}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	byOrder := make(map[string][]domain.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		if its, ok := byOrder[orders[i].ID]; ok {
			orders[i].Items = its
		}
	}
	return orders, nil
}

// itemsForOrders fetches line items with their product snapshots in one
// query to avoid per-order round trips.
func (r *postgresRepo) itemsForOrders(ctx context.Context, orderIDs []string) ([]domain.OrderItem, error) {
	const q = `
SELECT oi.id::text, oi.order_id::text, oi.product_id::text, oi.quantity,
       p.id::text, p.name, p.description, p.price, p.unit, p.quantity, p.image_url,
       p.category, p.harvest_date, p.location, p.organic, p.farmer_id::text, u.name,
       p.created_at, p.updated_at
FROM order_items oi
JOIN products p ON p.id = oi.product_id
JOIN users u ON u.id = p.farmer_id
WHERE oi.order_id = ANY($1::uuid[])
`
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		return nil, errors.Wrap(err, "list order items")
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item domain.OrderItem
			p    domain.Product
		)
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
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
		item.Product = &p
		items = append(items, item)
	}
	return items, rows.Err()
}
