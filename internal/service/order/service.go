package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"farmfresh-market/internal/domain"
	orderrepo "farmfresh-market/internal/repository/order"
	productrepo "farmfresh-market/internal/repository/product"
)

// Sentinel errors for order validation.
var (
	ErrEmptyItems      = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// Service encapsulates order placement and retrieval. It is the durable
// order-persistence boundary the checkout submitter delegates to.
type Service struct {
	products productrepo.Repository
	orders   orderrepo.Repository
}

func New(products productrepo.Repository, orders orderrepo.Repository) *Service {
	return &Service{products: products, orders: orders}
}

// CreateOrder validates the draft, recomputes the total from authoritative
// product prices, persists the order, and returns it with items and product
// snapshots populated. The draft's client-computed total is advisory only;
// the stored total is always the recomputed one.
func (s *Service) CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	if len(draft.Items) == 0 {
		return nil, ErrEmptyItems
	}

	ids := make([]string, len(draft.Items))
	for i, item := range draft.Items {
		if item.Quantity <= 0 {
			return nil, errors.Wrapf(ErrInvalidQuantity, "product %s", item.ProductID)
		}
		ids[i] = item.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	productMap := make(map[string]domain.Product, len(fetched))
	for _, p := range fetched {
		productMap[p.ID] = p
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, len(draft.Items))
	for i, item := range draft.Items {
		p, ok := productMap[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		total = total.Add(p.Price.Mul(qty))

		snapshot := p
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   &snapshot,
		}
	}

	deliveryMethod := draft.DeliveryMethod
	if deliveryMethod == "" {
		deliveryMethod = domain.DeliveryByCourier
	}
	paymentMethod := draft.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentUPI
	}

	o := &domain.Order{
		ID:              uuid.New().String(),
		CustomerID:      draft.CustomerID,
		Items:           items,
		TotalPrice:      total.Round(2),
		Status:          domain.OrderPending,
		DeliveryMethod:  deliveryMethod,
		DeliveryAddress: draft.DeliveryAddress,
		PickupLocation:  draft.PickupLocation,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   domain.PaymentPending,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// ListForUser returns the orders visible to the user: customers see their
// own orders, farmers and vendors see orders containing their products.
func (s *Service) ListForUser(ctx context.Context, userID string, role domain.Role) ([]domain.Order, error) {
	switch role {
	case domain.RoleCustomer:
		return s.orders.ListByCustomer(ctx, userID)
	case domain.RoleFarmer, domain.RoleVendor:
		return s.orders.ListBySeller(ctx, userID)
	default:
		return nil, errors.Errorf("unknown role %q", role)
	}
}
