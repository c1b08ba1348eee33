package checkout

import (
	"context"

	"github.com/go-faster/errors"

	"farmfresh-market/internal/cart"
	"farmfresh-market/internal/domain"
)

// DefaultPickupLocation is used when a pickup order names no location.
const DefaultPickupLocation = "Vendor Location"

// Sentinel errors for checkout preconditions.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingAddress = errors.New("delivery address required")
)

// OrderCreator is the external order persistence collaborator. It must
// return an error (not a silent failure) when a product id is unknown, the
// requester is unauthenticated, or the underlying store is unreachable.
type OrderCreator interface {
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
}

// Options are the shopper's checkout choices.
type Options struct {
	CustomerID      string
	DeliveryMethod  domain.DeliveryMethod
	DeliveryAddress string
	PickupLocation  string
	PaymentMethod   domain.PaymentMethod
}

// Submitter converts a cart plus checkout options into a submitted order.
// It makes a single attempt: no retry loop and no partial-failure
// compensation. It is not idempotent; a second Submit before the first
// response resolves would place a second order.
type Submitter struct {
	orders OrderCreator
}

// NewSubmitter creates a Submitter that delegates to the given collaborator.
func NewSubmitter(orders OrderCreator) *Submitter {
	return &Submitter{orders: orders}
}

// Submit builds an OrderDraft from the store's current cart and delegates it
// once to the order collaborator. On success the store is cleared; on any
// failure the store is left untouched so the shopper can retry, and the
// error is surfaced unchanged apart from wrapping.
func (s *Submitter) Submit(ctx context.Context, store *cart.Store, opts Options) (*domain.Order, error) {
	current := store.Cart()
	if len(current.Items) == 0 {
		return nil, ErrEmptyCart
	}

	switch opts.DeliveryMethod {
	case domain.DeliveryByCourier:
		if opts.DeliveryAddress == "" {
			return nil, ErrMissingAddress
		}
	case domain.DeliveryPickup:
		if opts.PickupLocation == "" {
			opts.PickupLocation = DefaultPickupLocation
		}
	}

	// Only id and quantity cross the boundary; the product snapshot stays
	// with the cart. The client-computed total is copied as submitted.
	items := make([]domain.OrderDraftItem, len(current.Items))
	for i, item := range current.Items {
		items[i] = domain.OrderDraftItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	draft := domain.OrderDraft{
		CustomerID:      opts.CustomerID,
		Items:           items,
		TotalPrice:      current.TotalPrice,
		DeliveryMethod:  opts.DeliveryMethod,
		DeliveryAddress: opts.DeliveryAddress,
		PickupLocation:  opts.PickupLocation,
		PaymentMethod:   opts.PaymentMethod,
	}

	order, err := s.orders.CreateOrder(ctx, draft)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	store.Clear()
	return order, nil
}
