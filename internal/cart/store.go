package cart

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"farmfresh-market/internal/domain"
)

// DefaultKey is the fixed application-wide snapshot key used for a local
// single-shopper cart. Server-held carts append a user suffix to it.
const DefaultKey = "farmFreshCart"

// Snapshots persists whole-cart snapshots under a key. Load returns
// (nil, nil) when no snapshot exists for the key.
type Snapshots interface {
	Save(key string, cart domain.Cart) error
	Load(key string) (*domain.Cart, error)
}

// Store owns the in-session cart state and guarantees the total price
// invariant: after every mutation TotalPrice equals the sum of
// price*quantity over all items.
//
// All mutation goes through the command methods below. A Store is owned by a
// single goroutine (one user action at a time); it takes no locks.
type Store struct {
	key   string
	snaps Snapshots
	lg    *zap.Logger
	cart  domain.Cart
}

// NewStore creates a Store bound to a snapshot key. A prior snapshot under
// the key is adopted as the initial state when present and well-formed; a
// missing or undecodable snapshot yields an empty cart. No validation
// against live product data happens at load time, so a stale price or stock
// figure is accepted as-is until the item is touched again.
func NewStore(key string, snaps Snapshots, lg *zap.Logger) *Store {
	if lg == nil {
		lg = zap.NewNop()
	}
	s := &Store{
		key:   key,
		snaps: snaps,
		lg:    lg,
		cart:  domain.Cart{Items: []domain.CartItem{}, TotalPrice: decimal.Zero},
	}
	if snaps == nil {
		return s
	}
	prior, err := snaps.Load(key)
	if err != nil {
		lg.Warn("cart snapshot load failed, starting empty",
			zap.String("key", key), zap.Error(err))
		return s
	}
	if prior != nil {
		if prior.Items == nil {
			prior.Items = []domain.CartItem{}
		}
		s.cart = *prior
		// Stored totals are not trusted across schema changes.
		s.cart.TotalPrice = totalOf(s.cart.Items)
	}
	return s
}

// Cart returns a copy of the current cart state.
func (s *Store) Cart() domain.Cart {
	items := make([]domain.CartItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return domain.Cart{Items: items, TotalPrice: s.cart.TotalPrice}
}

// Add merges quantity into the existing line for the product, or appends a
// new line at the end so insertion order is preserved for display. Quantity
// is assumed positive; clamping against available stock is the caller's
// input-boundary concern.
func (s *Store) Add(product domain.Product, quantity int) {
	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == product.ID {
			s.cart.Items[i].Quantity += quantity
			s.commit()
			return
		}
	}
	s.cart.Items = append(s.cart.Items, domain.CartItem{
		ProductID: product.ID,
		Product:   product,
		Quantity:  quantity,
	})
	s.commit()
}

// Remove deletes the line for productID. Removing an id that is not in the
// cart is a no-op, not an error.
func (s *Store) Remove(productID string) {
	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == productID {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			s.commit()
			return
		}
	}
}

// UpdateQuantity replaces the line's quantity in place, keeping its
// position. A non-positive quantity means removal, exactly as Remove.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.Remove(productID)
		return
	}
	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == productID {
			s.cart.Items[i].Quantity = quantity
			s.commit()
			return
		}
	}
}

// Clear resets to an empty item sequence and a zero total. Used after a
// successful checkout.
func (s *Store) Clear() {
	s.cart.Items = []domain.CartItem{}
	s.commit()
}

// commit recomputes the total from scratch and persists the full snapshot.
// The full recompute is deliberate: incremental updates could drift.
func (s *Store) commit() {
	s.cart.TotalPrice = totalOf(s.cart.Items)
	if s.snaps == nil {
		return
	}
	if err := s.snaps.Save(s.key, s.cart); err != nil {
		// Persistence is best-effort; the in-memory cart stays authoritative.
		s.lg.Warn("cart snapshot save failed", zap.String("key", s.key), zap.Error(err))
	}
}

func totalOf(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		total = total.Add(item.Product.Price.Mul(qty))
	}
	return total
}
