package domain

import "github.com/shopspring/decimal"

// CartItem is one product's quantity entry within a Cart. ProductID is the
// unique key within a cart; Product is the snapshot captured when the item
// was first added.
type CartItem struct {
	ProductID string  `json:"productId"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
}

// Cart is the session-scoped collection of product selections pending
// purchase. Items keep insertion order for display. TotalPrice always equals
// the sum of price*quantity over Items.
type Cart struct {
	Items      []CartItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}
