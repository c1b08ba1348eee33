package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item listed by a farmer. The cart holds an immutable
// snapshot of it captured at add-time, so a Product value must stay a plain
// record with no behaviour.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Category    string          `json:"category,omitempty"`
	HarvestDate time.Time       `json:"harvestDate"`
	Location    string          `json:"location,omitempty"`
	Organic     bool            `json:"organic"`
	FarmerID    string          `json:"farmerId"`
	FarmerName  string          `json:"farmerName,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductFilter narrows catalog listings. Zero values mean "no filter";
// Category "all" is treated the same as empty.
type ProductFilter struct {
	Category string
	Search   string
	Organic  bool
}
