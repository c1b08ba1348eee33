package httpserver

import (
	"time"

	"farmfresh-market/internal/domain"
)

// API DTOs. Prices cross the wire as JSON numbers.

type apiUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

type apiProduct struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Unit        string    `json:"unit"`
	Quantity    int       `json:"quantity"`
	ImageURL    string    `json:"imageUrl"`
	Category    string    `json:"category"`
	HarvestDate time.Time `json:"harvestDate"`
	Location    string    `json:"location"`
	Organic     bool      `json:"organic"`
	FarmerID    string    `json:"farmerId"`
	FarmerName  string    `json:"farmerName"`
}

type apiCartItem struct {
	ProductID string     `json:"productId"`
	Product   apiProduct `json:"product"`
	Quantity  int        `json:"quantity"`
}

type apiCart struct {
	Items      []apiCartItem `json:"items"`
	TotalPrice float64       `json:"totalPrice"`
}

type apiOrderItem struct {
	ID        string      `json:"id"`
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	Product   *apiProduct `json:"product,omitempty"`
}

type apiOrder struct {
	ID              string         `json:"id"`
	CustomerID      string         `json:"customerId"`
	Items           []apiOrderItem `json:"items"`
	TotalPrice      float64        `json:"totalPrice"`
	Status          string         `json:"status"`
	DeliveryMethod  string         `json:"deliveryMethod"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	PickupLocation  string         `json:"pickupLocation,omitempty"`
	PaymentMethod   string         `json:"paymentMethod"`
	PaymentStatus   string         `json:"paymentStatus"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func toAPIUser(u *domain.User) apiUser {
	return apiUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
		Avatar: u.Avatar,
	}
}

func toAPIProduct(p domain.Product) apiProduct {
	return apiProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Unit:        p.Unit,
		Quantity:    p.Quantity,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		HarvestDate: p.HarvestDate,
		Location:    p.Location,
		Organic:     p.Organic,
		FarmerID:    p.FarmerID,
		FarmerName:  p.FarmerName,
	}
}

func toAPIProducts(ps []domain.Product) []apiProduct {
	out := make([]apiProduct, 0, len(ps))
	for _, p := range ps {
		out = append(out, toAPIProduct(p))
	}
	return out
}

func toAPICart(c domain.Cart) apiCart {
	items := make([]apiCartItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, apiCartItem{
			ProductID: it.ProductID,
			Product:   toAPIProduct(it.Product),
			Quantity:  it.Quantity,
		})
	}
	return apiCart{Items: items, TotalPrice: c.TotalPrice.InexactFloat64()}
}

func toAPIOrder(o *domain.Order) apiOrder {
	items := make([]apiOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		item := apiOrderItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		}
		if it.Product != nil {
			p := toAPIProduct(*it.Product)
			item.Product = &p
		}
		items = append(items, item)
	}
	return apiOrder{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		Items:           items,
		TotalPrice:      o.TotalPrice.InexactFloat64(),
		Status:          string(o.Status),
		DeliveryMethod:  string(o.DeliveryMethod),
		DeliveryAddress: o.DeliveryAddress,
		PickupLocation:  o.PickupLocation,
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		CreatedAt:       o.CreatedAt,
	}
}

func toAPIOrders(orders []domain.Order) []apiOrder {
	out := make([]apiOrder, 0, len(orders))
	for i := range orders {
		out = append(out, toAPIOrder(&orders[i]))
	}
	return out
}
