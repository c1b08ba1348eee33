package product

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"farmfresh-market/internal/domain"
	productrepo "farmfresh-market/internal/repository/product"
	userrepo "farmfresh-market/internal/repository/user"
)

// ErrMissingFields is returned when a required product field is empty.
var ErrMissingFields = errors.New("all required fields must be provided")

// DefaultImageURL is used when a new listing carries no image.
const DefaultImageURL = "https://images.pexels.com/photos/1327838/pexels-photo-1327838.jpeg"

type Service struct {
	repo  productrepo.Repository
	users userrepo.Repository
}

func New(repo productrepo.Repository, users userrepo.Repository) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// CreateInput captures the fields of a new listing.
type CreateInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	Organic     bool            `json:"organic"`
}

// Create lists a new product for the farmer. Location and display name come
// from the farmer's profile; the harvest date defaults to now.
func (s *Service) Create(ctx context.Context, farmerID string, in CreateInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Unit) == "" ||
		strings.TrimSpace(in.Category) == "" ||
		in.Price.IsZero() || in.Quantity <= 0 {
		return nil, ErrMissingFields
	}
	if in.Price.IsNegative() {
		return nil, errors.New("price must not be negative")
	}

	farmer, err := s.users.GetByID(ctx, farmerID)
	if err != nil {
		return nil, errors.Wrap(err, "get farmer")
	}

	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = DefaultImageURL
	}
	location := farmer.Location
	if location == "" {
		location = "Unknown Location"
	}

	created, err := s.repo.Create(ctx, domain.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Unit:        in.Unit,
		Quantity:    in.Quantity,
		ImageURL:    imageURL,
		Category:    in.Category,
		HarvestDate: time.Now().UTC(),
		Location:    location,
		Organic:     in.Organic,
		FarmerID:    farmer.ID,
		FarmerName:  farmer.Name,
	})
	if err != nil {
		return nil, err
	}
	created.FarmerName = farmer.Name
	return created, nil
}
