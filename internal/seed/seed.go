package seed

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name        string
	Description string
	Price       string
	Unit        string
	Quantity    int
	ImageURL    string
	Category    string
	Organic     bool
}

// Apply inserts demo data for manual testing: one farmer account plus a
// couple of listings. It is idempotent: the farmer upserts by email and a
// listing is only inserted when the farmer has no product of that name yet.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	farmerID, err := ensureFarmer(ctx, pool, "Green Valley Farm", "farmer@greenvalley.example", "harvest-time")
	if err != nil {
		return errors.Wrap(err, "ensure farmer")
	}

	products := []productSeed{
		{
			Name:        "Organic Carrots",
			Description: "Crunchy orange carrots pulled this morning",
			Price:       "2.99",
			Unit:        "bunch",
			Quantity:    50,
			ImageURL:    "https://images.pexels.com/photos/143133/pexels-photo-143133.jpeg",
			Category:    "vegetables",
			Organic:     true,
		},
		{
			Name:        "Fresh Strawberries",
			Description: "Sweet strawberries picked at peak ripeness",
			Price:       "4.99",
			Unit:        "lb",
			Quantity:    30,
			ImageURL:    "https://images.pexels.com/photos/46174/strawberries-berries-fruit-freshness-46174.jpeg",
			Category:    "fruits",
			Organic:     true,
		},
	}

	for _, p := range products {
		if err := ensureProduct(ctx, pool, farmerID, p); err != nil {
			return errors.Wrapf(err, "ensure product %s", p.Name)
		}
	}

	return nil
}

func ensureFarmer(ctx context.Context, pool *pgxpool.Pool, name, email, password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}

	const q = `
INSERT INTO users (name, email, password_hash, role, location, avatar)
VALUES ($1, $2, $3, 'farmer', 'Sonoma, CA', $4)
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	avatar := "https://api.dicebear.com/7.x/avataaars/svg?seed=" + name

	var id string
	if err := pool.QueryRow(ctx, q, name, email, string(hashed), avatar).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, farmerID string, p productSeed) error {
	const q = `
INSERT INTO products (name, description, price, unit, quantity, image_url, category, organic, farmer_id)
SELECT $1, $2, $3::numeric, $4, $5, $6, $7, $8, $9::uuid
WHERE NOT EXISTS (
    SELECT 1 FROM products WHERE farmer_id = $9::uuid AND name = $1
)
`
	_, err := pool.Exec(ctx, q,
		p.Name, p.Description, p.Price, p.Unit, p.Quantity,
		p.ImageURL, p.Category, p.Organic, farmerID,
	)
	return err
}
