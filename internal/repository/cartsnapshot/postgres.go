// Package cartsnapshot persists whole-cart snapshots in Postgres: one JSON
// document per key, overwritten on every mutation.
package cartsnapshot

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"farmfresh-market/internal/cart"
	"farmfresh-market/internal/domain"
)

type Repository struct {
	pool *pgxpool.Pool
	lg   *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, lg *zap.Logger) *Repository {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Repository{pool: pool, lg: lg}
}

// Save upserts the snapshot under the key.
func (r *Repository) Save(ctx context.Context, key string, c domain.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	const q = `
INSERT INTO cart_snapshots (key, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, key, data); err != nil {
		return errors.Wrapf(err, "save cart snapshot %q", key)
	}
	return nil
}

// Load returns the stored cart for the key, (nil, nil) when absent. An
// undecodable snapshot (from an older shape) is treated as absent rather
// than surfaced as an error.
func (r *Repository) Load(ctx context.Context, key string) (*domain.Cart, error) {
	const q = `SELECT data FROM cart_snapshots WHERE key = $1`
	var data []byte
	if err := r.pool.QueryRow(ctx, q, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "load cart snapshot %q", key)
	}
	var c domain.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		r.lg.Warn("discarding undecodable cart snapshot", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return &c, nil
}

// Bound adapts the repository to the cart.Snapshots contract by binding a
// request context, so a Store built per request persists through it.
func (r *Repository) Bound(ctx context.Context) cart.Snapshots {
	return boundSnapshots{ctx: ctx, repo: r}
}

type boundSnapshots struct {
	ctx  context.Context
	repo *Repository
}

func (b boundSnapshots) Save(key string, c domain.Cart) error {
	return b.repo.Save(b.ctx, key, c)
}

func (b boundSnapshots) Load(key string) (*domain.Cart, error) {
	return b.repo.Load(b.ctx, key)
}
