package user

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"farmfresh-market/internal/domain"
)

const userColumns = `
id::text, name, email, password_hash, role, location, phone, avatar, created_at, updated_at`

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

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (id, name, email, password_hash, role, location, phone, avatar)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at, updated_at
`
	created := u
	created.Email = strings.ToLower(u.Email)
	err := r.pool.QueryRow(ctx, q,
		u.ID,
		u.Name,
		created.Email,
		u.PasswordHash,
		u.Role,
		u.Location,
		u.Phone,
		u.Avatar,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrapf(err, "create user %q", u.Email)
	}
	r.lg.Info("created user", zap.String("id", created.ID), zap.String("role", string(created.Role)))
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1::uuid`
	return r.scanOne(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, q, strings.ToLower(email)))
}

func (r *postgresRepo) scanOne(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Location,
		&u.Phone,
		&u.Avatar,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
