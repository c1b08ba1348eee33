package user

import (
	"context"

	"github.com/go-faster/errors"

	"farmfresh-market/internal/domain"
)

// ErrEmailTaken indicates a user already exists with the given email.
var ErrEmailTaken = errors.New("email already registered")

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
