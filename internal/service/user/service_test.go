package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"farmfresh-market/internal/domain"
	userrepo "farmfresh-market/internal/repository/user"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: map[string]*domain.User{},
		byID:    map[string]*domain.User{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, userrepo.ErrEmailTaken
	}
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = &u
	f.byID[u.ID] = &u
	return &u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return New(repo, NewTokenManager([]byte("test-secret"), time.Hour)), repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestService()

	u, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Green Valley Farm",
		Email:    "Farm@Example.com",
		Password: "supersecret",
		Role:     domain.RoleFarmer,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "farm@example.com", u.Email, "email is lowercased")
	assert.NotEqual(t, "supersecret", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("supersecret")))
	assert.Contains(t, u.Avatar, "dicebear.com")

	stored, err := repo.GetByEmail(context.Background(), "farm@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name    string
		in      RegisterInput
		wantErr error
	}{
		{
			name:    "missing name",
			in:      RegisterInput{Email: "a@b.c", Password: "supersecret", Role: domain.RoleCustomer},
			wantErr: ErrMissingFields,
		},
		{
			name:    "missing password",
			in:      RegisterInput{Name: "A", Email: "a@b.c", Role: domain.RoleCustomer},
			wantErr: ErrMissingFields,
		},
		{
			name:    "unknown role",
			in:      RegisterInput{Name: "A", Email: "a@b.c", Password: "supersecret", Role: "admin"},
			wantErr: ErrInvalidRole,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Only presence is validated; there is no length floor.
	t.Run("short password accepted", func(t *testing.T) {
		_, token, err := svc.Register(context.Background(), RegisterInput{
			Name: "A", Email: "short@b.c", Password: "short", Role: domain.RoleCustomer,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	in := RegisterInput{Name: "A", Email: "a@b.c", Password: "supersecret", Role: domain.RoleCustomer}

	_, _, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, userrepo.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "A", Email: "a@b.c", Password: "supersecret", Role: domain.RoleCustomer,
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		u, token, err := svc.Login(context.Background(), "a@b.c", "supersecret", domain.RoleCustomer)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "a@b.c", u.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "a@b.c", "nope-nope", domain.RoleCustomer)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("role mismatch reads like bad password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "a@b.c", "supersecret", domain.RoleFarmer)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "missing@b.c", "supersecret", domain.RoleCustomer)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
