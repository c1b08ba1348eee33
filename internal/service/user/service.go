package user

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"farmfresh-market/internal/domain"
	userrepo "farmfresh-market/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password/role do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRole is returned when the requested role is not a marketplace role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrMissingFields is returned when a required registration field is empty.
	ErrMissingFields = errors.New("all fields are required")
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// Service handles registration and login for all three marketplace roles.
type Service struct {
	repo   userrepo.Repository
	tokens *TokenManager
}

func New(repo userrepo.Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Register creates a user with a hashed password and returns it together
// with a signed auth token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	password := strings.TrimSpace(in.Password)
	if name == "" || email == "" || password == "" || in.Role == "" {
		return nil, "", ErrMissingFields
	}
	if !in.Role.Valid() {
		return nil, "", ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "hash password")
	}

	created, err := s.repo.Create(ctx, domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         in.Role,
		Avatar:       avatarBaseURL + url.QueryEscape(name),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login validates credentials and the requested role, returning the user and
// a fresh token. A role mismatch is reported the same as a bad password.
func (s *Service) Login(ctx context.Context, email, password string, role domain.Role) (*domain.User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if u.Role != role {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GetByID returns the user's current profile.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}
