package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"farmfresh-market/internal/cart"
	"farmfresh-market/internal/domain"
	analyticssvc "farmfresh-market/internal/service/analytics"
	productsvc "farmfresh-market/internal/service/product"
	usersvc "farmfresh-market/internal/service/user"
)

// UserService is the auth surface the handlers need.
type UserService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string, role domain.Role) (*domain.User, string, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// ProductService is the catalog surface the handlers need.
type ProductService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, farmerID string, in productsvc.CreateInput) (*domain.Product, error)
}

// OrderService is the order persistence collaborator: the same interface the
// checkout submitter delegates to, plus listing.
type OrderService interface {
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string, role domain.Role) ([]domain.Order, error)
}

// AnalyticsService computes dashboard figures.
type AnalyticsService interface {
	SellerDashboard(ctx context.Context, sellerID string) (*analyticssvc.SellerDashboard, error)
}

// SnapshotStore yields a cart.Snapshots bound to a request context, so each
// request builds its cart store against durable per-customer snapshots.
type SnapshotStore interface {
	Bound(ctx context.Context) cart.Snapshots
}

// Deps bundles everything the router needs.
type Deps struct {
	Users     UserService
	Products  ProductService
	Orders    OrderService
	Analytics AnalyticsService
	Snapshots SnapshotStore
	Tokens    *usersvc.TokenManager
}

// CORSOptions controls the CORS middleware.
type CORSOptions struct {
	Origins          []string
	AllowCredentials bool
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	lg         *zap.Logger
}

// New builds a Server with all API routes wired.
func New(addr string, lg *zap.Logger, pool *pgxpool.Pool, deps Deps, corsOpts CORSOptions) *Server {
	router := buildRouter(lg, pool, deps, corsOpts)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      20 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		lg: lg,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
