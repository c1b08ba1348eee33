package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"farmfresh-market/internal/cart"
	"farmfresh-market/internal/domain"
	analyticssvc "farmfresh-market/internal/service/analytics"
	productsvc "farmfresh-market/internal/service/product"
	usersvc "farmfresh-market/internal/service/user"
)

type stubUsers struct {
	user  *domain.User
	token string
	err   error
}

func (s *stubUsers) Register(_ context.Context, _ usersvc.RegisterInput) (*domain.User, string, error) {
	return s.user, s.token, s.err
}

func (s *stubUsers) Login(_ context.Context, _, _ string, _ domain.Role) (*domain.User, string, error) {
	return s.user, s.token, s.err
}

func (s *stubUsers) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.err
}

type stubProducts struct {
	products []domain.Product
	product  *domain.Product
	created  *domain.Product
	err      error
}

func (s *stubProducts) List(_ context.Context, _ domain.ProductFilter) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProducts) Get(_ context.Context, _ string) (*domain.Product, error) {
	if s.product == nil && s.err == nil {
		return nil, domain.ErrNotFound
	}
	return s.product, s.err
}

func (s *stubProducts) Categories(_ context.Context) ([]string, error) {
	return []string{"vegetables", "fruits"}, s.err
}

func (s *stubProducts) Create(_ context.Context, _ string, _ productsvc.CreateInput) (*domain.Product, error) {
	return s.created, s.err
}

type stubOrders struct {
	order     *domain.Order
	orders    []domain.Order
	err       error
	lastDraft domain.OrderDraft
	calls     int
}

func (s *stubOrders) CreateOrder(_ context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	s.calls++
	s.lastDraft = draft
	return s.order, s.err
}

func (s *stubOrders) ListForUser(_ context.Context, _ string, _ domain.Role) ([]domain.Order, error) {
	return s.orders, s.err
}

type stubAnalytics struct {
	dashboard *analyticssvc.SellerDashboard
	err       error
}

func (s *stubAnalytics) SellerDashboard(_ context.Context, _ string) (*analyticssvc.SellerDashboard, error) {
	return s.dashboard, s.err
}

// memSnapshotStore is both the store and the Snapshots it vends.
type memSnapshotStore struct {
	data map[string]domain.Cart
}

func newMemSnapshotStore() *memSnapshotStore {
	return &memSnapshotStore{data: map[string]domain.Cart{}}
}

func (m *memSnapshotStore) Bound(_ context.Context) cart.Snapshots { return m }

func (m *memSnapshotStore) Save(key string, c domain.Cart) error {
	m.data[key] = c
	return nil
}

func (m *memSnapshotStore) Load(key string) (*domain.Cart, error) {
	c, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func testTokens() *usersvc.TokenManager {
	return usersvc.NewTokenManager([]byte("router-test-secret"), time.Hour)
}

func issueToken(t *testing.T, tokens *usersvc.TokenManager, id string, role domain.Role) string {
	t.Helper()
	token, err := tokens.Issue(&domain.User{ID: id, Email: id + "@example.com", Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func testDeps() (Deps, *stubOrders, *memSnapshotStore) {
	carrots := domain.Product{
		ID:       "prod-1",
		Name:     "Organic Carrots",
		Price:    decimal.RequireFromString("2.99"),
		Unit:     "bunch",
		Quantity: 50,
		Category: "vegetables",
	}
	orders := &stubOrders{
		order: &domain.Order{
			ID:         "order-1",
			CustomerID: "cust-1",
			TotalPrice: decimal.RequireFromString("5.98"),
			Status:     domain.OrderPending,
		},
	}
	snaps := newMemSnapshotStore()
	deps := Deps{
		Users: &stubUsers{
			user:  &domain.User{ID: "cust-1", Name: "Test", Email: "test@example.com", Role: domain.RoleCustomer},
			token: "issued-token",
		},
		Products:  &stubProducts{products: []domain.Product{carrots}, product: &carrots},
		Orders:    orders,
		Analytics: &stubAnalytics{dashboard: &analyticssvc.SellerDashboard{}},
		Snapshots: snaps,
		Tokens:    testTokens(),
	}
	return deps, orders, snaps
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return buildRouter(zap.NewNop(), nil, deps, CORSOptions{})
}

func doJSON(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	deps, _, _ := testDeps()
	router := newTestRouter(t, deps)

	for _, path := range []string{"/healthz", "/api/health"} {
		rec := doJSON(router, http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestUnknownRoute_NotFound(t *testing.T) {
	deps, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodGet, "/api/nonsense", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Route not found") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRegister_Created(t *testing.T) {
	deps, _, _ := testDeps()
	router := newTestRouter(t, deps)

	body := `{"name":"Test","email":"test@example.com","password":"longenough","role":"customer"}`
	rec := doJSON(router, http.MethodPost, "/api/auth/register", body, "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"token":"issued-token"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	deps, _, _ := testDeps()
	deps.Users = &stubUsers{err: usersvc.ErrInvalidCredentials}
	router := newTestRouter(t, deps)

	body := `{"email":"test@example.com","password":"wrong","role":"customer"}`
	rec := doJSON(router, http.MethodPost, "/api/auth/login", body, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestListProducts_Public(t *testing.T) {
	deps, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodGet, "/api/products", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Organic Carrots") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	// Field names the frontend reads.
	if !strings.Contains(rec.Body.String(), `"imageUrl":`) {
		t.Fatalf("expected imageUrl field, body: %s", rec.Body.String())
	}
	for _, field := range []string{`"harvestDate":`, `"farmerId":`, `"farmerName":`} {
		if !strings.Contains(rec.Body.String(), field) {
			t.Fatalf("expected %s field, body: %s", field, rec.Body.String())
		}
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	deps, _, _ := testDeps()
	deps.Products = &stubProducts{}
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodGet, "/api/products/missing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCart_RequiresToken(t *testing.T) {
	deps, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodGet, "/api/cart", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodGet, "/api/cart", "", "not-a-token")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for bad token, got %d", rec.Code)
	}
}

func TestCart_AddAndGet(t *testing.T) {
	deps, _, snaps := testDeps()
	router := newTestRouter(t, deps)
	token := issueToken(t, deps.Tokens, "cust-1", domain.RoleCustomer)

	rec := doJSON(router, http.MethodPost, "/api/cart/items", `{"productId":"prod-1","quantity":2}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"totalPrice":5.98`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	// Persisted under the per-user key and readable on the next request.
	if _, ok := snaps.data["farmFreshCart:cust-1"]; !ok {
		t.Fatalf("expected snapshot saved, have keys %v", snaps.data)
	}
	rec = doJSON(router, http.MethodGet, "/api/cart", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"quantity":2`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCart_AddClampsToStock(t *testing.T) {
	deps, _, _ := testDeps()
	router := newTestRouter(t, deps)
	token := issueToken(t, deps.Tokens, "cust-1", domain.RoleCustomer)

	rec := doJSON(router, http.MethodPost, "/api/cart/items", `{"productId":"prod-1","quantity":500}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"quantity":50`) {
		t.Fatalf("expected clamp to stock, body: %s", rec.Body.String())
	}

	// Already at stock: a further add is rejected.
	rec = doJSON(router, http.MethodPost, "/api/cart/items", `{"productId":"prod-1","quantity":1}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCart_UpdateRemoveClear(t *testing.T) {
	deps, _, snaps := testDeps()
	router := newTestRouter(t, deps)
	token := issueToken(t, deps.Tokens, "cust-1", domain.RoleCustomer)

	doJSON(router, http.MethodPost, "/api/cart/items", `{"productId":"prod-1","quantity":2}`, token)

	rec := doJSON(router, http.MethodPatch, "/api/cart/items/prod-1", `{"quantity":3}`, token)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"quantity":3`) {
		t.Fatalf("update: got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(router, http.MethodDelete, "/api/cart/items/prod-1", "", token)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("remove: got %d body=%s", rec.Code, rec.Body.String())
	}

	doJSON(router, http.MethodPost, "/api/cart/items", `{"productId":"prod-1","quantity":1}`, token)
	rec = doJSON(router, http.MethodDelete, "/api/cart", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear: got %d", rec.Code)
	}
	if saved := snaps.data["farmFreshCart:cust-1"]; len(saved.Items) != 0 {
		t.Fatalf("expected empty snapshot after clear, got %d items", len(saved.Items))
	}
}

func TestCheckout_SubmitsAndClears(t *testing.T) {
	deps, orders, snaps := testDeps()
	router := newTestRouter(t, deps)
	token := issueToken(t, deps.Tokens, "cust-1", domain.RoleCustomer)

	doJSON(router, http.MethodPost, "/api/cart/items", `{"productId":"prod-1","quantity":2}`, token)

	body := `{"deliveryMethod":"delivery","deliveryAddress":"12 Main St","paymentMethod":"upi"}`
	rec := doJSON(router, http.MethodPost, "/api/cart/checkout", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if orders.calls != 1 {
		t.Fatalf("expected one order submission, got %d", orders.calls)
	}
	if orders.lastDraft.CustomerID != "cust-1" || len(orders.lastDraft.Items) != 1 {
		t.Fatalf("unexpected draft: %+v", orders.lastDraft)
	}
	if saved := snaps.data["farmFreshCart:cust-1"]; len(saved.Items) != 0 {
		t.Fatalf("expected cart cleared after checkout, got %d items", len(saved.Items))
	}
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	deps, orders, _ := testDeps()
	router := newTestRouter(t, deps)
	token := issueToken(t, deps.Tokens, "cust-1", domain.RoleCustomer)

	body := `{"deliveryMethod":"pickup"}`
	rec := doJSON(router, http.MethodPost, "/api/cart/checkout", body, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	if orders.calls != 0 {
		t.Fatalf("expected no order submission, got %d", orders.calls)
	}
}

func TestCheckout_FailureKeepsCart(t *testing.T) {
	deps, orders, snaps := testDeps()
	orders.order = nil
	orders.err = errors.New("store unreachable")
	router := newTestRouter(t, deps)
	token := issueToken(t, deps.Tokens, "cust-1", domain.RoleCustomer)

	doJSON(router, http.MethodPost, "/api/cart/items", `{"productId":"prod-1","quantity":2}`, token)

	body := `{"deliveryMethod":"delivery","deliveryAddress":"12 Main St"}`
	rec := doJSON(router, http.MethodPost, "/api/cart/checkout", body, token)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", rec.Code, rec.Body.String())
	}
	if saved := snaps.data["farmFreshCart:cust-1"]; len(saved.Items) != 1 {
		t.Fatalf("expected cart kept after failure, got %d items", len(saved.Items))
	}
}

func TestCreateProduct_FarmersOnly(t *testing.T) {
	deps, _, _ := testDeps()
	deps.Products = &stubProducts{created: &domain.Product{ID: "new", Name: "Beets"}}
	router := newTestRouter(t, deps)

	body := `{"name":"Beets","description":"fresh","price":"1.50","unit":"bunch","quantity":5,"category":"vegetables"}`

	customer := issueToken(t, deps.Tokens, "cust-1", domain.RoleCustomer)
	rec := doJSON(router, http.MethodPost, "/api/products", body, customer)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}

	farmer := issueToken(t, deps.Tokens, "farmer-1", domain.RoleFarmer)
	rec = doJSON(router, http.MethodPost, "/api/products", body, farmer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestDashboard_ByRole(t *testing.T) {
	deps, _, _ := testDeps()
	deps.Analytics = &stubAnalytics{dashboard: &analyticssvc.SellerDashboard{
		TotalSales:     decimal.RequireFromString("120.50"),
		ActiveProducts: 3,
		TotalCustomers: 2,
		OrdersCount:    4,
	}}
	router := newTestRouter(t, deps)

	farmer := issueToken(t, deps.Tokens, "farmer-1", domain.RoleFarmer)
	rec := doJSON(router, http.MethodGet, "/api/analytics/dashboard", "", farmer)
	if rec.Code != http.StatusOK {
		t.Fatalf("farmer dashboard: got %d body=%s", rec.Code, rec.Body.String())
	}
	for _, field := range []string{`"totalSales":`, `"monthlyGrowth":`, `"recentActivity":`, `"4 orders"`} {
		if !strings.Contains(rec.Body.String(), field) {
			t.Fatalf("farmer dashboard missing %s, body: %s", field, rec.Body.String())
		}
	}

	vendor := issueToken(t, deps.Tokens, "vendor-1", domain.RoleVendor)
	rec = doJSON(router, http.MethodGet, "/api/analytics/dashboard", "", vendor)
	if rec.Code != http.StatusOK {
		t.Fatalf("vendor dashboard: got %d body=%s", rec.Code, rec.Body.String())
	}
	for _, field := range []string{`"totalRevenue":`, `"salesGrowth":`, `"recentOrders":`, `"topProducts":`} {
		if !strings.Contains(rec.Body.String(), field) {
			t.Fatalf("vendor dashboard missing %s, body: %s", field, rec.Body.String())
		}
	}

	customer := issueToken(t, deps.Tokens, "cust-1", domain.RoleCustomer)
	rec = doJSON(router, http.MethodGet, "/api/analytics/dashboard", "", customer)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "not available") {
		t.Fatalf("customer dashboard: got %d body=%s", rec.Code, rec.Body.String())
	}
}
