package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0x-70da/horus-shop/domain/account"
	cartdomain "github.com/0x-70da/horus-shop/domain/cart"
	catalogdomain "github.com/0x-70da/horus-shop/domain/catalog"
	"github.com/0x-70da/horus-shop/modules/auth"
	"github.com/0x-70da/horus-shop/modules/cart"
	"github.com/0x-70da/horus-shop/modules/catalog"
	"github.com/0x-70da/horus-shop/modules/wishlist"
	"github.com/gofiber/fiber/v2"
)

const validToken = "valid-token"

// mockAuthPort accepts validToken for session "sess-1".
type mockAuthPort struct {
	auth.AuthPort
	state account.AuthState
	login *auth.LoginRequest
}

func (m *mockAuthPort) CreateSession(_ context.Context) (*auth.SessionResponse, error) {
	return &auth.SessionResponse{SessionID: "sess-1", Token: validToken}, nil
}

func (m *mockAuthPort) ValidateSession(_ context.Context, token string) (string, error) {
	if token != validToken {
		return "", auth.ErrInvalidToken
	}
	return "sess-1", nil
}

func (m *mockAuthPort) GetAuth(_ context.Context, _ string) (*auth.AuthResponse, error) {
	resp := auth.NewAuthResponse(m.state)
	return &resp, nil
}

func (m *mockAuthPort) Login(_ context.Context, req *auth.LoginRequest) (*auth.AuthResponse, error) {
	m.login = req
	resp := auth.NewAuthResponse(account.Login(account.NewState(), req.Email))
	return &resp, nil
}

func (m *mockAuthPort) Register(_ context.Context, req *auth.RegisterRequest) (*auth.AuthResponse, error) {
	return nil, errors.New("register should not be reached")
}

type mockCatalogPort struct {
	catalog.CatalogPort
	listReq   *catalog.ListProductsRequest
	ordersFor string
	getErr    error
}

func (m *mockCatalogPort) ListProducts(_ context.Context, req *catalog.ListProductsRequest) (*catalog.ListProductsResponse, error) {
	m.listReq = req
	return &catalog.ListProductsResponse{Products: []catalogdomain.Product{}, Limit: req.Limit}, nil
}

func (m *mockCatalogPort) GetProduct(_ context.Context, productID string) (*catalogdomain.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &catalogdomain.Product{ID: productID, Name: "Phone", Price: 999}, nil
}

func (m *mockCatalogPort) ListOrders(_ context.Context, userID string) ([]catalogdomain.Order, error) {
	m.ordersFor = userID
	return []catalogdomain.Order{{ID: "order_1", UserID: userID}}, nil
}

func (m *mockCatalogPort) UpdatePrice(_ context.Context, productID string, price float64) (*catalog.UpdatePriceResponse, error) {
	return &catalog.UpdatePriceResponse{
		Product:  catalogdomain.Product{ID: productID, Price: price},
		OldPrice: 349,
	}, nil
}

type mockCartPort struct {
	cart.CartPort
	addReq *cart.AddItemRequest
}

func (m *mockCartPort) GetCart(_ context.Context, _ string) (*cart.View, error) {
	view := cart.NewView(cartdomain.NewState())
	return &view, nil
}

func (m *mockCartPort) AddItem(_ context.Context, req *cart.AddItemRequest) (*cart.View, error) {
	m.addReq = req
	view := cart.NewView(cartdomain.NewState())
	return &view, nil
}

func (m *mockCartPort) ApplyPromo(_ context.Context, _ string, code string) (*cart.View, bool, error) {
	view := cart.NewView(cartdomain.NewState())
	return &view, strings.EqualFold(code, "SAVE20"), nil
}

type mockWishlistPort struct {
	wishlist.WishlistPort
}

type testDeps struct {
	auth     *mockAuthPort
	catalog  *mockCatalogPort
	cart     *mockCartPort
	wishlist *mockWishlistPort
}

func newTestApp(t *testing.T, config Config) (*fiber.App, *testDeps) {
	t.Helper()
	deps := &testDeps{
		auth:     &mockAuthPort{},
		catalog:  &mockCatalogPort{},
		cart:     &mockCartPort{},
		wishlist: &mockWishlistPort{},
	}
	app := newApp(config)
	setupRoutes(app, routeDeps{
		handlers: NewHandlers(deps.catalog, deps.cart, deps.wishlist, deps.auth),
		authPort: deps.auth,
		liveFeed: func(c *fiber.Ctx) error { return c.SendString("feed") },
		admin:    AdminMiddleware(config.AdminToken),
	})
	return app, deps
}

func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp.StatusCode, string(raw)
}

func TestSessionRoutes_RequireToken(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing authorization header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Authorization header is required"`,
		},
		{
			name:           "not a bearer token",
			authHeader:     "Basic abc",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `Invalid authorization header format`,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer nope",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Invalid or expired session token"`,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectedBody:   `"itemCount":0`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.expectedStatus)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("body = %s, want it to contain %s", body, tt.expectedBody)
			}
		})
	}
}

func TestCreateSession(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/sessions", "", "")
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want %d", status, http.StatusCreated)
	}

	var sess auth.SessionResponse
	if err := json.Unmarshal([]byte(body), &sess); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if sess.Token != validToken || sess.SessionID != "sess-1" {
		t.Errorf("session = %+v", sess)
	}
}

func TestListProducts_ParsesQuery(t *testing.T) {
	app, deps := newTestApp(t, Config{})

	status, _ := doRequest(t, app, http.MethodGet,
		"/api/v1/products?q=pro&category=laptops,+phones&brand=Apple&min_price=100&max_price=2000&min_rating=4.5&in_stock=true&sort=price-low&offset=5&limit=10",
		"", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}

	req := deps.catalog.listReq
	if req == nil {
		t.Fatal("ListProducts was not called")
	}
	if req.Query != "pro" || req.Sort != "price-low" || !req.InStockOnly {
		t.Errorf("request = %+v", req)
	}
	if len(req.Categories) != 2 || req.Categories[0] != "laptops" || req.Categories[1] != "phones" {
		t.Errorf("Categories = %v, want [laptops phones]", req.Categories)
	}
	if req.MinPrice == nil || *req.MinPrice != 100 || req.MaxPrice == nil || *req.MaxPrice != 2000 {
		t.Errorf("price range = %v..%v", req.MinPrice, req.MaxPrice)
	}
	if req.MinRating == nil || *req.MinRating != 4.5 {
		t.Errorf("MinRating = %v, want 4.5", req.MinRating)
	}
	if req.Offset != 5 || req.Limit != 10 {
		t.Errorf("paging = %d/%d, want 5/10", req.Offset, req.Limit)
	}
}

func TestListProducts_RejectsBadQuery(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	for _, query := range []string{"min_price=cheap", "min_rating=x", "offset=-1", "min_price=NaN", "max_price=Inf", "min_rating=-Infinity"} {
		status, body := doRequest(t, app, http.MethodGet, "/api/v1/products?"+query, "", "")
		if status != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d (%s)", query, status, http.StatusBadRequest, body)
		}
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found through service call",
			err:            fmt.Errorf("get-product service call failed: %w", errors.New("product not found: prod_404")),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "not_found",
		},
		{
			name:           "commit failure",
			err:            errors.New("snapshot commit failed: cart/sess-1: disk full"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "unavailable",
		},
		{
			name:           "unexpected",
			err:            errors.New("nats: timeout"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, deps := newTestApp(t, Config{})
			deps.catalog.getErr = tt.err

			status, body := doRequest(t, app, http.MethodGet, "/api/v1/products/prod_404", "", "")
			if status != tt.expectedStatus {
				t.Errorf("status = %d, want %d", status, tt.expectedStatus)
			}
			var errResp ErrorResponse
			if err := json.Unmarshal([]byte(body), &errResp); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if errResp.Error != tt.expectedCode {
				t.Errorf("error = %q, want %q", errResp.Error, tt.expectedCode)
			}
			if strings.Contains(errResp.Message, "nats") {
				t.Errorf("message leaks internals: %q", errResp.Message)
			}
		})
	}
}

func TestAddCartItem(t *testing.T) {
	app, deps := newTestApp(t, Config{})

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/cart/items", validToken, `{"variant_id":"var_1_2"}`)
	if status != http.StatusBadRequest || !strings.Contains(body, "product_id is required") {
		t.Errorf("missing product: status = %d, body = %s", status, body)
	}

	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/cart/items", validToken, `{"product_id":"prod_1"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	got := deps.cart.addReq
	if got == nil {
		t.Fatal("AddItem was not called")
	}
	if got.SessionID != "sess-1" || got.ProductID != "prod_1" || got.Quantity != 1 {
		t.Errorf("AddItem request = %+v", got)
	}
}

func TestApplyPromo_UnknownCodeIsNotAnError(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	tests := []struct {
		code    string
		applied string
	}{
		{code: "save20", applied: `"applied":true`},
		{code: "BOGUS", applied: `"applied":false`},
	}

	for _, tt := range tests {
		status, body := doRequest(t, app, http.MethodPost, "/api/v1/cart/promo", validToken, `{"code":"`+tt.code+`"}`)
		if status != http.StatusOK {
			t.Errorf("%s: status = %d, want %d", tt.code, status, http.StatusOK)
		}
		if !strings.Contains(body, tt.applied) {
			t.Errorf("%s: body = %s, want %s", tt.code, body, tt.applied)
		}
	}
}

func TestLogin(t *testing.T) {
	app, deps := newTestApp(t, Config{})

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/auth/login", validToken, `{"email":"not-an-email","password":"x"}`)
	if status != http.StatusBadRequest || !strings.Contains(body, "email must be a valid email address") {
		t.Errorf("bad email: status = %d, body = %s", status, body)
	}

	status, body = doRequest(t, app, http.MethodPost, "/api/v1/auth/login", validToken, `{"email":"me@example.com","password":"anything"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if deps.auth.login == nil || deps.auth.login.SessionID != "sess-1" {
		t.Errorf("Login request = %+v", deps.auth.login)
	}
	if !strings.Contains(body, `"email":"me@example.com"`) {
		t.Errorf("body = %s, want the signed-in email", body)
	}
}

func TestRegister_Validation(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", validToken,
		`{"email":"new@example.com","password":"short","first_name":"Ada"}`)
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", status, http.StatusBadRequest)
	}
	if !strings.Contains(body, "last_name is required") {
		t.Errorf("body = %s, want last_name error", body)
	}
}

func TestOrders_RequireSignedInUser(t *testing.T) {
	app, deps := newTestApp(t, Config{})

	status, body := doRequest(t, app, http.MethodGet, "/api/v1/orders", validToken, "")
	if status != http.StatusUnauthorized || !strings.Contains(body, "Sign in") {
		t.Errorf("signed out: status = %d, body = %s", status, body)
	}

	deps.auth.state = account.Login(account.NewState(), "demo@techstore.com")
	status, body = doRequest(t, app, http.MethodGet, "/api/v1/orders", validToken, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", status, http.StatusOK, body)
	}
	if deps.catalog.ordersFor != "user_1" {
		t.Errorf("orders listed for %q, want user_1", deps.catalog.ordersFor)
	}
}

func TestUpdatePrice_AdminToken(t *testing.T) {
	app, _ := newTestApp(t, Config{AdminToken: "secret"})

	send := func(adminToken, body string) int {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/products/prod_4/price", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if adminToken != "" {
			req.Header.Set("X-Admin-Token", adminToken)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := send("", `{"price":299}`); got != http.StatusForbidden {
		t.Errorf("without token: status = %d, want %d", got, http.StatusForbidden)
	}
	if got := send("secreT", `{"price":299}`); got != http.StatusForbidden {
		t.Errorf("wrong token: status = %d, want %d", got, http.StatusForbidden)
	}
	if got := send("secret-longer", `{"price":299}`); got != http.StatusForbidden {
		t.Errorf("token with extra suffix: status = %d, want %d", got, http.StatusForbidden)
	}
	if got := send("secret", `{"price":-1}`); got != http.StatusBadRequest {
		t.Errorf("negative price: status = %d, want %d", got, http.StatusBadRequest)
	}
	if got := send("secret", `{}`); got != http.StatusBadRequest {
		t.Errorf("missing price: status = %d, want %d", got, http.StatusBadRequest)
	}
	if got := send("secret", `{"price":299}`); got != http.StatusOK {
		t.Errorf("valid: status = %d, want %d", got, http.StatusOK)
	}
}

func TestLiveFeed_RequiresUpgrade(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	status, _ := doRequest(t, app, http.MethodGet, "/ws?token="+validToken, "", "")
	if status != http.StatusUpgradeRequired {
		t.Errorf("status = %d, want %d", status, http.StatusUpgradeRequired)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	status, body := doRequest(t, app, http.MethodGet, "/health", "", "")
	if status != http.StatusOK || !strings.Contains(body, "healthy") {
		t.Errorf("health: status = %d, body = %s", status, body)
	}

	status, body = doRequest(t, app, http.MethodGet, "/metrics", "", "")
	if status != http.StatusOK || !strings.Contains(body, "horus_http_requests_total") {
		t.Errorf("metrics: status = %d", status)
	}
}
