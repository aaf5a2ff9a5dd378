package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/0x-70da/horus-shop/modules/auth"
	"github.com/0x-70da/horus-shop/modules/cart"
	"github.com/0x-70da/horus-shop/modules/catalog"
	"github.com/0x-70da/horus-shop/modules/wishlist"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Config configures the HTTP server.
type Config struct {
	Port        int
	CORSOrigins string
	AdminToken  string
}

// Module is the HTTP API module.
type Module struct {
	app          *fiber.App
	config       Config
	catalogPort  catalog.CatalogPort
	cartPort     cart.CartPort
	wishlistPort wishlist.WishlistPort
	authPort     auth.AuthPort
	liveFeed     fiber.Handler
	limiter      fiber.Handler
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the API module. liveFeed serves the websocket feed
// and limiter throttles session routes; either may be nil.
func NewModule(config Config, liveFeed, limiter fiber.Handler) *Module {
	return &Module{
		config:   config,
		liveFeed: liveFeed,
		limiter:  limiter,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"catalog", "cart", "wishlist", "auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "catalog":
		m.catalogPort = catalog.NewCatalogAdapter(container)
	case "cart":
		m.cartPort = cart.NewCartAdapter(container)
	case "wishlist":
		m.wishlistPort = wishlist.NewWishlistAdapter(container)
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	}
}

// Start builds the Fiber app and starts listening.
func (m *Module) Start(_ context.Context) error {
	switch {
	case m.catalogPort == nil:
		return fmt.Errorf("catalog dependency not set")
	case m.cartPort == nil:
		return fmt.Errorf("cart dependency not set")
	case m.wishlistPort == nil:
		return fmt.Errorf("wishlist dependency not set")
	case m.authPort == nil:
		return fmt.Errorf("auth dependency not set")
	}

	m.app = newApp(m.config)
	setupRoutes(m.app, routeDeps{
		handlers: NewHandlers(m.catalogPort, m.cartPort, m.wishlistPort, m.authPort),
		authPort: m.authPort,
		liveFeed: m.liveFeed,
		limiter:  m.limiter,
		admin:    AdminMiddleware(m.config.AdminToken),
	})

	addr := fmt.Sprintf(":%d", m.config.Port)
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	log.Printf("[api] HTTP server started on %s", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.config.Port,
		},
	}
}

// newApp creates the Fiber app with the shared middleware stack.
func newApp(config Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "horus-shop",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
	}))
	origins := config.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization,X-Admin-Token",
	}))
	app.Use(metricsMiddleware())
	return app
}

type routeDeps struct {
	handlers *Handlers
	authPort auth.AuthPort
	liveFeed fiber.Handler
	limiter  fiber.Handler
	admin    fiber.Handler
}

// setupRoutes configures all API routes.
func setupRoutes(app *fiber.App, deps routeDeps) {
	h := deps.handlers

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})
	app.Get("/metrics", metricsHandler())

	if deps.liveFeed != nil {
		app.Get("/ws", LiveUpgradeMiddleware(deps.authPort), deps.liveFeed)
	}

	v1 := app.Group("/api/v1")
	v1.Use(SessionMiddleware(deps.authPort))
	if deps.limiter != nil {
		v1.Use(deps.limiter)
	}

	v1.Post("/sessions", h.CreateSession)

	v1.Get("/products", h.ListProducts)
	v1.Get("/products/slug/:slug", h.GetProductBySlug)
	v1.Get("/products/:id", h.GetProduct)
	v1.Get("/products/:id/reviews", h.ListReviews)
	v1.Put("/products/:id/price", deps.admin, h.UpdatePrice)
	v1.Get("/categories", h.ListCategories)
	v1.Get("/categories/:slug", h.GetCategory)
	v1.Get("/brands", h.ListBrands)
	v1.Get("/collections/:name", h.GetCollection)
	v1.Get("/search", h.Search)

	session := RequireSession()

	cartRoutes := v1.Group("/cart", session)
	cartRoutes.Get("", h.GetCart)
	cartRoutes.Delete("", h.ClearCart)
	cartRoutes.Post("/items", h.AddCartItem)
	cartRoutes.Patch("/items/:productId", h.UpdateCartItem)
	cartRoutes.Delete("/items/:productId", h.RemoveCartItem)
	cartRoutes.Post("/promo", h.ApplyPromo)
	cartRoutes.Delete("/promo", h.RemovePromo)

	wishlistRoutes := v1.Group("/wishlist", session)
	wishlistRoutes.Get("", h.GetWishlist)
	wishlistRoutes.Delete("", h.ClearWishlist)
	wishlistRoutes.Post("/items", h.AddWishlistItem)
	wishlistRoutes.Post("/items/:productId/toggle", h.ToggleWishlistItem)
	wishlistRoutes.Post("/items/:productId/refresh", h.RefreshWishlistItem)
	wishlistRoutes.Delete("/items/:productId", h.RemoveWishlistItem)

	authRoutes := v1.Group("/auth", session)
	authRoutes.Get("", h.GetAuth)
	authRoutes.Post("/login", h.Login)
	authRoutes.Post("/register", h.Register)
	authRoutes.Post("/logout", h.Logout)
	authRoutes.Patch("/profile", h.UpdateProfile)
	authRoutes.Post("/addresses", h.AddAddress)
	authRoutes.Put("/addresses/:id", h.UpdateAddress)
	authRoutes.Delete("/addresses/:id", h.RemoveAddress)

	orderRoutes := v1.Group("/orders", session)
	orderRoutes.Get("", h.ListOrders)
	orderRoutes.Get("/:id", h.GetOrder)
}
