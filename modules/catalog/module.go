package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domain "github.com/0x-70da/horus-shop/domain/catalog"
	"github.com/0x-70da/horus-shop/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module provides the read-only catalog backed by GORM + SQLite.
// An empty database is seeded from the catalog fixture on start.
type Module struct {
	db          *gorm.DB
	repo        *Repository
	service     *Service
	eventBus    mono.EventBus
	dbPath      string
	fixturePath string
	debug       bool
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a catalog module. An empty fixturePath selects the
// embedded dataset.
func NewModule(dbPath, fixturePath string, debug bool) *Module {
	return &Module{
		dbPath:      dbPath,
		fixturePath: fixturePath,
		debug:       debug,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.ProductPriceChangedV1.ToBase(),
	}
}

// RegisterServices registers the catalog request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-product", json.Unmarshal, json.Marshal, m.getProduct,
	); err != nil {
		return fmt.Errorf("failed to register get-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-product-by-slug", json.Unmarshal, json.Marshal, m.getProductBySlug,
	); err != nil {
		return fmt.Errorf("failed to register get-product-by-slug service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-products", json.Unmarshal, json.Marshal, m.listProducts,
	); err != nil {
		return fmt.Errorf("failed to register list-products service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "search-products", json.Unmarshal, json.Marshal, m.searchProducts,
	); err != nil {
		return fmt.Errorf("failed to register search-products service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-categories", json.Unmarshal, json.Marshal, m.listCategories,
	); err != nil {
		return fmt.Errorf("failed to register list-categories service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-category", json.Unmarshal, json.Marshal, m.getCategory,
	); err != nil {
		return fmt.Errorf("failed to register get-category service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-brands", json.Unmarshal, json.Marshal, m.listBrands,
	); err != nil {
		return fmt.Errorf("failed to register list-brands service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-reviews", json.Unmarshal, json.Marshal, m.listReviews,
	); err != nil {
		return fmt.Errorf("failed to register list-reviews service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-orders", json.Unmarshal, json.Marshal, m.listOrders,
	); err != nil {
		return fmt.Errorf("failed to register list-orders service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-order", json.Unmarshal, json.Marshal, m.getOrder,
	); err != nil {
		return fmt.Errorf("failed to register get-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-collection", json.Unmarshal, json.Marshal, m.listCollection,
	); err != nil {
		return fmt.Errorf("failed to register list-collection service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-price", json.Unmarshal, json.Marshal, m.updatePrice,
	); err != nil {
		return fmt.Errorf("failed to register update-price service: %w", err)
	}

	log.Printf("[catalog] Registered services: get-product, get-product-by-slug, list-products, search-products, " +
		"list-categories, get-category, list-brands, list-reviews, list-orders, get-order, list-collection, update-price")
	return nil
}

// Start opens the database, migrates it and seeds it when empty.
func (m *Module) Start(ctx context.Context) error {
	log.Printf("[catalog] Connecting to SQLite database: %s", m.dbPath)

	logLevel := logger.Silent
	if m.debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db
	m.repo = NewRepository(db)

	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := m.seedIfEmpty(ctx); err != nil {
		return err
	}

	m.service = NewService(m.repo)
	if _, err := m.service.Catalog(ctx); err != nil {
		return err
	}

	if m.eventBus == nil {
		log.Println("[catalog] Warning: eventBus not set, events will not be published")
	}
	log.Println("[catalog] Module started")
	return nil
}

func (m *Module) seedIfEmpty(ctx context.Context) error {
	n, err := m.repo.CountProducts(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("[catalog] Database already holds %d products, skipping seed", n)
		return nil
	}

	var fixture *domain.Fixture
	if m.fixturePath != "" {
		fixture, err = domain.LoadFixtureFile(m.fixturePath)
	} else {
		fixture, err = domain.LoadFixture()
	}
	if err != nil {
		return fmt.Errorf("failed to load catalog fixture: %w", err)
	}

	if err := m.repo.Seed(ctx, fixture); err != nil {
		return err
	}
	log.Printf("[catalog] Seeded %d products, %d categories, %d brands",
		len(fixture.Products), len(fixture.Categories), len(fixture.Brands))
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[catalog] Module stopped")
	return nil
}

// Health pings the database.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}
