package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	domain "github.com/0x-70da/horus-shop/domain/catalog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates a migrated SQLite database in a temp dir.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := NewRepository(db).Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// seededRepository returns a repository holding the embedded fixture.
func seededRepository(t *testing.T) (*Repository, *domain.Fixture) {
	t.Helper()

	fixture, err := domain.LoadFixture()
	if err != nil {
		t.Fatalf("LoadFixture() error = %v", err)
	}
	repo := NewRepository(setupTestDB(t))
	if err := repo.Seed(context.Background(), fixture); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return repo, fixture
}

func TestRepository_Seed(t *testing.T) {
	repo, fixture := seededRepository(t)
	ctx := context.Background()

	n, err := repo.CountProducts(ctx)
	if err != nil {
		t.Fatalf("CountProducts() error = %v", err)
	}
	if int(n) != len(fixture.Products) {
		t.Errorf("expected %d products, got %d", len(fixture.Products), n)
	}

	products, err := repo.Products(ctx)
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	for i, p := range products {
		if p.ID != fixture.Products[i].ID {
			t.Fatalf("position %d: expected %s, got %s", i, fixture.Products[i].ID, p.ID)
		}
	}
}

func TestRepository_LoadCatalog(t *testing.T) {
	repo, fixture := seededRepository(t)

	c, err := repo.LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	if len(c.Products) != len(fixture.Products) {
		t.Errorf("expected %d products, got %d", len(fixture.Products), len(c.Products))
	}
	if len(c.Categories) != len(fixture.Categories) {
		t.Errorf("expected %d categories, got %d", len(fixture.Categories), len(c.Categories))
	}
	if len(c.Brands) != len(fixture.Brands) {
		t.Errorf("expected %d brands, got %d", len(fixture.Brands), len(c.Brands))
	}
	if len(c.Reviews) != len(fixture.Reviews) {
		t.Errorf("expected %d reviews, got %d", len(fixture.Reviews), len(c.Reviews))
	}
	if len(c.Orders) != len(fixture.Orders) {
		t.Errorf("expected %d orders, got %d", len(fixture.Orders), len(c.Orders))
	}
	if len(c.FlashDeals) != len(fixture.FlashDeals) {
		t.Errorf("expected %d flash deals, got %d", len(fixture.FlashDeals), len(c.FlashDeals))
	}

	p, ok := c.ProductByID("prod_1")
	if !ok {
		t.Fatal("expected prod_1 in loaded catalog")
	}
	if len(p.Variants) != 4 {
		t.Errorf("expected 4 variants on prod_1, got %d", len(p.Variants))
	}
}

func TestRepository_FindProduct_NotFound(t *testing.T) {
	repo, _ := seededRepository(t)

	_, err := repo.FindProduct(context.Background(), "missing")
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestRepository_UpdatePrice(t *testing.T) {
	repo, _ := seededRepository(t)
	ctx := context.Background()

	before, after, err := repo.UpdatePrice(ctx, "prod_4", 299)
	if err != nil {
		t.Fatalf("UpdatePrice() error = %v", err)
	}
	if before.Price != 349 {
		t.Errorf("expected old price 349, got %v", before.Price)
	}
	if after.Price != 299 {
		t.Errorf("expected new price 299, got %v", after.Price)
	}

	found, err := repo.FindProduct(ctx, "prod_4")
	if err != nil {
		t.Fatalf("FindProduct() error = %v", err)
	}
	if found.Price != 299 {
		t.Errorf("expected persisted price 299, got %v", found.Price)
	}

	if _, _, err := repo.UpdatePrice(ctx, "missing", 1); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}
