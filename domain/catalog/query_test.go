package catalog

import (
	"testing"
	"time"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	f, err := LoadFixture()
	if err != nil {
		t.Fatalf("LoadFixture() error = %v", err)
	}
	return f.Catalog()
}

func TestSearch(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "Studio Headphones", Description: "Over-ear", Brand: "Sony", Tags: []string{"ANC", "wireless"}},
		{ID: "2", Name: "Gaming Laptop", Description: "Fast GPU", Brand: "ASUS", Tags: []string{"gaming"}},
		{ID: "3", Name: "Phone", Description: "Dance of pixels", Brand: "Google"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"tag match ignoring case", "anc", []string{"1", "3"}},
		{"name match", "LAPTOP", []string{"2"}},
		{"brand match", "asus", []string{"2"}},
		{"description match", "gpu", []string{"2"}},
		{"no match", "tablet", []string{}},
		{"empty query matches all", "", []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Search(products, tt.query))
			if !equalIDs(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearch_TagOnlyMatch(t *testing.T) {
	products := []Product{{ID: "x", Name: "QuietComfort", Description: "Headphones", Brand: "Bose", Tags: []string{"Anc"}}}

	got := Search(products, "anc")
	if len(got) != 1 {
		t.Fatalf("expected tag-only match, got %d results", len(got))
	}
}

func TestCatalog_Lookups(t *testing.T) {
	c := loadTestCatalog(t)

	p, ok := c.ProductByID("prod_1")
	if !ok {
		t.Fatal("ProductByID(prod_1) not found")
	}
	if p.Slug != "iphone-15-pro-max" {
		t.Errorf("Slug = %s, want iphone-15-pro-max", p.Slug)
	}

	bySlug, ok := c.ProductBySlug(p.Slug)
	if !ok || bySlug.ID != p.ID {
		t.Errorf("ProductBySlug(%s) = %v, %v", p.Slug, bySlug.ID, ok)
	}

	if _, ok := c.ProductByID("missing"); ok {
		t.Error("expected missing product lookup to fail")
	}

	for _, prod := range c.ProductsByCategory("smartphones") {
		if prod.Category != "smartphones" {
			t.Errorf("ProductsByCategory returned %s in %s", prod.ID, prod.Category)
		}
	}

	cat, ok := c.CategoryBySlug("laptops")
	if !ok || len(cat.Subcategories) == 0 {
		t.Errorf("CategoryBySlug(laptops) = %+v, %v", cat, ok)
	}

	if _, ok := c.BrandBySlug("apple"); !ok {
		t.Error("BrandBySlug(apple) not found")
	}
}

func TestCatalog_Collections(t *testing.T) {
	c := loadTestCatalog(t)

	for _, p := range c.Featured() {
		if !p.Featured {
			t.Errorf("Featured() returned %s", p.ID)
		}
	}
	for _, p := range c.BestSellers() {
		if !p.BestSeller {
			t.Errorf("BestSellers() returned %s", p.ID)
		}
	}
	for _, p := range c.NewArrivals() {
		if !p.NewArrival {
			t.Errorf("NewArrivals() returned %s", p.ID)
		}
	}

	for _, r := range c.ReviewsByProduct("prod_1") {
		if r.ProductID != "prod_1" {
			t.Errorf("ReviewsByProduct returned review for %s", r.ProductID)
		}
	}
}

func TestCatalog_FlashDealsAndBanners(t *testing.T) {
	c := loadTestCatalog(t)

	if len(c.FlashDeals) == 0 {
		t.Fatal("expected fixture flash deals")
	}
	for _, d := range c.FlashDeals {
		if d.Product.ID != d.ProductID {
			t.Errorf("deal %s resolved product %s, want %s", d.ID, d.Product.ID, d.ProductID)
		}
	}

	during := c.FlashDeals[0].StartDate.Add(time.Hour)
	if len(c.ActiveFlashDeals(during)) == 0 {
		t.Error("expected an active deal inside its window")
	}
	if got := c.ActiveFlashDeals(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Errorf("expected no active deals in 2030, got %d", len(got))
	}

	// Banners without an end date never expire.
	for _, b := range c.ActiveBanners(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) {
		if b.EndDate != nil {
			t.Errorf("banner %s should have expired", b.ID)
		}
	}
}

func TestCatalog_Orders(t *testing.T) {
	c := loadTestCatalog(t)

	orders := c.OrdersByUser("user_1")
	if len(orders) == 0 {
		t.Fatal("expected orders for user_1")
	}

	byNumber, ok := c.OrderByID(orders[0].OrderNumber)
	if !ok || byNumber.ID != orders[0].ID {
		t.Errorf("OrderByID(order number) = %v, %v", byNumber.ID, ok)
	}

	if got := c.OrdersByUser("nobody"); len(got) != 0 {
		t.Errorf("expected no orders, got %d", len(got))
	}
}
