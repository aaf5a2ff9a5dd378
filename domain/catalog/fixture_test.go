package catalog

import (
	"errors"
	"testing"
	"time"
)

func TestLoadFixture(t *testing.T) {
	f, err := LoadFixture()
	if err != nil {
		t.Fatalf("LoadFixture() error = %v", err)
	}

	if len(f.Products) == 0 || len(f.Categories) == 0 || len(f.Brands) == 0 {
		t.Fatalf("fixture is missing collections: %d products, %d categories, %d brands",
			len(f.Products), len(f.Categories), len(f.Brands))
	}

	for _, p := range f.Products {
		if p.CreatedAt.IsZero() {
			t.Errorf("product %s has no createdAt", p.ID)
		}
	}
}

func TestLoadFixture_OrderDates(t *testing.T) {
	f, err := LoadFixture()
	if err != nil {
		t.Fatalf("LoadFixture() error = %v", err)
	}

	var shipped *Order
	for i := range f.Orders {
		if f.Orders[i].ID == "order_2" {
			shipped = &f.Orders[i]
		}
		if f.Orders[i].CreatedAt.IsZero() {
			t.Errorf("order %s has no createdAt", f.Orders[i].ID)
		}
	}
	if shipped == nil {
		t.Fatal("fixture has no order_2")
	}
	if shipped.EstimatedDelivery == nil {
		t.Fatal("order_2 has no estimatedDelivery")
	}
	want := time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC)
	if !shipped.EstimatedDelivery.Equal(want) {
		t.Errorf("order_2 estimatedDelivery = %v, want %v", shipped.EstimatedDelivery, want)
	}
}

func TestParseFixture_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "products: [\n  - id: ["},
		{"duplicate id", "products:\n  - {id: p1, slug: a}\n  - {id: p1, slug: b}\n"},
		{"duplicate slug", "products:\n  - {id: p1, slug: a}\n  - {id: p2, slug: a}\n"},
		{"missing slug", "products:\n  - {id: p1, name: x}\n"},
		{"negative stock", "products:\n  - {id: p1, slug: a, stock: -1}\n"},
		{"duplicate variant", "products:\n  - {id: p1, slug: a, variants: [{id: v}, {id: v}]}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.data))
			if !errors.Is(err, ErrInvalidFixture) {
				t.Errorf("ParseFixture() error = %v, want ErrInvalidFixture", err)
			}
		})
	}
}
