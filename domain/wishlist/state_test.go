package wishlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x-70da/horus-shop/domain/catalog"
)

var now = time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

func TestAdd_SetSemantics(t *testing.T) {
	p := catalog.Product{ID: "p1", Price: 100}

	s, changed := Add(NewState(), p, now)
	require.True(t, changed)

	s, changed = Add(s, p, now.Add(time.Hour))
	assert.False(t, changed)
	require.Len(t, s.Items, 1)
	assert.Equal(t, now, s.Items[0].AddedAt)
	assert.Equal(t, 100.0, s.Items[0].PriceAtAdd)
}

func TestToggle_Idempotent(t *testing.T) {
	p := catalog.Product{ID: "p1", Price: 100}
	other := catalog.Product{ID: "p2", Price: 5}
	start, _ := Add(NewState(), other, now)

	s, saved := Toggle(start, p, now)
	assert.True(t, saved)
	assert.True(t, Contains(s, "p1"))

	s, saved = Toggle(s, p, now)
	assert.False(t, saved)
	assert.False(t, Contains(s, "p1"))
	assert.Equal(t, start.Items, s.Items)
}

func TestRemove(t *testing.T) {
	s, _ := Add(NewState(), catalog.Product{ID: "p1"}, now)

	s = Remove(s, "missing")
	assert.Equal(t, 1, Count(s))

	s = Remove(s, "p1")
	assert.Equal(t, 0, Count(s))
}

func TestUpdateProduct_PriceDrop(t *testing.T) {
	p := catalog.Product{ID: "p1", Price: 100}
	s, _ := Add(NewState(), p, now)
	assert.Empty(t, PriceDrops(s))

	p.Price = 80
	s = UpdateProduct(s, p)

	drops := PriceDrops(s)
	require.Len(t, drops, 1)
	assert.Equal(t, 100.0, drops[0].PriceAtAdd)
	assert.Equal(t, 80.0, drops[0].Product.Price)
	assert.Equal(t, now, drops[0].AddedAt)
}

func TestUpdateProduct_UnknownIsNoop(t *testing.T) {
	s, _ := Add(NewState(), catalog.Product{ID: "p1", Price: 100}, now)

	after := UpdateProduct(s, catalog.Product{ID: "p2", Price: 1})

	assert.Equal(t, s.Items, after.Items)
}

func TestUpdateProduct_DoesNotMutateInput(t *testing.T) {
	s, _ := Add(NewState(), catalog.Product{ID: "p1", Price: 100}, now)

	_ = UpdateProduct(s, catalog.Product{ID: "p1", Price: 10})

	assert.Equal(t, 100.0, s.Items[0].Product.Price)
}

func TestClear(t *testing.T) {
	s, _ := Add(NewState(), catalog.Product{ID: "p1"}, now)

	s = Clear(s)

	assert.NotNil(t, s.Items)
	assert.Equal(t, 0, Count(s))
}
