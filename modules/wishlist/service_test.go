package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	catalogdomain "github.com/0x-70da/horus-shop/domain/catalog"
	domain "github.com/0x-70da/horus-shop/domain/wishlist"
	"github.com/0x-70da/horus-shop/events"
	"github.com/0x-70da/horus-shop/modules/catalog"
	"github.com/0x-70da/horus-shop/modules/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves GetProduct from a mutable map.
type fakeCatalog struct {
	catalog.CatalogPort
	mu       sync.Mutex
	products map[string]catalogdomain.Product
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID string) (*catalogdomain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrProductNotFound, productID)
	}
	return &p, nil
}

func (f *fakeCatalog) setPrice(productID string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[productID]
	p.Price = price
	f.products[productID] = p
}

func (f *fakeCatalog) delete(productID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, productID)
}

var testNow = time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeCatalog, *snapshot.MemoryStore) {
	t.Helper()
	fc := &fakeCatalog{products: map[string]catalogdomain.Product{
		"prod_4": {ID: "prod_4", Name: "Headphones", Price: 100},
		"prod_8": {ID: "prod_8", Name: "Earbuds", Price: 249},
	}}
	store := snapshot.NewMemoryStore()
	svc := NewService(snapshot.NewContainer(sliceName, store, domain.NewState), fc)
	svc.now = func() time.Time { return testNow }
	return svc, fc, store
}

func TestService_AddIsSetLike(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	st, changed, err := svc.Add(ctx, "sess-1", "prod_4")
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, st.Items, 1)
	assert.Equal(t, 100.0, st.Items[0].PriceAtAdd)
	assert.Equal(t, testNow, st.Items[0].AddedAt)

	st, changed, err = svc.Add(ctx, "sess-1", "prod_4")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, st.Items, 1)
}

func TestService_ToggleTwiceRestoresMembership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	st, saved, err := svc.Toggle(ctx, "sess-1", "prod_8")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.True(t, domain.Contains(st, "prod_8"))

	st, saved, err = svc.Toggle(ctx, "sess-1", "prod_8")
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Empty(t, st.Items)
}

func TestService_ToggleRemovesProductGoneFromCatalog(t *testing.T) {
	svc, fc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "sess-1", "prod_8")
	require.NoError(t, err)
	fc.delete("prod_8")

	st, saved, err := svc.Toggle(ctx, "sess-1", "prod_8")
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Empty(t, st.Items)

	_, _, err = svc.Toggle(ctx, "sess-1", "prod_8")
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound))
}

func TestService_RefreshProductSurfacesPriceDrop(t *testing.T) {
	svc, fc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "sess-1", "prod_4")
	require.NoError(t, err)
	fc.setPrice("prod_4", 80)

	st, err := svc.RefreshProduct(ctx, "sess-1", "prod_4")
	require.NoError(t, err)

	drops := domain.PriceDrops(st)
	require.Len(t, drops, 1)
	assert.Equal(t, 100.0, drops[0].PriceAtAdd)
	assert.Equal(t, 80.0, drops[0].Product.Price)
}

func TestService_RefreshLoaded(t *testing.T) {
	svc, fc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "sess-1", "prod_4")
	require.NoError(t, err)
	_, _, err = svc.Add(ctx, "sess-2", "prod_8")
	require.NoError(t, err)

	fc.setPrice("prod_4", 90)
	p, err := fc.GetProduct(ctx, "prod_4")
	require.NoError(t, err)

	assert.Equal(t, 1, svc.RefreshLoaded(ctx, *p))

	st, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, domain.PriceDrops(st), 1)

	other, err := svc.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.Empty(t, domain.PriceDrops(other))
}

func TestService_ClearPersists(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "sess-1", "prod_4")
	require.NoError(t, err)
	_, err = svc.Clear(ctx, "sess-1")
	require.NoError(t, err)

	restored := NewService(snapshot.NewContainer(sliceName, store, domain.NewState), &fakeCatalog{})
	st, err := restored.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, st.Items)
}

func TestModule_HandlePriceChanged(t *testing.T) {
	svc, fc, _ := newTestService(t)
	m := &Module{service: svc, catalogPort: fc}
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "sess-1", "prod_8")
	require.NoError(t, err)
	fc.setPrice("prod_8", 199)

	err = m.handlePriceChanged(ctx, events.ProductPriceChangedEvent{
		ProductID: "prod_8",
		OldPrice:  249,
		NewPrice:  199,
	}, nil)
	require.NoError(t, err)

	resp, err := m.getWishlist(ctx, GetWishlistRequest{SessionID: "sess-1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Wishlist.Count)
	require.Len(t, resp.Wishlist.PriceDrops, 1)
	assert.Equal(t, "prod_8", resp.Wishlist.PriceDrops[0].ProductID)
}

func TestService_RequiresSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Toggle(context.Background(), "", "prod_4")
	assert.ErrorIs(t, err, ErrSessionRequired)
}
