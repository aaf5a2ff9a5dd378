package wishlist

import (
	"context"
	"log"
	"time"

	catalogdomain "github.com/0x-70da/horus-shop/domain/catalog"
	domain "github.com/0x-70da/horus-shop/domain/wishlist"
	"github.com/0x-70da/horus-shop/modules/catalog"
	"github.com/0x-70da/horus-shop/modules/snapshot"
)

// Service runs the wishlist reducers against the session's snapshot
// container.
type Service struct {
	lists   *snapshot.Container[domain.State]
	catalog catalog.CatalogPort
	now     func() time.Time
}

// NewService creates a new wishlist service.
func NewService(lists *snapshot.Container[domain.State], catalogPort catalog.CatalogPort) *Service {
	return &Service{
		lists:   lists,
		catalog: catalogPort,
		now:     time.Now,
	}
}

// Get returns the wishlist of a session.
func (s *Service) Get(ctx context.Context, sessionID string) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrSessionRequired
	}
	return s.lists.Get(ctx, sessionID)
}

// Add saves a product. changed is false when it was already saved.
func (s *Service) Add(ctx context.Context, sessionID, productID string) (st domain.State, changed bool, err error) {
	if sessionID == "" {
		return domain.State{}, false, ErrSessionRequired
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.State{}, false, err
	}

	now := s.now()
	st, err = s.lists.Apply(ctx, sessionID, ActionAdd, func(cur domain.State) domain.State {
		next, ok := domain.Add(cur, *product, now)
		changed = ok
		return next
	})
	if err != nil {
		return st, false, err
	}
	return st, changed, nil
}

// Remove deletes a saved product.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrSessionRequired
	}
	return s.lists.Apply(ctx, sessionID, ActionRemove, func(cur domain.State) domain.State {
		return domain.Remove(cur, productID)
	})
}

// Toggle saves or unsaves a product. saved reports membership afterwards.
// Unsaving does not consult the catalog, so a product that has left the
// catalog can still be removed.
func (s *Service) Toggle(ctx context.Context, sessionID, productID string) (st domain.State, saved bool, err error) {
	if sessionID == "" {
		return domain.State{}, false, ErrSessionRequired
	}

	cur, err := s.lists.Get(ctx, sessionID)
	if err != nil {
		return domain.State{}, false, err
	}
	var product *catalogdomain.Product
	if !domain.Contains(cur, productID) {
		if product, err = s.catalog.GetProduct(ctx, productID); err != nil {
			return domain.State{}, false, err
		}
	}

	now := s.now()
	st, err = s.lists.Apply(ctx, sessionID, ActionToggle, func(cur domain.State) domain.State {
		if domain.Contains(cur, productID) {
			saved = false
			return domain.Remove(cur, productID)
		}
		if product == nil {
			// Removed concurrently since the membership check.
			saved = false
			return cur
		}
		next, ok := domain.Toggle(cur, *product, now)
		saved = ok
		return next
	})
	if err != nil {
		return st, false, err
	}
	return st, saved, nil
}

// Clear empties the wishlist.
func (s *Service) Clear(ctx context.Context, sessionID string) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrSessionRequired
	}
	return s.lists.Apply(ctx, sessionID, ActionClear, domain.Clear)
}

// RefreshProduct replaces the saved snapshot of a product with the live
// catalog product. PriceAtAdd is kept, so price drops become visible.
func (s *Service) RefreshProduct(ctx context.Context, sessionID, productID string) (domain.State, error) {
	if sessionID == "" {
		return domain.State{}, ErrSessionRequired
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.State{}, err
	}
	return s.lists.Apply(ctx, sessionID, ActionRefreshProduct, func(cur domain.State) domain.State {
		return domain.UpdateProduct(cur, *product)
	})
}

// RefreshLoaded pushes product into every in-memory wishlist that holds it.
// Wishlists not in memory pick up the change on their next refresh.
func (s *Service) RefreshLoaded(ctx context.Context, product catalogdomain.Product) int {
	refreshed := 0
	for _, key := range s.lists.Keys() {
		cur, err := s.lists.Get(ctx, key)
		if err != nil || !domain.Contains(cur, product.ID) {
			continue
		}
		if _, err := s.lists.Apply(ctx, key, ActionPriceChanged, func(cur domain.State) domain.State {
			return domain.UpdateProduct(cur, product)
		}); err != nil {
			log.Printf("[wishlist] Warning: failed to refresh %s for session %s: %v", product.ID, key, err)
			continue
		}
		refreshed++
	}
	return refreshed
}
