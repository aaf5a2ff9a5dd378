package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	domain "github.com/0x-70da/horus-shop/domain/wishlist"
	"github.com/0x-70da/horus-shop/events"
	"github.com/0x-70da/horus-shop/modules/catalog"
	"github.com/0x-70da/horus-shop/modules/snapshot"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// sliceName is both the module name and the snapshot bucket name.
const sliceName = "wishlist"

// Module is the per-session wishlist store. It also follows catalog price
// changes so that loaded wishlists surface price drops without a refresh.
type Module struct {
	binding     snapshot.Binding
	backend     string
	lists       *snapshot.Container[domain.State]
	service     *Service
	catalogPort catalog.CatalogPort
	eventBus    mono.EventBus
	unsubscribe func()
	stopEvict   context.CancelFunc
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new wishlist module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return sliceName
}

// Dependencies returns the modules this one needs.
func (m *Module) Dependencies() []string {
	return []string{"catalog"}
}

// SetDependencyServiceContainer receives the catalog service container.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "catalog" {
		m.catalogPort = catalog.NewCatalogAdapter(container)
	}
}

// SetPlugin receives the snapshot backend plugin.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if m.binding.Accept(alias, plugin) {
		log.Printf("[wishlist] Received snapshot plugin %q", alias)
	}
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.WishlistUpdatedV1.ToBase(),
	}
}

// RegisterEventConsumers subscribes to catalog price changes.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductPriceChangedV1, m.handlePriceChanged, m); err != nil {
		return fmt.Errorf("failed to register ProductPriceChanged consumer: %w", err)
	}
	log.Printf("[wishlist] Registered event consumers: ProductPriceChanged")
	return nil
}

// RegisterServices registers the wishlist request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getWishlist,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "add", json.Unmarshal, json.Marshal, m.add,
	); err != nil {
		return fmt.Errorf("failed to register add service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "remove", json.Unmarshal, json.Marshal, m.remove,
	); err != nil {
		return fmt.Errorf("failed to register remove service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "toggle", json.Unmarshal, json.Marshal, m.toggle,
	); err != nil {
		return fmt.Errorf("failed to register toggle service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "clear", json.Unmarshal, json.Marshal, m.clear,
	); err != nil {
		return fmt.Errorf("failed to register clear service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "refresh-product", json.Unmarshal, json.Marshal, m.refreshProduct,
	); err != nil {
		return fmt.Errorf("failed to register refresh-product service: %w", err)
	}

	log.Printf("[wishlist] Registered services: get, add, remove, toggle, clear, refresh-product")
	return nil
}

// Start opens the snapshot store and builds the wishlist container.
func (m *Module) Start(_ context.Context) error {
	if m.catalogPort == nil {
		return fmt.Errorf("catalogPort dependency not set")
	}

	store, backend, err := m.binding.Store(sliceName)
	if err != nil {
		return fmt.Errorf("failed to open wishlist snapshot store: %w", err)
	}
	m.backend = backend
	m.lists = snapshot.NewContainer(sliceName, store, domain.NewState)

	evictCtx, cancel := context.WithCancel(context.Background())
	m.stopEvict = cancel
	go m.lists.RunEviction(evictCtx, snapshot.DefaultIdleTimeout, snapshot.DefaultEvictionInterval)
	m.service = NewService(m.lists, m.catalogPort)

	if m.eventBus == nil {
		log.Println("[wishlist] Warning: eventBus not set, events will not be published")
	} else {
		m.unsubscribe = m.lists.Subscribe(m.publishChange)
	}

	log.Printf("[wishlist] Module started (snapshot backend: %s, depends on: catalog)", backend)
	return nil
}

// Stop detaches the event publisher and stops idle-session eviction.
func (m *Module) Stop(_ context.Context) error {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.stopEvict != nil {
		m.stopEvict()
	}
	log.Println("[wishlist] Module stopped")
	return nil
}

// Health reports the snapshot backend and the number of live sessions.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.lists == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "wishlist store not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"backend":  m.backend,
			"sessions": m.lists.Len(),
		},
	}
}

func (m *Module) handlePriceChanged(ctx context.Context, event events.ProductPriceChangedEvent, _ *mono.Msg) error {
	if m.service == nil {
		return nil
	}
	product, err := m.catalogPort.GetProduct(ctx, event.ProductID)
	if err != nil {
		return fmt.Errorf("failed to resolve %s after price change: %w", event.ProductID, err)
	}
	n := m.service.RefreshLoaded(ctx, *product)
	log.Printf("[wishlist] Price of %s changed %.2f -> %.2f, refreshed %d wishlists",
		event.ProductID, event.OldPrice, event.NewPrice, n)
	return nil
}

func (m *Module) publishChange(ch snapshot.Change[domain.State]) {
	ids := make([]string, 0, len(ch.State.Items))
	for _, item := range ch.State.Items {
		ids = append(ids, item.ProductID)
	}
	drops := make([]string, 0)
	for _, item := range domain.PriceDrops(ch.State) {
		drops = append(drops, item.ProductID)
	}

	event := events.WishlistUpdatedEvent{
		SessionID:  ch.Key,
		Revision:   ch.Rev,
		Action:     ch.Action,
		ProductIDs: ids,
		PriceDrops: drops,
		OccurredAt: time.Now(),
	}
	if err := events.WishlistUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[wishlist] Warning: failed to publish WishlistUpdated event for %s: %v", ch.Key, err)
	}
}
