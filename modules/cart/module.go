package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	domain "github.com/0x-70da/horus-shop/domain/cart"
	"github.com/0x-70da/horus-shop/events"
	"github.com/0x-70da/horus-shop/modules/catalog"
	"github.com/0x-70da/horus-shop/modules/snapshot"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// sliceName is both the module name and the snapshot bucket name.
const sliceName = "cart"

// Module is the per-session cart store.
type Module struct {
	binding     snapshot.Binding
	backend     string
	carts       *snapshot.Container[domain.State]
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
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new cart module.
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
		log.Printf("[cart] Received snapshot plugin %q", alias)
	}
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.CartUpdatedV1.ToBase(),
	}
}

// RegisterServices registers the cart request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getCart,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "add-item", json.Unmarshal, json.Marshal, m.addItem,
	); err != nil {
		return fmt.Errorf("failed to register add-item service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "remove-item", json.Unmarshal, json.Marshal, m.removeItem,
	); err != nil {
		return fmt.Errorf("failed to register remove-item service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-quantity", json.Unmarshal, json.Marshal, m.updateQuantity,
	); err != nil {
		return fmt.Errorf("failed to register update-quantity service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "clear", json.Unmarshal, json.Marshal, m.clearCart,
	); err != nil {
		return fmt.Errorf("failed to register clear service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "apply-promo", json.Unmarshal, json.Marshal, m.applyPromo,
	); err != nil {
		return fmt.Errorf("failed to register apply-promo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "remove-promo", json.Unmarshal, json.Marshal, m.removePromo,
	); err != nil {
		return fmt.Errorf("failed to register remove-promo service: %w", err)
	}

	log.Printf("[cart] Registered services: get, add-item, remove-item, update-quantity, clear, apply-promo, remove-promo")
	return nil
}

// Start opens the snapshot store and builds the cart container.
func (m *Module) Start(_ context.Context) error {
	if m.catalogPort == nil {
		return fmt.Errorf("catalogPort dependency not set")
	}

	store, backend, err := m.binding.Store(sliceName)
	if err != nil {
		return fmt.Errorf("failed to open cart snapshot store: %w", err)
	}
	m.backend = backend
	m.carts = snapshot.NewContainer(sliceName, store, domain.NewState)

	evictCtx, cancel := context.WithCancel(context.Background())
	m.stopEvict = cancel
	go m.carts.RunEviction(evictCtx, snapshot.DefaultIdleTimeout, snapshot.DefaultEvictionInterval)
	m.service = NewService(m.carts, m.catalogPort)

	if m.eventBus == nil {
		log.Println("[cart] Warning: eventBus not set, events will not be published")
	} else {
		m.unsubscribe = m.carts.Subscribe(m.publishChange)
	}

	log.Printf("[cart] Module started (snapshot backend: %s, depends on: catalog)", backend)
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
	log.Println("[cart] Module stopped")
	return nil
}

// Health reports the snapshot backend and the number of live sessions.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.carts == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "cart store not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"backend":  m.backend,
			"sessions": m.carts.Len(),
		},
	}
}

func (m *Module) publishChange(ch snapshot.Change[domain.State]) {
	event := events.CartUpdatedEvent{
		SessionID:     ch.Key,
		Revision:      ch.Rev,
		Action:        ch.Action,
		ItemCount:     domain.ItemCount(ch.State),
		Subtotal:      domain.Subtotal(ch.State),
		Total:         domain.Total(ch.State),
		PromoCode:     ch.State.PromoCode,
		PromoDiscount: ch.State.PromoDiscount,
		OccurredAt:    time.Now(),
	}
	if err := events.CartUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[cart] Warning: failed to publish CartUpdated event for %s: %v", ch.Key, err)
	}
}
