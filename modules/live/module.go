package live

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/0x-70da/horus-shop/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Message types pushed to live feed clients.
const (
	TypeConnected    = "connected"
	TypeCartUpdated  = "cart_updated"
	TypeWishlist     = "wishlist_updated"
	TypeAuthChanged  = "auth_changed"
	TypePriceChanged = "price_changed"
)

// Message is the frame sent to live feed clients.
type Message struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Module relays store events to the websocket clients of each session.
type Module struct {
	hub       *Hub
	cancelHub context.CancelFunc
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new live feed module.
func NewModule() *Module {
	return &Module{
		hub: NewHub(),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "live"
}

// Start runs the hub.
func (m *Module) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	log.Println("[live] Module started - websocket hub running")
	return nil
}

// Stop closes every client and waits for the hub to exit.
func (m *Module) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	log.Printf("[live] Module stopped - %d clients were connected", clientCount)
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// RegisterEventConsumers subscribes to the store events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.CartUpdatedV1, m.handleCartUpdated, m,
	); err != nil {
		return fmt.Errorf("failed to register CartUpdated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.WishlistUpdatedV1, m.handleWishlistUpdated, m,
	); err != nil {
		return fmt.Errorf("failed to register WishlistUpdated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.AuthChangedV1, m.handleAuthChanged, m,
	); err != nil {
		return fmt.Errorf("failed to register AuthChanged consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.ProductPriceChangedV1, m.handlePriceChanged, m,
	); err != nil {
		return fmt.Errorf("failed to register ProductPriceChanged consumer: %w", err)
	}

	log.Println("[live] Registered event consumers: CartUpdated, WishlistUpdated, AuthChanged, ProductPriceChanged")
	return nil
}

func (m *Module) handleCartUpdated(_ context.Context, event events.CartUpdatedEvent, _ *mono.Msg) error {
	m.hub.Publish(event.SessionID, Message{
		Type:      TypeCartUpdated,
		Payload:   event,
		Timestamp: event.OccurredAt,
	})
	return nil
}

func (m *Module) handleWishlistUpdated(_ context.Context, event events.WishlistUpdatedEvent, _ *mono.Msg) error {
	m.hub.Publish(event.SessionID, Message{
		Type:      TypeWishlist,
		Payload:   event,
		Timestamp: event.OccurredAt,
	})
	return nil
}

func (m *Module) handleAuthChanged(_ context.Context, event events.AuthChangedEvent, _ *mono.Msg) error {
	m.hub.Publish(event.SessionID, Message{
		Type:      TypeAuthChanged,
		Payload:   event,
		Timestamp: event.OccurredAt,
	})
	return nil
}

// handlePriceChanged goes to every client, signed in or not.
func (m *Module) handlePriceChanged(_ context.Context, event events.ProductPriceChangedEvent, _ *mono.Msg) error {
	log.Printf("[live] Broadcasting price change for %s: %.2f -> %.2f", event.ProductID, event.OldPrice, event.NewPrice)
	m.hub.Publish("", Message{
		Type:      TypePriceChanged,
		Payload:   event,
		Timestamp: event.ChangedAt,
	})
	return nil
}

// Hub returns the websocket hub for the API module to use.
func (m *Module) Hub() *Hub {
	return m.hub
}
