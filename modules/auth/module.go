package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/0x-70da/horus-shop/domain/account"
	"github.com/0x-70da/horus-shop/events"
	"github.com/0x-70da/horus-shop/modules/snapshot"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// sliceName is both the module name and the snapshot bucket name.
const sliceName = "auth"

// Module issues session tokens and holds the per-session auth store.
type Module struct {
	binding     snapshot.Binding
	backend     string
	tokenConfig TokenConfig
	states      *snapshot.Container[account.AuthState]
	service     *Service
	eventBus    mono.EventBus
	unsubscribe func()
	stopEvict   context.CancelFunc
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new auth module signing tokens with config.
func NewModule(config TokenConfig) *Module {
	return &Module{tokenConfig: config}
}

// Name returns the module name.
func (m *Module) Name() string {
	return sliceName
}

// SetPlugin receives the snapshot backend plugin.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if m.binding.Accept(alias, plugin) {
		log.Printf("[auth] Received snapshot plugin %q", alias)
	}
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.AuthChangedV1.ToBase(),
	}
}

// RegisterServices registers the auth request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-session", json.Unmarshal, json.Marshal, m.createSession,
	); err != nil {
		return fmt.Errorf("failed to register create-session service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-session", json.Unmarshal, json.Marshal, m.validateSession,
	); err != nil {
		return fmt.Errorf("failed to register validate-session service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getAuth,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.login,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.register,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "logout", json.Unmarshal, json.Marshal, m.logout,
	); err != nil {
		return fmt.Errorf("failed to register logout service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-profile", json.Unmarshal, json.Marshal, m.updateProfile,
	); err != nil {
		return fmt.Errorf("failed to register update-profile service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "add-address", json.Unmarshal, json.Marshal, m.addAddress,
	); err != nil {
		return fmt.Errorf("failed to register add-address service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-address", json.Unmarshal, json.Marshal, m.updateAddress,
	); err != nil {
		return fmt.Errorf("failed to register update-address service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "remove-address", json.Unmarshal, json.Marshal, m.removeAddress,
	); err != nil {
		return fmt.Errorf("failed to register remove-address service: %w", err)
	}

	log.Printf("[auth] Registered services: create-session, validate-session, get, login, register, logout, update-profile, add-address, update-address, remove-address")
	return nil
}

// Start opens the snapshot store and builds the auth container.
func (m *Module) Start(_ context.Context) error {
	if m.tokenConfig.SecretKey == "" {
		return fmt.Errorf("auth secret key not set")
	}

	ids, err := NewIDGenerator()
	if err != nil {
		return err
	}

	store, backend, err := m.binding.Store(sliceName)
	if err != nil {
		return fmt.Errorf("failed to open auth snapshot store: %w", err)
	}
	m.backend = backend
	m.states = snapshot.NewContainer(sliceName, store, account.NewState)

	evictCtx, cancel := context.WithCancel(context.Background())
	m.stopEvict = cancel
	go m.states.RunEviction(evictCtx, snapshot.DefaultIdleTimeout, snapshot.DefaultEvictionInterval)
	m.service = NewService(m.states, NewTokenManager(m.tokenConfig), ids)

	if m.eventBus == nil {
		log.Println("[auth] Warning: eventBus not set, events will not be published")
	} else {
		m.unsubscribe = m.states.Subscribe(m.publishChange)
	}

	log.Printf("[auth] Module started (snapshot backend: %s, token ttl: %s)", backend, m.tokenConfig.TTL)
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
	log.Println("[auth] Module stopped")
	return nil
}

// Health reports the snapshot backend and the number of live sessions.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.states == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "auth store not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"backend":  m.backend,
			"sessions": m.states.Len(),
			"issuer":   m.tokenConfig.Issuer,
		},
	}
}

func (m *Module) publishChange(ch snapshot.Change[account.AuthState]) {
	action := ch.Action
	if action == snapshot.ActionReset {
		action = ActionLogout
	}
	event := events.AuthChangedEvent{
		SessionID:       ch.Key,
		Revision:        ch.Rev,
		Action:          action,
		IsAuthenticated: ch.State.IsAuthenticated,
		OccurredAt:      time.Now(),
	}
	if ch.State.User != nil {
		event.UserID = ch.State.User.ID
	}
	if err := events.AuthChangedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[auth] Warning: failed to publish AuthChanged event for %s: %v", ch.Key, err)
	}
}
