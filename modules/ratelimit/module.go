package ratelimit

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Module owns the Redis client behind the request limiter.
type Module struct {
	client     *redis.Client
	middleware atomic.Pointer[Middleware]
	config     MiddlewareConfig
	redisAddr  string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new rate limiting module.
func NewModule(redisAddr string, config MiddlewareConfig) *Module {
	return &Module{
		redisAddr: redisAddr,
		config:    config,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "ratelimit"
}

// Start connects to Redis and builds the middleware.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr: m.redisAddr,
	})
	if err := m.client.Ping(ctx).Err(); err != nil {
		_ = m.client.Close()
		m.client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.middleware.Store(NewMiddleware(m.client, m.config))
	log.Printf("[ratelimit] Module started (redis: %s, %d requests per %s)",
		m.redisAddr, m.config.SessionConfig.RequestsPerWindow, m.config.SessionConfig.WindowSize)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			log.Printf("[ratelimit] Error closing Redis connection: %v", err)
		}
	}
	log.Println("[ratelimit] Module stopped")
	return nil
}

// Health pings Redis.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "redis client not initialized",
		}
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis": m.redisAddr,
		},
	}
}

// Handler limits requests once the module has started. Before that,
// requests pass through.
func (m *Module) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if mw := m.middleware.Load(); mw != nil {
			return mw.handle(c)
		}
		return c.Next()
	}
}
