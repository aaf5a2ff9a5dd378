package snapshot

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/storage"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/storage/redis/v3"
)

// RedisPlugin exposes a Redis-backed snapshot Store as a mono plugin.
// Plugins start before regular modules and stop after them.
type RedisPlugin struct {
	container types.ServiceContainer
	redisAddr string
	ttl       time.Duration

	mu      sync.RWMutex
	storage storage.Storage
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*RedisPlugin)(nil)
	_ mono.HealthCheckableModule = (*RedisPlugin)(nil)
)

// NewRedisPlugin creates the plugin. Snapshots expire after ttl of
// inactivity; zero keeps them forever.
func NewRedisPlugin(redisAddr string, ttl time.Duration) *RedisPlugin {
	return &RedisPlugin{
		redisAddr: redisAddr,
		ttl:       ttl,
	}
}

// Name returns the plugin name.
func (p *RedisPlugin) Name() string {
	return "snapshot-redis"
}

// Start connects to Redis.
func (p *RedisPlugin) Start(_ context.Context) error {
	host, port := parseRedisAddr(p.redisAddr)
	st := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		PoolSize: 50,
	})

	p.mu.Lock()
	p.storage = st
	p.mu.Unlock()

	log.Printf("[snapshot] Connected to Redis at %s (ttl: %s)", p.redisAddr, p.ttl)
	log.Println("[snapshot] Redis plugin started")
	return nil
}

// Stop closes the Redis connection.
func (p *RedisPlugin) Stop(_ context.Context) error {
	p.mu.Lock()
	st := p.storage
	p.storage = nil
	p.mu.Unlock()

	if st != nil {
		if err := st.Close(); err != nil {
			log.Printf("[snapshot] Error closing Redis connection: %v", err)
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	log.Println("[snapshot] Redis plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (p *RedisPlugin) SetContainer(container types.ServiceContainer) {
	p.container = container
}

// Container returns the service container for this plugin.
func (p *RedisPlugin) Container() types.ServiceContainer {
	return p.container
}

// Store returns a Store writing keys under prefix. It can be obtained
// before Start; calls fail with ErrStoreUnavailable until then.
func (p *RedisPlugin) Store(prefix string) Store {
	return &storageStore{
		resolve: p.current,
		prefix:  prefix,
		ttl:     p.ttl,
	}
}

func (p *RedisPlugin) current() storage.Storage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.storage
}

// Health probes Redis with a read of a missing key.
func (p *RedisPlugin) Health(ctx context.Context) mono.HealthStatus {
	st := p.current()
	if st == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	if _, err := st.GetWithContext(ctx, "__health_check__"); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": p.redisAddr,
			"ttl":        p.ttl.String(),
		},
	}
}

// parseRedisAddr splits "host:port", falling back to 127.0.0.1:6379.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
