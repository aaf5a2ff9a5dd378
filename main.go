package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/0x-70da/horus-shop/modules/api"
	"github.com/0x-70da/horus-shop/modules/auth"
	"github.com/0x-70da/horus-shop/modules/cart"
	"github.com/0x-70da/horus-shop/modules/catalog"
	"github.com/0x-70da/horus-shop/modules/live"
	"github.com/0x-70da/horus-shop/modules/ratelimit"
	"github.com/0x-70da/horus-shop/modules/snapshot"
	"github.com/0x-70da/horus-shop/modules/wishlist"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	kvjetstream "github.com/go-monolith/mono/plugin/kv-jetstream"
	"github.com/gofiber/fiber/v2"
)

type config struct {
	httpPort        int
	dbPath          string
	fixturePath     string
	jetStreamDir    string
	snapshotBackend string
	redisAddr       string
	rateLimit       bool
	ratePerMinute   int
	jwtSecret       string
	sessionTTL      time.Duration
	shutdownTimeout time.Duration
	adminToken      string
	corsOrigins     string
	debug           bool
}

func loadConfig() config {
	return config{
		httpPort:        getEnvInt("HTTP_PORT", 3000),
		dbPath:          getEnv("DB_PATH", "catalog.db"),
		fixturePath:     getEnv("CATALOG_FIXTURE", ""),
		jetStreamDir:    getEnv("JETSTREAM_DIR", "/tmp/horus-shop"),
		snapshotBackend: getEnv("SNAPSHOT_BACKEND", "jetstream"),
		redisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		rateLimit:       getEnvBool("RATE_LIMIT_ENABLED", false),
		ratePerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		jwtSecret:       getEnv("JWT_SECRET", ""),
		sessionTTL:      getEnvDuration("SESSION_TTL", 720*time.Hour),
		shutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		adminToken:      getEnv("ADMIN_TOKEN", ""),
		corsOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "*"),
		debug:           getEnvBool("DEBUG", false),
	}
}

func main() {
	log.Println("=== Horus Shop - Fiber + JetStream Storefront ===")

	cfg := loadConfig()

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
		mono.WithJetStreamStorageDir(cfg.jetStreamDir),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	snapshotPlugin, alias, err := newSnapshotPlugin(cfg)
	if err != nil {
		log.Fatalf("Failed to create snapshot plugin: %v", err)
	}
	// Store modules receive the plugin through SetPlugin(alias, plugin).
	if err := app.RegisterPlugin(snapshotPlugin, alias); err != nil {
		log.Fatalf("Failed to register snapshot plugin: %v", err)
	}

	tokenConfig := auth.DefaultTokenConfig()
	if cfg.jwtSecret != "" {
		tokenConfig.SecretKey = cfg.jwtSecret
	} else {
		log.Println("Warning: JWT_SECRET not set, using the development secret")
	}
	tokenConfig.TTL = cfg.sessionTTL

	liveModule := live.NewModule()

	var limiter fiber.Handler
	var limiterModule *ratelimit.Module
	if cfg.rateLimit {
		limiterModule = ratelimit.NewModule(cfg.redisAddr, ratelimit.DefaultMiddlewareConfig(cfg.ratePerMinute))
		limiter = limiterModule.Handler()
	}

	apiModule := api.NewModule(api.Config{
		Port:        cfg.httpPort,
		CORSOrigins: cfg.corsOrigins,
		AdminToken:  cfg.adminToken,
	}, liveModule.Handler(), limiter)

	// Service providers first, then the live feed consumer, then the
	// HTTP module that depends on all of them.
	app.Register(catalog.NewModule(cfg.dbPath, cfg.fixturePath, cfg.debug))
	app.Register(cart.NewModule())
	app.Register(wishlist.NewModule())
	app.Register(auth.NewModule(tokenConfig))
	app.Register(liveModule)
	if limiterModule != nil {
		app.Register(limiterModule)
	}
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// newSnapshotPlugin builds the store backend picked by SNAPSHOT_BACKEND
// and the alias it is registered under. Each store slice gets its own
// bucket or key prefix.
func newSnapshotPlugin(cfg config) (mono.PluginModule, string, error) {
	switch cfg.snapshotBackend {
	case "redis":
		return snapshot.NewRedisPlugin(cfg.redisAddr, cfg.sessionTTL), snapshot.RedisAlias, nil
	case "jetstream", "":
	default:
		log.Printf("Warning: unknown SNAPSHOT_BACKEND %q, using jetstream", cfg.snapshotBackend)
	}

	kvStore, err := kvjetstream.New(kvjetstream.Config{
		Buckets: []kvjetstream.BucketConfig{
			{
				Name:        "cart",
				Description: "Cart snapshots by session",
				TTL:         cfg.sessionTTL,
				Storage:     kvjetstream.FileStorage,
			},
			{
				Name:        "wishlist",
				Description: "Wishlist snapshots by session",
				TTL:         cfg.sessionTTL,
				Storage:     kvjetstream.FileStorage,
			},
			{
				Name:        "auth",
				Description: "Auth snapshots by session",
				TTL:         cfg.sessionTTL,
				Storage:     kvjetstream.FileStorage,
			},
		},
	})
	if err != nil {
		return nil, "", err
	}
	return kvStore, snapshot.KVAlias, nil
}

func printStartupInfo(cfg config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("HTTP API:         http://localhost:%d/api/v1", cfg.httpPort)
	log.Printf("Live feed:        ws://localhost:%d/ws?token=<session token>", cfg.httpPort)
	log.Printf("Snapshot backend: %s", cfg.snapshotBackend)
	log.Printf("Catalog database: %s", cfg.dbPath)
	if cfg.rateLimit {
		log.Printf("Rate limit:       %d requests/minute via %s", cfg.ratePerMinute, cfg.redisAddr)
	}
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST   /api/v1/sessions                  - Start an anonymous session")
	log.Println("  GET    /api/v1/products                  - List products (filter, sort, page)")
	log.Println("  GET    /api/v1/products/:id              - Get product")
	log.Println("  GET    /api/v1/search?q=                 - Search products")
	log.Println("  GET    /api/v1/categories                - List categories")
	log.Println("  GET    /api/v1/cart                      - Get cart")
	log.Println("  POST   /api/v1/cart/items                - Add cart item")
	log.Println("  GET    /api/v1/wishlist                  - Get wishlist")
	log.Println("  GET    /api/v1/auth                      - Get auth state")
	log.Println("  POST   /api/v1/auth/login                - Sign in")
	log.Println("  GET    /api/v1/orders                    - List orders")
	log.Println("  GET    /health                           - Health check")
	log.Println("  GET    /metrics                          - Prometheus metrics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}
