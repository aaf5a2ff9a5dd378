package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// newTestClient skips the test when Redis is not reachable.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	if err := client.Ping(t.Context()).Err(); err != nil {
		_ = client.Close()
		t.Skip("Redis not available, skipping integration test")
	}
	t.Cleanup(func() {
		keys, _ := client.Keys(context.Background(), "test:horus:*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
		_ = client.Close()
	})
	return client
}

func TestSlidingWindowLimiter_Allow(t *testing.T) {
	client := newTestClient(t)
	limiter := NewSlidingWindowLimiter(client, Config{
		RequestsPerWindow: 3,
		WindowSize:        time.Minute,
	}, "test:horus:limiter:")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "sess-1")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !result.Allowed {
			t.Errorf("request %d should be allowed", i+1)
		}
		if result.Remaining != 3-i-1 {
			t.Errorf("Remaining = %d, want %d", result.Remaining, 3-i-1)
		}
	}

	result, err := limiter.Allow(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if result.Allowed {
		t.Error("4th request should be denied")
	}
	if result.RetryAfter <= 0 {
		t.Error("RetryAfter should be positive")
	}

	other, err := limiter.Allow(ctx, "sess-2")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !other.Allowed {
		t.Error("a different session should have its own window")
	}
}

func TestSlidingWindowLimiter_WindowSlides(t *testing.T) {
	client := newTestClient(t)
	limiter := NewSlidingWindowLimiter(client, Config{
		RequestsPerWindow: 1,
		WindowSize:        time.Minute,
	}, "test:horus:slide:")
	ctx := context.Background()

	start := time.Now()
	limiter.now = func() time.Time { return start }
	if result, err := limiter.Allow(ctx, "sess-1"); err != nil || !result.Allowed {
		t.Fatalf("first request: allowed = %v, err = %v", result != nil && result.Allowed, err)
	}
	if result, err := limiter.Allow(ctx, "sess-1"); err != nil || result.Allowed {
		t.Fatalf("second request: allowed = %v, err = %v", result != nil && result.Allowed, err)
	}

	limiter.now = func() time.Time { return start.Add(time.Minute + time.Second) }
	result, err := limiter.Allow(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !result.Allowed {
		t.Error("request after the window should be allowed")
	}
}
