package ratelimit

import (
	"fmt"
	"log"
	"strconv"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// SessionLocal is the fiber locals key the session middleware stores the
// session id under.
const SessionLocal = "session_id"

// Middleware limits requests per session, or per client IP when the
// request has no session.
type Middleware struct {
	sessionLimiter *SlidingWindowLimiter
	ipLimiter      *SlidingWindowLimiter
	config         MiddlewareConfig
}

// NewMiddleware creates a new rate limiting middleware.
func NewMiddleware(client *redis.Client, config MiddlewareConfig) *Middleware {
	return &Middleware{
		sessionLimiter: NewSlidingWindowLimiter(client, config.SessionConfig, config.KeyPrefix+"session:"),
		ipLimiter:      NewSlidingWindowLimiter(client, config.IPConfig, config.KeyPrefix+"ip:"),
		config:         config,
	}
}

// Handler returns the fiber middleware. Redis failures let the request
// through.
func (m *Middleware) Handler() fiber.Handler {
	return m.handle
}

func (m *Middleware) handle(c *fiber.Ctx) error {
	limiter, key := m.ipLimiter, c.IP()
	if sessionID, ok := c.Locals(SessionLocal).(string); ok && sessionID != "" {
		if !isValidKey(sessionID) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "bad_request",
				"message": "Invalid session id format",
			})
		}
		limiter, key = m.sessionLimiter, sessionID
	}
	if key == "" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "Unable to determine client IP address",
		})
	}

	result, err := limiter.Allow(c.Context(), key)
	if err != nil {
		log.Printf("[ratelimit] Warning: %v", err)
		c.Set("X-RateLimit-Error", "unavailable")
		return c.Next()
	}

	setRateLimitHeaders(c, result, limiter.Config().RequestsPerWindow)
	if !result.Allowed {
		return sendRateLimitExceeded(c, result)
	}
	return c.Next()
}

func setRateLimitHeaders(c *fiber.Ctx, result *Result, limit int) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func sendRateLimitExceeded(c *fiber.Ctx, result *Result) error {
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Set("Retry-After", strconv.Itoa(retryAfter))
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":       "rate_limited",
		"message":     fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", retryAfter),
		"retry_after": retryAfter,
	})
}

// isValidKey guards against Redis key injection through session ids.
func isValidKey(key string) bool {
	if len(key) == 0 || len(key) > 255 {
		return false
	}
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' && r != '.' {
			return false
		}
	}
	return true
}
