package api

import (
	"crypto/subtle"
	"strings"

	"github.com/0x-70da/horus-shop/modules/auth"
	"github.com/0x-70da/horus-shop/modules/live"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// sessionKey is the fiber locals key holding the session id. The live
// feed and the rate limiter read the same key.
const sessionKey = live.SessionLocal

const sessionErrorKey = "session_error"

// SessionMiddleware resolves the Bearer session token, when present, into
// the session id stored in the request locals. It never rejects a request;
// RequireSession does.
func SessionMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			c.Locals(sessionErrorKey, "Invalid authorization header format. Use: Bearer <token>")
			return c.Next()
		}

		sessionID, err := authPort.ValidateSession(c.UserContext(), token)
		if err != nil {
			c.Locals(sessionErrorKey, "Invalid or expired session token")
			return c.Next()
		}
		c.Locals(sessionKey, sessionID)
		return c.Next()
	}
}

// RequireSession rejects requests SessionMiddleware could not resolve.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionID(c) != "" {
			return c.Next()
		}
		msg, _ := c.Locals(sessionErrorKey).(string)
		if msg == "" {
			msg = "Authorization header is required"
		}
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: msg,
		})
	}
}

// LiveUpgradeMiddleware accepts websocket upgrades whose token query
// parameter is a valid session token.
func LiveUpgradeMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("token")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "token query parameter is required",
			})
		}

		sessionID, err := authPort.ValidateSession(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired session token",
			})
		}
		c.Locals(sessionKey, sessionID)
		return c.Next()
	}
}

// AdminMiddleware guards admin routes with a static token. An empty token
// leaves the routes open.
func AdminMiddleware(adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminToken != "" && subtle.ConstantTimeCompare([]byte(c.Get("X-Admin-Token")), []byte(adminToken)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   "forbidden",
				Message: "Admin token required",
			})
		}
		return c.Next()
	}
}

func sessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionKey).(string)
	return sid
}
