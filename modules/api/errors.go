package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// errorMapping ties a known error message to its HTTP response. Errors
// cross the request-reply boundary as text, so matching is by message.
type errorMapping struct {
	contains string
	status   int
	code     string
	message  string
}

var errorMappings = []errorMapping{
	{"product not found", fiber.StatusNotFound, "not_found", "Product not found"},
	{"category not found", fiber.StatusNotFound, "not_found", "Category not found"},
	{"order not found", fiber.StatusNotFound, "not_found", "Order not found"},
	{"unknown collection", fiber.StatusNotFound, "not_found", "Unknown collection"},
	{"variant not found", fiber.StatusNotFound, "not_found", "Variant not found"},
	{"unknown sort option", fiber.StatusBadRequest, "bad_request", "Unknown sort option"},
	{"price must not be negative", fiber.StatusBadRequest, "bad_request", "Price must not be negative"},
	{"session id is required", fiber.StatusUnauthorized, "unauthorized", "Session is required"},
	{"not authenticated", fiber.StatusUnauthorized, "unauthorized", "Sign in to access this resource"},
	{"snapshot commit failed", fiber.StatusServiceUnavailable, "unavailable", "State could not be saved, please retry"},
}

// handleError writes the response for a failed port call without exposing
// internal details.
func handleError(c *fiber.Ctx, err error) error {
	errStr := err.Error()
	for _, m := range errorMappings {
		if strings.Contains(errStr, m.contains) {
			return c.Status(m.status).JSON(ErrorResponse{
				Error:   m.code,
				Message: m.message,
			})
		}
	}

	log.Printf("[api] Internal error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// errorHandler converts errors that escape the handlers.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
