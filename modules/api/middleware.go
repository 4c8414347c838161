package api

import (
	"fmt"
	"time"

	domain "github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/user"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// AuthMiddleware rejects requests without a valid session cookie.
func AuthMiddleware(users user.UserPort, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return unauthorized(c)
		}

		claims, err := users.ValidateToken(c.UserContext(), token)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": MsgUnauthorized})
}

// ClaimsFromContext returns the claims stored by AuthMiddleware.
func ClaimsFromContext(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok
}

// RequestLogger logs "METHOD URL -> status" once the response is written.
// Authenticated requests also carry the token subject.
func RequestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := logger.Info()
		if status >= fiber.StatusInternalServerError {
			event = logger.Error()
		}
		if claims, ok := ClaimsFromContext(c); ok {
			event = event.Str("user_id", claims.UserID)
		}
		event.
			Str("method", c.Method()).
			Str("url", c.OriginalURL()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg(fmt.Sprintf("%s %s -> %d", c.Method(), c.OriginalURL(), status))
		return nil
	}
}
