package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Felixnganga-max/kamson/internal/apperr"
)

type TokenVerifier func(token string) (userID string, err error)

// Protect requires a valid Bearer token and stores the user id in
// request locals.
func Protect(verify TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			return apperr.Unauthorized("missing auth")
		}
		token = strings.TrimPrefix(token, "Bearer ")
		userID, err := verify(token)
		if err != nil {
			return apperr.Unauthorized("invalid token")
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}
