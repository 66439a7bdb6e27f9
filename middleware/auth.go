// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"scoreboard-system/services"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware resolves the session cookie (or a Bearer token)
// against the identity service and attaches the local user row to the
// request. Applied only to owner-facing routes; the overlay and match read
// endpoints stay public.
func UserContextMiddleware(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(services.SessionCookieName)
		if token == "" {
			if auth := c.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
		}

		profile, err := users.Identity.GetUserBySessionToken(token)
		if err != nil {
			log.Printf("🚫 [AUTH] Session validation failed for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired session"})
		}

		user, err := users.UpsertFromProfile(profile)
		if err != nil {
			log.Printf("❌ [AUTH] User upsert failed for %s: %v", profile.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to resolve user"})
		}

		c.Locals("user", user)
		return c.Next()
	}
}
