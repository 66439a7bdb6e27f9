// middleware/admin.go
package middleware

import (
	"log"

	"scoreboard-system/services"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware gates the admin panel behind the DB-backed session
// cookie issued by AdminService.Login.
func AdminAuthMiddleware(admins *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(services.AdminSessionCookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
		}

		email := admins.ValidateSession(token)
		if email == "" {
			log.Printf("🚫 [ADMIN_AUTH] Invalid or expired session on %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
		}

		c.Locals("admin_email", email)
		return c.Next()
	}
}
