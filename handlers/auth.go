// handlers/auth.go
package handlers

import (
	"scoreboard-system/middleware"
	"scoreboard-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, users *services.UserService, payments *services.PaymentService) {
	// 🔓 Login flow against the external identity service
	app.Get("/oauth/google/redirect_url", users.GetOAuthRedirectURL)
	app.Post("/sessions", users.CreateSession)
	app.Get("/logout", users.Logout)

	// 🔐 Authenticated user routes
	auth := middleware.UserContextMiddleware(users)
	app.Get("/users/me", auth, users.GetMe)
	app.Post("/payments", auth, payments.CreatePayment)
	app.Get("/payments/my", auth, payments.GetMyPayments)
}
