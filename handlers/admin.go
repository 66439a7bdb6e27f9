// handlers/admin.go
package handlers

import (
	"scoreboard-system/middleware"
	"scoreboard-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(
	app *fiber.App,
	admins *services.AdminService,
	users *services.UserService,
	payments *services.PaymentService,
	matches *services.MatchService,
) {
	app.Post("/admin/login", admins.Login)
	app.Post("/admin/logout", admins.Logout)

	// 🔒 Admin-only routes
	admin := app.Group("/admin", middleware.AdminAuthMiddleware(admins))
	admin.Get("/check", admins.Check)
	admin.Get("/users", users.GetAllUsers)
	admin.Put("/users/:id/toggle", users.ToggleUserActivation)
	admin.Get("/payments", payments.GetAllPayments)
	admin.Put("/payments/:id/confirm", payments.ConfirmPayment)
	admin.Put("/payments/:id/reject", payments.RejectPayment)
	admin.Get("/matches", matches.GetAllMatches)
	admin.Delete("/matches/:id", matches.DeleteMatch)
}
