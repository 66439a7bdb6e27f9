// handlers/match.go
package handlers

import (
	"scoreboard-system/middleware"
	"scoreboard-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(
	app *fiber.App,
	matches *services.MatchService,
	scoreboards *services.ScoreboardService,
	users *services.UserService,
	ticks *services.TickScheduler,
) {
	auth := middleware.UserContextMiddleware(users)

	// 🔐 Owner routes. Middleware is attached per route — /matches/:id and
	// the overlay below must stay reachable without a session.
	app.Post("/matches", auth, matches.CreateMatch)
	app.Get("/matches/my", auth, matches.GetMyMatches)
	app.Put("/matches/:id/score", auth, matches.UpdateScore)
	app.Put("/matches/:id/timer", auth, matches.UpdateTimer)
	app.Put("/matches/:id/timer/reset", auth, matches.ResetMatchTimer)
	app.Put("/matches/:id/timer/adjust", auth, matches.AdjustMatchTimer)
	app.Put("/matches/:id/half", auth, matches.UpdateHalf)
	app.Put("/matches/:id/visibility", auth, matches.UpdateVisibility)
	app.Put("/matches/:id/team", auth, matches.UpdateTeam)
	app.Put("/matches/:id/settings", auth, matches.UpdateSettings)

	// 🔓 Public routes — the overlay poller and dashboard preview
	app.Get("/matches/:id", matches.GetMatch)
	app.Get("/scoreboard", scoreboards.GetScoreboard)
	app.Get("/scoreboard/:slug", scoreboards.GetScoreboard)

	// 🔧 Internal: coarse-wake tick catch-up, invoked by an external cron
	// scheduler when the service is not running its own continuous driver.
	internal := app.Group("/internal", middleware.ServiceTokenMiddleware())
	internal.Post("/tick/catchup", func(c *fiber.Ctx) error {
		n := ticks.RunCatchup(c.Context())
		return c.JSON(fiber.Map{"success": true, "ticks": n})
	})
}
