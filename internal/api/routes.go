package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Get("/setup-status", handler.SetupStatus)
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	state := api.Group("/state", handler.AuthRequired)
	state.Get("", handler.GetState)
	state.Get("/export", handler.ExportState)
	state.Post("/import", handler.ImportState)

	day := api.Group("/day", handler.AuthRequired)
	day.Post("/meal", handler.SetMeal)
	day.Post("/close", handler.CloseDay)
	day.Post("/reward", handler.ClaimReward)

	days := api.Group("/days", handler.AuthRequired)
	days.Get("", handler.GetDays)
	days.Get("/:date", handler.GetDay)
	days.Post("/:date", handler.UpsertDay)
	days.Post("/:date/reset", handler.ResetDay)

	api.Get("/streaks", handler.AuthRequired, handler.GetStreaks)
	api.Get("/bonus", handler.AuthRequired, handler.GetBonus)
	api.Get("/calendar", handler.AuthRequired, handler.GetCalendar)

	chat := api.Group("/chat")
	chat.Get("/status", handler.AuthRequired, handler.ChatStatus)
	chat.Post("", handler.AuthRequired, handler.Chat)

	app.Use("/chat/live", handler.upgradeLiveChat)
	app.Get("/chat/live", websocket.New(handler.LiveChat))

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Post("/change-password", handler.ChangePassword)
}
