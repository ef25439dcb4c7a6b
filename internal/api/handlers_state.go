package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lucaferrani/luce/internal/models"
	"github.com/lucaferrani/luce/internal/services"
)

// GetState is the app-load endpoint: it runs the day-rollover check, then
// returns the full user state the client renders from.
func (handler *Handler) GetState(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := time.Now()
	if err := handler.stateService.EnsureCurrentDay(user, now); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to refresh state")
	}

	snapshot, err := handler.stateService.ExportSnapshot(*user, now)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load state")
	}

	return c.JSON(fiber.Map{
		"state": snapshot,
		"today": services.LocalDateKey(now, handler.location),
		"slots": models.DefaultMealSlots(),
	})
}

// ExportState serves the raw snapshot blob as a download.
func (handler *Handler) ExportState(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	snapshot, err := handler.stateService.ExportSnapshot(*user, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to export state")
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="luce_state.json"`)
	return c.JSON(snapshot)
}

// ImportState replaces the account's history and working state with an
// uploaded snapshot blob. Malformed blobs import as the empty state rather
// than failing, matching the forgiving load path.
func (handler *Handler) ImportState(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.stateService.ImportSnapshot(user, c.Body(), time.Now()); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to import state")
	}

	return c.JSON(fiber.Map{
		"ok":           true,
		"streak":       user.Streak,
		"weeklyStreak": user.WeeklyStreak,
	})
}
