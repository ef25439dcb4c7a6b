package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lucaferrani/luce/internal/services"
)

const monthQueryLayout = "2006-01"

// GetCalendar renders one month as Monday-first week rows, each cell carrying
// the three-way display state and each row its weekly award flag.
func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := time.Now()
	monthStart := services.DateAtLocation(now, handler.location)
	monthStart = time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, handler.location)
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.ParseInLocation(monthQueryLayout, raw, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid month")
		}
		monthStart = parsed
	}

	history, err := handler.dayService.HistoryForUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch history")
	}

	weeks := services.BuildCalendarWeeks(monthStart, history, now, handler.location)
	return c.JSON(fiber.Map{
		"month": monthStart.Format(monthQueryLayout),
		"weeks": weeks,
	})
}
