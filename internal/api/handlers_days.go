package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lucaferrani/luce/internal/services"
)

func (handler *Handler) GetDays(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fromKey := c.Query("from")
	toKey := c.Query("to")
	if fromKey != "" {
		if _, err := services.ParseDateKey(fromKey, handler.location); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid from date")
		}
	}
	if toKey != "" {
		if _, err := services.ParseDateKey(toKey, handler.location); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid to date")
		}
	}
	if fromKey != "" && toKey != "" && toKey < fromKey {
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}

	days, err := handler.repositories.Days.ListByUserRange(user.ID, fromKey, toKey)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch days")
	}
	return c.JSON(days)
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	dateKey := c.Params("date")
	if _, err := services.ParseDateKey(dateKey, handler.location); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	day, found, err := handler.dayService.FetchDay(user.ID, dateKey)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch day")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "day not found")
	}
	return c.JSON(day)
}

// UpsertDay writes a full-day record for an arbitrary date, the calendar's
// retroactive edit path.
func (handler *Handler) UpsertDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input checkInInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	day, err := handler.dayService.EditDay(user.ID, c.Params("date"), services.CheckInInput{
		Status: input.Status,
		Meals:  input.Meals,
		Mood:   input.Mood,
	}, time.Now())
	if err != nil {
		return dayMutationError(c, err)
	}
	return c.JSON(day)
}

func (handler *Handler) ResetDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := handler.dayService.ResetDay(user.ID, c.Params("date"), time.Now())
	if err != nil {
		return dayMutationError(c, err)
	}
	return c.JSON(day)
}

func (handler *Handler) SetMeal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input mealInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	day, err := handler.dayService.SetMeal(user.ID, input.Slot, input.Entry, time.Now())
	if err != nil {
		return dayMutationError(c, err)
	}
	return c.JSON(day)
}

func (handler *Handler) CloseDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var input checkInInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	day, err := handler.dayService.CloseDay(user.ID, services.CheckInInput{
		Status: input.Status,
		Meals:  input.Meals,
		Mood:   input.Mood,
	}, time.Now())
	if err != nil {
		return dayMutationError(c, err)
	}

	refreshed, err := handler.authService.FindByID(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to reload state")
	}
	return c.JSON(fiber.Map{
		"day":          day,
		"streak":       refreshed.Streak,
		"weeklyStreak": refreshed.WeeklyStreak,
	})
}

// ClaimReward marks today's reward as collected. The day must be closed
// first; claiming is idempotent.
func (handler *Handler) ClaimReward(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if !user.IsDayClosed {
		return apiError(c, fiber.StatusConflict, "day is not closed yet")
	}
	if !user.RewardClaimed {
		user.RewardClaimed = true
		if err := handler.repositories.Users.Save(user); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to claim reward")
		}
	}
	return c.JSON(fiber.Map{"rewardClaimed": true})
}

func (handler *Handler) GetStreaks(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.dayService.RefreshStreaks(user, time.Now()); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to refresh streaks")
	}
	return c.JSON(fiber.Map{
		"streak":       user.Streak,
		"weeklyStreak": user.WeeklyStreak,
	})
}

// GetBonus reports whether the weekly flexibility allowance is still
// available in the current week.
func (handler *Handler) GetBonus(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	history, err := handler.dayService.HistoryForUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch history")
	}

	now := time.Now()
	used := services.BonusUsedInWeek(history, now, "", handler.location)
	return c.JSON(fiber.Map{
		"bonusUsed":      used,
		"bonusAvailable": !used,
	})
}

func dayMutationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnknownMealSlot),
		errors.Is(err, services.ErrInvalidMealEntry),
		errors.Is(err, services.ErrInvalidDayStatus),
		errors.Is(err, services.ErrInvalidMood):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDayLoadFailed),
		errors.Is(err, services.ErrDayCreateFailed),
		errors.Is(err, services.ErrDayUpdateFailed),
		errors.Is(err, services.ErrUserLoadFailed),
		errors.Is(err, services.ErrUserSaveFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to store day")
	default:
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
}
