package services

import (
	"errors"

	"github.com/lucaferrani/luce/internal/models"
)

var (
	ErrUnknownMealSlot  = errors.New("unknown meal slot")
	ErrInvalidMealEntry = errors.New("invalid meal entry")
	ErrInvalidDayStatus = errors.New("invalid day status")
	ErrInvalidMood      = errors.New("invalid mood")
)

// CheckInInput is the full-day payload used when closing or editing a day.
type CheckInInput struct {
	Status string
	Meals  map[string]string
	Mood   string
}

func IsValidMealEntry(entry string) bool {
	switch entry {
	case "", models.MealEntryRegular, models.MealEntryBonus, models.MealEntryKO:
		return true
	default:
		return false
	}
}

func IsValidDayStatus(status string) bool {
	switch status {
	case models.DayStatusRegular, models.DayStatusHoliday, models.DayStatusSick:
		return true
	default:
		return false
	}
}

func IsValidMood(mood string) bool {
	switch mood {
	case models.MoodHappy, models.MoodSoSo, models.MoodHard:
		return true
	default:
		return false
	}
}

// NormalizeCheckInInput validates a check-in payload and fills defaults.
// Unknown slot keys are rejected rather than silently dropped; an empty mood
// falls back to the default so legacy callers keep working.
func NormalizeCheckInInput(input CheckInInput) (CheckInInput, error) {
	if input.Status == "" {
		input.Status = models.DayStatusRegular
	}
	if !IsValidDayStatus(input.Status) {
		return input, ErrInvalidDayStatus
	}

	if input.Mood == "" {
		input.Mood = models.MoodHappy
	}
	if !IsValidMood(input.Mood) {
		return input, ErrInvalidMood
	}

	normalized := make(map[string]string, len(input.Meals))
	for slotID, entry := range input.Meals {
		if !models.IsKnownMealSlot(slotID) {
			return input, ErrUnknownMealSlot
		}
		if !IsValidMealEntry(entry) {
			return input, ErrInvalidMealEntry
		}
		if entry != "" {
			normalized[slotID] = entry
		}
	}
	input.Meals = normalized

	return input, nil
}
