package services

import (
	"time"

	"github.com/lucaferrani/luce/internal/models"
)

const dateKeyLayout = "2006-01-02"

// History maps local date keys (YYYY-MM-DD) to their persisted records.
type History = map[string]models.DaySummary

// DateAtLocation normalizes an instant to local midnight of its calendar day.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// LocalDateKey returns the device-local YYYY-MM-DD key for an instant. The
// key must follow the wall clock of the given location, never UTC: a UTC key
// would flip the day boundary for users away from the meridian.
func LocalDateKey(value time.Time, location *time.Location) string {
	return DateAtLocation(value, location).Format(dateKeyLayout)
}

// StartOfWeek returns the Monday (local midnight) of the ISO week containing
// the given instant. Sunday counts as offset 6 from Monday, not 0.
func StartOfWeek(value time.Time, location *time.Location) time.Time {
	day := DateAtLocation(value, location)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// ParseDateKey parses a YYYY-MM-DD key at local midnight.
func ParseDateKey(key string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	return time.ParseInLocation(dateKeyLayout, key, location)
}
