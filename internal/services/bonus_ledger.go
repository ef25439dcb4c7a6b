package services

import "time"

// BonusUsedInWeek reports whether the weekly flexibility allowance is already
// spent in the week containing date, scanning Monday through Sunday.
// excludeDateKey skips one day, typically the day being edited, so a day's
// own bonus never blocks itself. Always a fresh scan, never cached.
func BonusUsedInWeek(history History, date time.Time, excludeDateKey string, location *time.Location) bool {
	weekStart := StartOfWeek(date, location)
	for offset := 0; offset < 7; offset++ {
		key := weekStart.AddDate(0, 0, offset).Format(dateKeyLayout)
		if key == excludeDateKey {
			continue
		}
		if day, found := history[key]; found && day.HasBonus {
			return true
		}
	}
	return false
}
