package services

import (
	"time"

	"github.com/lucaferrani/luce/internal/models"
)

// Sanity caps so a pathological history can never spin the scans forever.
const (
	maxDailyStreakScan  = 3650
	maxWeeklyStreakScan = 500
)

// DailyStreak counts consecutive successful days ending at today, scanning
// backward. An unfinished today never breaks an existing streak: when today
// is not (yet) successful the count simply starts at yesterday.
func DailyStreak(history History, now time.Time, location *time.Location) int {
	cursor := DateAtLocation(now, location)
	today, todayFound := history[cursor.Format(dateKeyLayout)]
	if !IsDaySuccessful(today, todayFound) {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for streak < maxDailyStreakScan {
		day, found := history[cursor.Format(dateKeyLayout)]
		if !IsDaySuccessful(day, found) {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// WeeklyStreak counts consecutive fully-successful weeks ending at, but never
// including, the current week. A week counts only when all seven days are
// successful and at least one of them is a regular tracked day — a week spent
// entirely on holiday or sick leave is not a tracking achievement. Weeks with
// no history at all predate tracking and are skipped without breaking the
// chain; any other shortfall stops the scan.
func WeeklyStreak(history History, now time.Time, location *time.Location) int {
	weekStart := StartOfWeek(now, location).AddDate(0, 0, -7)

	streak := 0
	for scanned := 0; scanned < maxWeeklyStreakScan; scanned++ {
		loggedDays := 0
		successfulDays := 0
		regularDays := 0
		for offset := 0; offset < 7; offset++ {
			key := weekStart.AddDate(0, 0, offset).Format(dateKeyLayout)
			day, found := history[key]
			if !found {
				continue
			}
			loggedDays++
			if IsDaySuccessful(day, true) {
				successfulDays++
			}
			if day.Status == "" || day.Status == models.DayStatusRegular {
				regularDays++
			}
		}

		switch {
		case loggedDays == 0:
			// Pre-tracking week: neither counts nor breaks.
		case successfulDays == 7 && regularDays > 0:
			streak++
		default:
			return streak
		}

		weekStart = weekStart.AddDate(0, 0, -7)
	}
	return streak
}
