package services

import (
	"time"

	"github.com/lucaferrani/luce/internal/models"
)

const (
	CalendarDaySuccess   = "success"
	CalendarDayChallenge = "challenge"
	CalendarDayEmpty     = "empty"
)

type CalendarDayState struct {
	Date       time.Time `json:"-"`
	DateString string    `json:"date"`
	Day        int       `json:"day"`
	InMonth    bool      `json:"inMonth"`
	IsToday    bool      `json:"isToday"`
	State      string    `json:"state"`
	HasBonus   bool      `json:"hasBonus"`
	IsClosed   bool      `json:"isClosed"`
	Mood       string    `json:"mood,omitempty"`
}

// CalendarWeekState is one Monday-first row of the month grid. Award mirrors
// the weekly streak's qualification rule so the star in the calendar and the
// weekly counter can never disagree.
type CalendarWeekState struct {
	Days  []CalendarDayState `json:"days"`
	Award bool               `json:"award"`
}

// BuildCalendarWeeks renders a month as full Monday–Sunday rows, padded with
// the out-of-month days needed to square the grid. Each cell carries the
// three-way display state: success, challenge (attempted but unsuccessful),
// or empty (never attempted).
func BuildCalendarWeeks(monthStart time.Time, history History, now time.Time, location *time.Location) []CalendarWeekState {
	monthStart = DateAtLocation(monthStart, location)
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := StartOfWeek(monthStart, location)
	gridEnd := StartOfWeek(monthEnd, location).AddDate(0, 0, 6)

	todayKey := LocalDateKey(now, location)

	weeks := make([]CalendarWeekState, 0, 6)
	for weekStart := gridStart; !weekStart.After(gridEnd); weekStart = weekStart.AddDate(0, 0, 7) {
		week := CalendarWeekState{Days: make([]CalendarDayState, 0, 7)}
		successfulDays := 0
		regularDays := 0

		for offset := 0; offset < 7; offset++ {
			date := weekStart.AddDate(0, 0, offset)
			key := date.Format(dateKeyLayout)
			day, found := history[key]

			state := CalendarDayEmpty
			if found && !DayIsEmpty(day) {
				state = CalendarDayChallenge
				if IsDaySuccessful(day, true) {
					state = CalendarDaySuccess
				}
			}
			if found && IsDaySuccessful(day, true) {
				successfulDays++
			}
			if found && (day.Status == "" || day.Status == models.DayStatusRegular) {
				regularDays++
			}

			week.Days = append(week.Days, CalendarDayState{
				Date:       date,
				DateString: key,
				Day:        date.Day(),
				InMonth:    date.Month() == monthStart.Month(),
				IsToday:    key == todayKey,
				State:      state,
				HasBonus:   found && day.HasBonus,
				IsClosed:   found && day.IsClosed,
				Mood:       day.Mood,
			})
		}

		week.Award = successfulDays == 7 && regularDays > 0
		weeks = append(weeks, week)
	}

	return weeks
}
