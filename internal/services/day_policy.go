package services

import "github.com/lucaferrani/luce/internal/models"

// CompletionPolicy captures the one behavior that changed across revisions of
// the tracker: whether an explicit "ko" entry fails a day outright or is
// merely collapsed into "logged". The strict interpretation is the default.
type CompletionPolicy struct {
	TreatKOAsFailure bool
}

func DefaultCompletionPolicy() CompletionPolicy {
	return CompletionPolicy{TreatKOAsFailure: true}
}

// CountMeals counts slots carrying a non-absent entry. Unknown slot ids are
// ignored so that legacy or hand-edited records degrade instead of inflating
// the count.
func CountMeals(meals map[string]string) int {
	count := 0
	for _, slotID := range models.MealSlotIDs() {
		if meals[slotID] != "" {
			count++
		}
	}
	return count
}

func HasBonusMeal(meals map[string]string) bool {
	for _, entry := range meals {
		if entry == models.MealEntryBonus {
			return true
		}
	}
	return false
}

func hasKOMeal(meals map[string]string) bool {
	for _, entry := range meals {
		if entry == models.MealEntryKO {
			return true
		}
	}
	return false
}

// EvaluateDay decides whether a day counts as successful. Holiday and sick
// days are exempt from the tracking obligation and always succeed. A regular
// day succeeds when every slot is filled, no slot is an explicit failure
// (under the strict policy), and its bonus does not collide with a bonus
// already spent elsewhere in the same week.
func (policy CompletionPolicy) EvaluateDay(status string, meals map[string]string, bonusUsedElsewhereInWeek bool) bool {
	if status == models.DayStatusHoliday || status == models.DayStatusSick {
		return true
	}
	if CountMeals(meals) != len(models.MealSlotIDs()) {
		return false
	}
	if policy.TreatKOAsFailure && hasKOMeal(meals) {
		return false
	}
	if HasBonusMeal(meals) && bonusUsedElsewhereInWeek {
		return false
	}
	return true
}

// DayIsEmpty reports the "not yet attempted" display state: a regular day
// with no entry in any slot. Distinct from attempted-and-failed.
func DayIsEmpty(day models.DaySummary) bool {
	if day.Status != "" && day.Status != models.DayStatusRegular {
		return false
	}
	return CountMeals(day.Meals) == 0
}

// IsDaySuccessful reads a persisted record the way every view must: trusting
// the memoized IsCompleted but honoring the status exemption even on legacy
// rows that predate the cached field.
func IsDaySuccessful(day models.DaySummary, found bool) bool {
	if !found {
		return false
	}
	if day.Status == models.DayStatusHoliday || day.Status == models.DayStatusSick {
		return true
	}
	return day.IsCompleted
}

// RecomputeDerived refreshes the memoized fields of a record from its meals
// and status. Bonus context must already exclude the day itself. Returns the
// updated record; callers persist it before any streak recomputation reads it.
func (policy CompletionPolicy) RecomputeDerived(day models.DaySummary, bonusUsedElsewhereInWeek bool) models.DaySummary {
	if day.Meals == nil {
		day.Meals = map[string]string{}
	}
	if day.Status == "" {
		day.Status = models.DayStatusRegular
	}
	day.MealsCount = CountMeals(day.Meals)
	day.HasBonus = HasBonusMeal(day.Meals)
	day.IsCompleted = policy.EvaluateDay(day.Status, day.Meals, bonusUsedElsewhereInWeek)
	return day
}
