package services

import (
	"errors"
	"testing"
	"time"

	"github.com/lucaferrani/luce/internal/models"
)

type fakeDayRepo struct {
	days map[string]models.DaySummary
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: map[string]models.DaySummary{}}
}

func (repo *fakeDayRepo) ListByUser(userID uint) ([]models.DaySummary, error) {
	out := make([]models.DaySummary, 0, len(repo.days))
	for _, day := range repo.days {
		if day.UserID == userID {
			out = append(out, day)
		}
	}
	return out, nil
}

func (repo *fakeDayRepo) FindByUserAndDate(userID uint, dateKey string) (models.DaySummary, bool, error) {
	day, found := repo.days[dateKey]
	if !found || day.UserID != userID {
		return models.DaySummary{}, false, nil
	}
	return day, true, nil
}

func (repo *fakeDayRepo) Create(day *models.DaySummary) error {
	repo.days[day.Date] = *day
	return nil
}

func (repo *fakeDayRepo) Save(day *models.DaySummary) error {
	repo.days[day.Date] = *day
	return nil
}

type fakeUserRepo struct {
	user models.User
}

func (repo *fakeUserRepo) FindByID(userID uint) (models.User, error) {
	if repo.user.ID != userID {
		return models.User{}, errors.New("user not found")
	}
	return repo.user, nil
}

func (repo *fakeUserRepo) Save(user *models.User) error {
	repo.user = *user
	return nil
}

func newTestDayService(t *testing.T) (*DayService, *fakeDayRepo, *fakeUserRepo) {
	t.Helper()
	days := newFakeDayRepo()
	users := &fakeUserRepo{user: models.User{ID: 1, Name: "Luca"}}
	return NewDayService(days, users, DefaultCompletionPolicy(), time.UTC), days, users
}

func closedCheckIn() CheckInInput {
	return CheckInInput{
		Status: models.DayStatusRegular,
		Meals:  fullMeals(nil),
		Mood:   models.MoodHappy,
	}
}

func TestSetMealCreatesAndDerivesTodayRecord(t *testing.T) {
	service, days, users := newTestDayService(t)
	now := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)

	day, err := service.SetMeal(1, "colazione", models.MealEntryRegular, now)
	if err != nil {
		t.Fatalf("SetMeal() error: %v", err)
	}
	if day.Date != "2026-02-19" {
		t.Fatalf("unexpected date key %q", day.Date)
	}
	if day.MealsCount != 1 || day.IsCompleted {
		t.Fatalf("derived fields wrong: count=%d completed=%v", day.MealsCount, day.IsCompleted)
	}
	if _, found := days.days["2026-02-19"]; !found {
		t.Fatal("record was not persisted")
	}
	if users.user.DailyMeals["colazione"] != models.MealEntryRegular {
		t.Fatal("working copy on the user was not synced")
	}
}

func TestSetMealRejectsBadInput(t *testing.T) {
	service, _, _ := newTestDayService(t)
	now := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)

	if _, err := service.SetMeal(1, "merenda", models.MealEntryRegular, now); !errors.Is(err, ErrUnknownMealSlot) {
		t.Fatalf("expected ErrUnknownMealSlot, got %v", err)
	}
	if _, err := service.SetMeal(1, "pranzo", "double", now); !errors.Is(err, ErrInvalidMealEntry) {
		t.Fatalf("expected ErrInvalidMealEntry, got %v", err)
	}
}

func TestSetMealEmptyEntryClearsSlot(t *testing.T) {
	service, _, _ := newTestDayService(t)
	now := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)

	if _, err := service.SetMeal(1, "pranzo", models.MealEntryRegular, now); err != nil {
		t.Fatalf("SetMeal() error: %v", err)
	}
	day, err := service.SetMeal(1, "pranzo", "", now)
	if err != nil {
		t.Fatalf("SetMeal() clear error: %v", err)
	}
	if day.MealsCount != 0 {
		t.Fatalf("slot not cleared, count=%d", day.MealsCount)
	}
	if _, present := day.Meals["pranzo"]; present {
		t.Fatal("cleared slot should be absent, not empty-string")
	}
}

func TestCloseDayMarksUserAndRecomputesStreaks(t *testing.T) {
	service, days, users := newTestDayService(t)
	now := time.Date(2026, 2, 19, 21, 0, 0, 0, time.UTC)

	// Yesterday was already successful.
	yesterday := successfulDay("2026-02-18", models.DayStatusRegular)
	yesterday.UserID = 1
	days.days["2026-02-18"] = yesterday

	day, err := service.CloseDay(1, closedCheckIn(), now)
	if err != nil {
		t.Fatalf("CloseDay() error: %v", err)
	}
	if !day.IsClosed || !day.IsCompleted {
		t.Fatalf("expected closed+completed day, got closed=%v completed=%v", day.IsClosed, day.IsCompleted)
	}
	if users.user.LastCheckIn != "2026-02-19" {
		t.Fatalf("LastCheckIn = %q, want 2026-02-19", users.user.LastCheckIn)
	}
	if !users.user.IsDayClosed {
		t.Fatal("user day-closed flag not set")
	}
	if users.user.Streak != 2 {
		t.Fatalf("streak = %d, want 2 (yesterday + today)", users.user.Streak)
	}
}

func TestCloseDayBonusConflictFailsTheDay(t *testing.T) {
	service, days, _ := newTestDayService(t)
	now := time.Date(2026, 2, 19, 21, 0, 0, 0, time.UTC)

	// A bonus already spent on Tuesday of the same week.
	tuesday := bonusDay("2026-02-17")
	tuesday.UserID = 1
	days.days["2026-02-17"] = tuesday

	input := closedCheckIn()
	input.Meals = fullMeals(map[string]string{"cena": models.MealEntryBonus})

	day, err := service.CloseDay(1, input, now)
	if err != nil {
		t.Fatalf("CloseDay() error: %v", err)
	}
	if day.IsCompleted {
		t.Fatal("second bonus in a week must fail the day")
	}
	if !day.IsClosed {
		t.Fatal("the day is still closed, just not successful")
	}
}

func TestEditDayOwnBonusDoesNotBlockItself(t *testing.T) {
	service, days, _ := newTestDayService(t)
	now := time.Date(2026, 2, 19, 21, 0, 0, 0, time.UTC)

	existing := bonusDay("2026-02-17")
	existing.UserID = 1
	existing.Meals = fullMeals(map[string]string{"pranzo": models.MealEntryBonus})
	existing.IsCompleted = true
	days.days["2026-02-17"] = existing

	// Re-saving the same day with its own bonus must stay successful.
	input := CheckInInput{Meals: fullMeals(map[string]string{"pranzo": models.MealEntryBonus})}
	day, err := service.EditDay(1, "2026-02-17", input, now)
	if err != nil {
		t.Fatalf("EditDay() error: %v", err)
	}
	if !day.IsCompleted {
		t.Fatal("a day's own bonus must not conflict with itself")
	}
}

func TestEditDayPastDateLeavesWorkingCopyAlone(t *testing.T) {
	service, _, users := newTestDayService(t)
	now := time.Date(2026, 2, 19, 21, 0, 0, 0, time.UTC)

	users.user.DailyMeals = map[string]string{"colazione": models.MealEntryRegular}

	if _, err := service.EditDay(1, "2026-02-10", closedCheckIn(), now); err != nil {
		t.Fatalf("EditDay() error: %v", err)
	}
	if len(users.user.DailyMeals) != 1 {
		t.Fatal("editing a past day must not touch today's working copy")
	}
}

func TestEditDayTodayResyncsWorkingCopy(t *testing.T) {
	service, _, users := newTestDayService(t)
	now := time.Date(2026, 2, 19, 21, 0, 0, 0, time.UTC)

	input := closedCheckIn()
	if _, err := service.EditDay(1, "2026-02-19", input, now); err != nil {
		t.Fatalf("EditDay() error: %v", err)
	}
	if len(users.user.DailyMeals) != len(models.MealSlotIDs()) {
		t.Fatal("editing today must resync the working copy")
	}
}

func TestEditDayRejectsMalformedDate(t *testing.T) {
	service, _, _ := newTestDayService(t)
	now := time.Date(2026, 2, 19, 21, 0, 0, 0, time.UTC)

	if _, err := service.EditDay(1, "19/02/2026", closedCheckIn(), now); err == nil {
		t.Fatal("expected error for malformed date key")
	}
}

func TestResetDayYieldsEmptyNotFailed(t *testing.T) {
	service, days, users := newTestDayService(t)
	now := time.Date(2026, 2, 19, 21, 0, 0, 0, time.UTC)

	if _, err := service.CloseDay(1, closedCheckIn(), now); err != nil {
		t.Fatalf("CloseDay() error: %v", err)
	}
	day, err := service.ResetDay(1, "2026-02-19", now)
	if err != nil {
		t.Fatalf("ResetDay() error: %v", err)
	}
	if !DayIsEmpty(day) {
		t.Fatal("a reset day must read as untouched")
	}
	if day.IsClosed || day.IsCompleted || day.MealsCount != 0 {
		t.Fatalf("reset left residue: closed=%v completed=%v count=%d", day.IsClosed, day.IsCompleted, day.MealsCount)
	}
	if _, found := days.days["2026-02-19"]; !found {
		t.Fatal("reset keeps the row, it does not delete it")
	}
	if users.user.IsDayClosed {
		t.Fatal("resetting today must reopen the user's day")
	}
}

func TestMutationsRecomputeWeeklyStreak(t *testing.T) {
	service, days, users := newTestDayService(t)
	// Wednesday; the week of Feb 9 is fully successful.
	now := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	for offset := 0; offset < 7; offset++ {
		key := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset).Format(dateKeyLayout)
		day := successfulDay(key, models.DayStatusRegular)
		day.UserID = 1
		days.days[key] = day
	}

	if _, err := service.SetMeal(1, "colazione", models.MealEntryRegular, now); err != nil {
		t.Fatalf("SetMeal() error: %v", err)
	}
	if users.user.WeeklyStreak != 1 {
		t.Fatalf("weekly streak = %d, want 1", users.user.WeeklyStreak)
	}
}
