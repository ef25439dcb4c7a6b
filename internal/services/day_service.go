package services

import (
	"errors"
	"time"

	"github.com/lucaferrani/luce/internal/models"
)

var (
	ErrDayLoadFailed   = errors.New("load day record failed")
	ErrDayCreateFailed = errors.New("create day record failed")
	ErrDayUpdateFailed = errors.New("update day record failed")
	ErrUserLoadFailed  = errors.New("load user failed")
	ErrUserSaveFailed  = errors.New("save user failed")
)

type DayRepository interface {
	ListByUser(userID uint) ([]models.DaySummary, error)
	FindByUserAndDate(userID uint, dateKey string) (models.DaySummary, bool, error)
	Create(day *models.DaySummary) error
	Save(day *models.DaySummary) error
}

type DayUserRepository interface {
	FindByID(userID uint) (models.User, error)
	Save(user *models.User) error
}

// DayService owns every state transition that touches the history: marking a
// meal, closing the day, editing a past day, resetting a day. Each transition
// recomputes the derived fields of the touched record and then both streak
// caches, synchronously, before it returns — views never see stale values.
type DayService struct {
	days     DayRepository
	users    DayUserRepository
	policy   CompletionPolicy
	location *time.Location
}

func NewDayService(days DayRepository, users DayUserRepository, policy CompletionPolicy, location *time.Location) *DayService {
	return &DayService{
		days:     days,
		users:    users,
		policy:   policy,
		location: location,
	}
}

func (service *DayService) Policy() CompletionPolicy {
	return service.policy
}

// HistoryForUser loads the full history keyed by local date.
func (service *DayService) HistoryForUser(userID uint) (History, error) {
	days, err := service.days.ListByUser(userID)
	if err != nil {
		return nil, ErrDayLoadFailed
	}
	history := make(History, len(days))
	for _, day := range days {
		history[day.Date] = day
	}
	return history, nil
}

func (service *DayService) FetchDay(userID uint, dateKey string) (models.DaySummary, bool, error) {
	day, found, err := service.days.FindByUserAndDate(userID, dateKey)
	if err != nil {
		return models.DaySummary{}, false, ErrDayLoadFailed
	}
	return day, found, nil
}

// SetMeal merges one slot's entry into today's record. An empty entry clears
// the slot back to absent.
func (service *DayService) SetMeal(userID uint, slotID string, entry string, now time.Time) (models.DaySummary, error) {
	if !models.IsKnownMealSlot(slotID) {
		return models.DaySummary{}, ErrUnknownMealSlot
	}
	if !IsValidMealEntry(entry) {
		return models.DaySummary{}, ErrInvalidMealEntry
	}

	todayKey := LocalDateKey(now, service.location)
	day, found, err := service.days.FindByUserAndDate(userID, todayKey)
	if err != nil {
		return models.DaySummary{}, ErrDayLoadFailed
	}
	if !found {
		day = emptyDay(userID, todayKey)
	}
	if day.Meals == nil {
		day.Meals = map[string]string{}
	}
	if entry == "" {
		delete(day.Meals, slotID)
	} else {
		day.Meals[slotID] = entry
	}

	return service.storeAndRecompute(userID, day, found, now, func(user *models.User) {
		user.DailyMeals = day.Meals
	})
}

// CloseDay replaces today's record with the check-in snapshot, marks the day
// closed and records the check-in date on the user.
func (service *DayService) CloseDay(userID uint, input CheckInInput, now time.Time) (models.DaySummary, error) {
	normalized, err := NormalizeCheckInInput(input)
	if err != nil {
		return models.DaySummary{}, err
	}

	todayKey := LocalDateKey(now, service.location)
	day, found, err := service.days.FindByUserAndDate(userID, todayKey)
	if err != nil {
		return models.DaySummary{}, ErrDayLoadFailed
	}
	if !found {
		day = emptyDay(userID, todayKey)
	}
	day.Status = normalized.Status
	day.Meals = normalized.Meals
	day.Mood = normalized.Mood
	day.IsClosed = true

	return service.storeAndRecompute(userID, day, found, now, func(user *models.User) {
		user.DailyMeals = day.Meals
		user.IsDayClosed = true
		user.LastCheckIn = todayKey
	})
}

// EditDay replaces an arbitrary date's record. When the edited date is today,
// the in-progress working copy is resynced from the edited result.
func (service *DayService) EditDay(userID uint, dateKey string, input CheckInInput, now time.Time) (models.DaySummary, error) {
	if _, err := ParseDateKey(dateKey, service.location); err != nil {
		return models.DaySummary{}, err
	}
	normalized, err := NormalizeCheckInInput(input)
	if err != nil {
		return models.DaySummary{}, err
	}

	day, found, err := service.days.FindByUserAndDate(userID, dateKey)
	if err != nil {
		return models.DaySummary{}, ErrDayLoadFailed
	}
	if !found {
		day = emptyDay(userID, dateKey)
	}
	day.Status = normalized.Status
	day.Meals = normalized.Meals
	day.Mood = normalized.Mood

	todayKey := LocalDateKey(now, service.location)
	return service.storeAndRecompute(userID, day, found, now, func(user *models.User) {
		if dateKey == todayKey {
			user.DailyMeals = day.Meals
			user.IsDayClosed = day.IsClosed
		}
	})
}

// ResetDay clears a record back to an untouched regular day. The result is an
// empty day, not a failed one; the row is kept.
func (service *DayService) ResetDay(userID uint, dateKey string, now time.Time) (models.DaySummary, error) {
	if _, err := ParseDateKey(dateKey, service.location); err != nil {
		return models.DaySummary{}, err
	}

	day, found, err := service.days.FindByUserAndDate(userID, dateKey)
	if err != nil {
		return models.DaySummary{}, ErrDayLoadFailed
	}
	if !found {
		day = emptyDay(userID, dateKey)
	}
	day.Status = models.DayStatusRegular
	day.Meals = map[string]string{}
	day.Mood = models.MoodHappy
	day.IsClosed = false

	todayKey := LocalDateKey(now, service.location)
	return service.storeAndRecompute(userID, day, found, now, func(user *models.User) {
		if dateKey == todayKey {
			user.DailyMeals = map[string]string{}
			user.IsDayClosed = false
		}
	})
}

// RefreshStreaks recomputes both cached streak values from history and saves
// them on the user.
func (service *DayService) RefreshStreaks(user *models.User, now time.Time) error {
	history, err := service.HistoryForUser(user.ID)
	if err != nil {
		return err
	}
	user.Streak = DailyStreak(history, now, service.location)
	user.WeeklyStreak = WeeklyStreak(history, now, service.location)
	if err := service.users.Save(user); err != nil {
		return ErrUserSaveFailed
	}
	return nil
}

// storeAndRecompute finishes every mutation the same way: derive the cached
// fields with the day itself excluded from the bonus scan, persist the row,
// then recompute streaks over the fresh history and persist the user.
func (service *DayService) storeAndRecompute(userID uint, day models.DaySummary, existed bool, now time.Time, applyToUser func(*models.User)) (models.DaySummary, error) {
	history, err := service.HistoryForUser(userID)
	if err != nil {
		return models.DaySummary{}, err
	}

	dayDate, err := ParseDateKey(day.Date, service.location)
	if err != nil {
		return models.DaySummary{}, err
	}
	bonusElsewhere := BonusUsedInWeek(history, dayDate, day.Date, service.location)
	day = service.policy.RecomputeDerived(day, bonusElsewhere)

	if existed {
		if err := service.days.Save(&day); err != nil {
			return models.DaySummary{}, ErrDayUpdateFailed
		}
	} else {
		if err := service.days.Create(&day); err != nil {
			return models.DaySummary{}, ErrDayCreateFailed
		}
	}
	history[day.Date] = day

	user, err := service.users.FindByID(userID)
	if err != nil {
		return models.DaySummary{}, ErrUserLoadFailed
	}
	if applyToUser != nil {
		applyToUser(&user)
	}
	user.Streak = DailyStreak(history, now, service.location)
	user.WeeklyStreak = WeeklyStreak(history, now, service.location)
	if err := service.users.Save(&user); err != nil {
		return models.DaySummary{}, ErrUserSaveFailed
	}

	return day, nil
}

func emptyDay(userID uint, dateKey string) models.DaySummary {
	return models.DaySummary{
		UserID: userID,
		Date:   dateKey,
		Status: models.DayStatusRegular,
		Meals:  map[string]string{},
		Mood:   models.MoodHappy,
	}
}
