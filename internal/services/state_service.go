package services

import (
	"encoding/json"
	"time"

	"github.com/lucaferrani/luce/internal/models"
)

// StateSnapshot is the legacy single-blob persisted shape, kept as the
// export/import surface so an installation can be moved. Field names match
// the original storage key contents exactly.
type StateSnapshot struct {
	Streak        int                    `json:"streak"`
	WeeklyStreak  int                    `json:"weeklyStreak"`
	BonusUsed     bool                   `json:"bonusUsed"`
	LastCheckIn   *string                `json:"lastCheckIn"`
	Name          string                 `json:"name"`
	DailyMeals    map[string]*string     `json:"dailyMeals"`
	RewardClaimed bool                   `json:"rewardClaimed"`
	IsDayClosed   bool                   `json:"isDayClosed"`
	History       map[string]DaySnapshot `json:"history"`
}

type DaySnapshot struct {
	Date        string             `json:"date"`
	IsCompleted bool               `json:"isCompleted"`
	MealsCount  int                `json:"mealsCount"`
	HasBonus    bool               `json:"hasBonus"`
	Mood        string             `json:"mood"`
	Meals       map[string]*string `json:"meals,omitempty"`
	Status      string             `json:"status,omitempty"`
	IsClosed    bool               `json:"isClosed,omitempty"`
}

type StateUserRepository interface {
	Save(user *models.User) error
	ReplaceHistoryAndState(user *models.User, history []models.DaySummary) error
}

type StateService struct {
	days     DayRepository
	users    StateUserRepository
	policy   CompletionPolicy
	location *time.Location
}

func NewStateService(days DayRepository, users StateUserRepository, policy CompletionPolicy, location *time.Location) *StateService {
	return &StateService{
		days:     days,
		users:    users,
		policy:   policy,
		location: location,
	}
}

func (service *StateService) historyForUser(userID uint) (History, error) {
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

// EnsureCurrentDay performs the day-rollover check done on every load: when
// the last check-in is not the current local day, the in-progress working
// state resets while history is preserved. Both streak caches are recomputed
// from history either way — the cache may have gone stale while the app was
// closed across a day boundary.
func (service *StateService) EnsureCurrentDay(user *models.User, now time.Time) error {
	todayKey := LocalDateKey(now, service.location)
	if user.LastCheckIn != todayKey {
		user.DailyMeals = map[string]string{}
		user.RewardClaimed = false
		user.IsDayClosed = false
	}

	history, err := service.historyForUser(user.ID)
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

// ExportSnapshot builds the legacy blob for a user. BonusUsed reflects a
// fresh ledger scan of the current week, never a stored flag.
func (service *StateService) ExportSnapshot(user models.User, now time.Time) (StateSnapshot, error) {
	history, err := service.historyForUser(user.ID)
	if err != nil {
		return StateSnapshot{}, err
	}

	snapshot := StateSnapshot{
		Streak:        user.Streak,
		WeeklyStreak:  user.WeeklyStreak,
		BonusUsed:     BonusUsedInWeek(history, now, "", service.location),
		Name:          user.Name,
		DailyMeals:    mealsToSnapshot(user.DailyMeals),
		RewardClaimed: user.RewardClaimed,
		IsDayClosed:   user.IsDayClosed,
		History:       make(map[string]DaySnapshot, len(history)),
	}
	if user.LastCheckIn != "" {
		lastCheckIn := user.LastCheckIn
		snapshot.LastCheckIn = &lastCheckIn
	}
	for key, day := range history {
		snapshot.History[key] = DaySnapshot{
			Date:        day.Date,
			IsCompleted: day.IsCompleted,
			MealsCount:  day.MealsCount,
			HasBonus:    day.HasBonus,
			Mood:        day.Mood,
			Meals:       mealsToSnapshot(day.Meals),
			Status:      day.Status,
			IsClosed:    day.IsClosed,
		}
	}
	return snapshot, nil
}

// ImportSnapshot replaces a user's history and working state with a parsed
// legacy blob. The load path never fails on malformed content: a blob that
// does not parse yields the defaulted empty state, and partial records
// degrade instead of erroring. Streaks are recomputed from the imported
// history, not trusted from the blob.
func (service *StateService) ImportSnapshot(user *models.User, raw []byte, now time.Time) error {
	snapshot := parseSnapshot(raw)

	history := make([]models.DaySummary, 0, len(snapshot.History))
	historyByKey := make(History, len(snapshot.History))
	for key, daySnapshot := range snapshot.History {
		day := snapshotToDay(user.ID, key, daySnapshot, service.policy)
		history = append(history, day)
		historyByKey[day.Date] = day
	}

	user.Name = snapshot.Name
	if user.Name == "" {
		user.Name = "Luca"
	}
	user.DailyMeals = snapshotToMeals(snapshot.DailyMeals)
	user.RewardClaimed = snapshot.RewardClaimed
	user.IsDayClosed = snapshot.IsDayClosed
	user.LastCheckIn = normalizeLastCheckIn(snapshot.LastCheckIn, service.location)
	user.Streak = DailyStreak(historyByKey, now, service.location)
	user.WeeklyStreak = WeeklyStreak(historyByKey, now, service.location)

	if err := service.users.ReplaceHistoryAndState(user, history); err != nil {
		return ErrUserSaveFailed
	}
	return nil
}

func parseSnapshot(raw []byte) StateSnapshot {
	var snapshot StateSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return StateSnapshot{}
	}
	return snapshot
}

// snapshotToDay rebuilds a persisted record from a snapshot entry. Records
// carrying a meals map get their derived fields recomputed; legacy records
// without one keep their stored flags, since the sources to re-derive them
// are gone.
func snapshotToDay(userID uint, key string, snapshot DaySnapshot, policy CompletionPolicy) models.DaySummary {
	day := models.DaySummary{
		UserID:      userID,
		Date:        key,
		Status:      snapshot.Status,
		Meals:       snapshotToMeals(snapshot.Meals),
		MealsCount:  snapshot.MealsCount,
		HasBonus:    snapshot.HasBonus,
		IsCompleted: snapshot.IsCompleted,
		IsClosed:    snapshot.IsClosed,
		Mood:        snapshot.Mood,
	}
	if day.Status == "" {
		day.Status = models.DayStatusRegular
	}
	if !IsValidMood(day.Mood) {
		day.Mood = models.MoodHappy
	}
	if snapshot.Meals != nil {
		day.MealsCount = CountMeals(day.Meals)
		day.HasBonus = HasBonusMeal(day.Meals)
	}
	return day
}

func mealsToSnapshot(meals map[string]string) map[string]*string {
	converted := make(map[string]*string, len(meals))
	for slotID, entry := range meals {
		if entry == "" {
			converted[slotID] = nil
			continue
		}
		value := entry
		converted[slotID] = &value
	}
	return converted
}

func snapshotToMeals(meals map[string]*string) map[string]string {
	converted := make(map[string]string, len(meals))
	for slotID, entry := range meals {
		if entry == nil || *entry == "" || !models.IsKnownMealSlot(slotID) || !IsValidMealEntry(*entry) {
			continue
		}
		converted[slotID] = *entry
	}
	return converted
}

// normalizeLastCheckIn accepts both the YYYY-MM-DD key form and the older
// locale date-string form; anything unparseable clears the field, which just
// forces a rollover reset on the next load.
func normalizeLastCheckIn(value *string, location *time.Location) string {
	if value == nil {
		return ""
	}
	if _, err := ParseDateKey(*value, location); err == nil {
		return *value
	}
	for _, layout := range []string{"Mon Jan 02 2006", "Mon Jan 2 2006"} {
		if parsed, err := time.ParseInLocation(layout, *value, location); err == nil {
			return LocalDateKey(parsed, location)
		}
	}
	return ""
}
