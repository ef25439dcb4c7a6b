package models

import "time"

// User is the single installation account. Streak and WeeklyStreak are cached
// values recomputed from history on every mutation and again on load;
// DailyMeals is the in-progress working copy kept for snapshot compatibility —
// once a history row exists for today, that row is the authoritative source.
type User struct {
	ID            uint              `gorm:"primaryKey"`
	Email         string            `gorm:"uniqueIndex;not null"`
	PasswordHash  string            `gorm:"not null"`
	Name          string            `gorm:"not null;default:Luca"`
	Streak        int               `gorm:"not null;default:0"`
	WeeklyStreak  int               `gorm:"not null;default:0"`
	LastCheckIn   string            `gorm:"not null;default:''"`
	IsDayClosed   bool              `gorm:"not null;default:false"`
	RewardClaimed bool              `gorm:"not null;default:false"`
	DailyMeals    map[string]string `gorm:"serializer:json"`
	CreatedAt     time.Time         `gorm:"not null"`
}
