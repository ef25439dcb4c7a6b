package models

import "time"

// DaySummary is the persisted record for one calendar date. Date is the
// device-local YYYY-MM-DD key, never a UTC conversion. MealsCount, HasBonus
// and IsCompleted are memoized derivations of Meals/Status and are recomputed
// synchronously on every mutation.
type DaySummary struct {
	ID          uint              `gorm:"primaryKey" json:"-"`
	UserID      uint              `gorm:"not null;uniqueIndex:uidx_user_date" json:"-"`
	Date        string            `gorm:"type:text;not null;uniqueIndex:uidx_user_date" json:"date"`
	Status      string            `gorm:"not null;default:regular" json:"status"`
	Meals       map[string]string `gorm:"serializer:json" json:"meals"`
	MealsCount  int               `gorm:"not null;default:0" json:"mealsCount"`
	HasBonus    bool              `gorm:"not null;default:false" json:"hasBonus"`
	IsCompleted bool              `gorm:"not null;default:false" json:"isCompleted"`
	IsClosed    bool              `gorm:"not null;default:false" json:"isClosed"`
	Mood        string            `gorm:"not null;default:felice" json:"mood"`
	CreatedAt   time.Time         `json:"-"`
	UpdatedAt   time.Time         `json:"-"`
}
