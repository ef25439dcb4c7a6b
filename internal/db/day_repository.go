package db

import (
	"github.com/lucaferrani/luce/internal/models"
	"gorm.io/gorm"
)

type DayRepository struct {
	database *gorm.DB
}

func NewDayRepository(database *gorm.DB) *DayRepository {
	return &DayRepository{database: database}
}

func (repo *DayRepository) ListByUser(userID uint) ([]models.DaySummary, error) {
	days := make([]models.DaySummary, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("date ASC, id ASC").Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (repo *DayRepository) ListByUserRange(userID uint, fromKey string, toKey string) ([]models.DaySummary, error) {
	query := repo.database.Model(&models.DaySummary{}).Where("user_id = ?", userID)
	if fromKey != "" {
		query = query.Where("date >= ?", fromKey)
	}
	if toKey != "" {
		query = query.Where("date <= ?", toKey)
	}

	days := make([]models.DaySummary, 0)
	if err := query.Order("date ASC, id ASC").Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (repo *DayRepository) FindByUserAndDate(userID uint, dateKey string) (models.DaySummary, bool, error) {
	day := models.DaySummary{}
	result := repo.database.
		Where("user_id = ? AND date = ?", userID, dateKey).
		Order("id DESC").
		Limit(1).
		Find(&day)
	if result.Error != nil {
		return models.DaySummary{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DaySummary{}, false, nil
	}
	return day, true, nil
}

func (repo *DayRepository) Create(day *models.DaySummary) error {
	return repo.database.Create(day).Error
}

func (repo *DayRepository) Save(day *models.DaySummary) error {
	return repo.database.Save(day).Error
}
