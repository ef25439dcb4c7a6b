package db

import "gorm.io/gorm"

type Repositories struct {
	Users *UserRepository
	Days  *DayRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users: NewUserRepository(database),
		Days:  NewDayRepository(database),
	}
}
