package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	Entries   *EntryRepository
	Summaries *SummaryRepository
	Settings  *SettingsRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		Entries:   NewEntryRepository(database),
		Summaries: NewSummaryRepository(database),
		Settings:  NewSettingsRepository(database),
	}
}
