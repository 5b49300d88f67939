package db

import (
	"context"
	"errors"

	"github.com/terraincognita07/nudge/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

func (repo *SettingsRepository) FindByUser(ctx context.Context, userID uint) (models.Setting, bool, error) {
	var setting models.Setting
	err := repo.database.WithContext(ctx).Where("user_id = ?", userID).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Setting{}, false, nil
	}
	if err != nil {
		return models.Setting{}, false, err
	}
	return setting, true, nil
}

// GetOrCreate returns the user's settings, inserting the defaults on first access.
func (repo *SettingsRepository) GetOrCreate(ctx context.Context, userID uint) (models.Setting, error) {
	setting, found, err := repo.FindByUser(ctx, userID)
	if err != nil {
		return models.Setting{}, err
	}
	if found {
		return setting, nil
	}

	defaults := models.DefaultSetting(userID)
	if err := repo.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&defaults).Error; err != nil {
		return models.Setting{}, err
	}

	setting, found, err = repo.FindByUser(ctx, userID)
	if err != nil {
		return models.Setting{}, err
	}
	if !found {
		return models.Setting{}, gorm.ErrRecordNotFound
	}
	return setting, nil
}

// UpdateByUser applies only the given columns.
func (repo *SettingsRepository) UpdateByUser(ctx context.Context, userID uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return repo.database.WithContext(ctx).Model(&models.Setting{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}
