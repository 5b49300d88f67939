package services

import (
	"context"
	"regexp"

	"github.com/terraincognita07/nudge/internal/models"
)

var reminderTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// SettingsUpdate carries a partial update; nil fields are left untouched.
type SettingsUpdate struct {
	ReminderTime      *string `json:"reminderTime"`
	PushNotifications *bool   `json:"pushNotifications"`
	WeeklySummary     *bool   `json:"weeklySummary"`
	AITone            *string `json:"aiTone"`
}

type SettingsService struct {
	settings SettingsRepository
}

func NewSettingsService(settings SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

func (service *SettingsService) Get(ctx context.Context, userID uint) (models.Setting, error) {
	setting, err := service.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return models.Setting{}, storageError("load settings", err)
	}
	return setting, nil
}

func (service *SettingsService) Update(ctx context.Context, userID uint, update SettingsUpdate) (models.Setting, error) {
	updates, err := settingsColumns(update)
	if err != nil {
		return models.Setting{}, err
	}

	// ensures the row exists before a partial UPDATE
	if _, err := service.settings.GetOrCreate(ctx, userID); err != nil {
		return models.Setting{}, storageError("load settings", err)
	}
	if err := service.settings.UpdateByUser(ctx, userID, updates); err != nil {
		return models.Setting{}, storageError("update settings", err)
	}
	return service.Get(ctx, userID)
}

func settingsColumns(update SettingsUpdate) (map[string]any, error) {
	updates := make(map[string]any, 4)
	if update.ReminderTime != nil {
		if !reminderTimePattern.MatchString(*update.ReminderTime) {
			return nil, newValidationError("reminderTime", "reminder time must use HH:MM")
		}
		updates["reminder_time"] = *update.ReminderTime
	}
	if update.PushNotifications != nil {
		updates["push_notifications"] = *update.PushNotifications
	}
	if update.WeeklySummary != nil {
		updates["weekly_summary"] = *update.WeeklySummary
	}
	if update.AITone != nil {
		if !models.IsKnownTone(*update.AITone) {
			return nil, newValidationError("aiTone", "unknown tone")
		}
		updates["ai_tone"] = *update.AITone
	}
	return updates, nil
}
