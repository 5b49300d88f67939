package db

import (
	"context"
	"errors"
	"time"

	"github.com/terraincognita07/nudge/internal/models"
	"gorm.io/gorm"
)

type EntryRepository struct {
	database *gorm.DB
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database}
}

func (repo *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	entry.Date = entry.Date.UTC()
	return repo.database.WithContext(ctx).Create(entry).Error
}

// ListByUser returns the user's entries newest first.
func (repo *EntryRepository) ListByUser(ctx context.Context, userID uint) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUserRange returns entries with date in [fromStart, toEnd), oldest
// first. Nil bounds are open.
func (repo *EntryRepository) ListByUserRange(ctx context.Context, userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Entry, error) {
	query := repo.database.WithContext(ctx).Model(&models.Entry{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("date >= ?", fromStart.UTC())
	}
	if toEnd != nil {
		query = query.Where("date < ?", toEnd.UTC())
	}

	entries := make([]models.Entry, 0)
	if err := query.Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) CountByUserRange(ctx context.Context, userID uint, fromStart time.Time, toEnd time.Time) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.Entry{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, fromStart.UTC(), toEnd.UTC()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *EntryRepository) FindOwned(ctx context.Context, entryID uint, userID uint) (models.Entry, bool, error) {
	var entry models.Entry
	err := repo.database.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Entry{}, false, nil
	}
	if err != nil {
		return models.Entry{}, false, err
	}
	return entry, true, nil
}

func (repo *EntryRepository) MarkCompleted(ctx context.Context, entryID uint, userID uint) error {
	return repo.database.WithContext(ctx).Model(&models.Entry{}).
		Where("id = ? AND user_id = ?", entryID, userID).
		Update("completed", true).Error
}
