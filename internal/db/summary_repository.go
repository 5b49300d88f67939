package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/nudge/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SummaryRepository struct {
	database *gorm.DB
}

func NewSummaryRepository(database *gorm.DB) *SummaryRepository {
	return &SummaryRepository{database: database}
}

func (repo *SummaryRepository) FindByWeek(ctx context.Context, userID uint, weekStarting time.Time) (models.Summary, bool, error) {
	var summary models.Summary
	err := repo.database.WithContext(ctx).
		Where("user_id = ? AND week_starting = ?", userID, weekStarting.UTC()).
		First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Summary{}, false, nil
	}
	if err != nil {
		return models.Summary{}, false, err
	}
	return summary, true, nil
}

// CreateOrGet inserts the summary unless one already exists for the same
// user and week, and returns whichever row is stored.
func (repo *SummaryRepository) CreateOrGet(ctx context.Context, summary *models.Summary) (models.Summary, error) {
	summary.WeekStarting = summary.WeekStarting.UTC()
	if err := repo.database.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_starting"}},
		DoNothing: true,
	}).Create(summary).Error; err != nil {
		return models.Summary{}, err
	}

	stored, found, err := repo.FindByWeek(ctx, summary.UserID, summary.WeekStarting)
	if err != nil {
		return models.Summary{}, err
	}
	if !found {
		return models.Summary{}, fmt.Errorf("summary for user %d week %s vanished after insert", summary.UserID, summary.WeekStarting.Format(time.RFC3339))
	}
	return stored, nil
}

func (repo *SummaryRepository) ListByUser(ctx context.Context, userID uint) ([]models.Summary, error) {
	summaries := make([]models.Summary, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_starting DESC").
		Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}
