package repository

import (
	"context"

	"github.com/yukikurage/event-management-api/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Omit("Event").Create(activity).Error
}

func (r *GormActivityRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Activity, error) {
	var activity models.Activity
	query := r.db.WithContext(ctx)
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&activity, id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *GormActivityRepository) ListByEvent(ctx context.Context, eventID uint64) ([]models.Activity, error) {
	activities := []models.Activity{}
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("start_date ASC").
		Find(&activities).Error
	return activities, err
}

// Update writes mutable fields. The parent event is never changed.
func (r *GormActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).
		Model(&models.Activity{ID: activity.ID}).
		Select("Name", "Description", "StartDate", "EndDate").
		Updates(activity).Error
}

func (r *GormActivityRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Activity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
