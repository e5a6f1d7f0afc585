package repository

import (
	"qryti_learn_backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) CreateEvent(event *model.LearningEvent) error {
	return r.DB.Create(event).Error
}

func (r *AnalyticsRepository) ListByUser(userID uint, eventType string, limit int) ([]model.LearningEvent, error) {
	query := r.DB.Where("user_id = ?", userID)
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	var events []model.LearningEvent
	err := query.Order("timestamp desc").Limit(limit).Find(&events).Error
	return events, err
}
