package service

import (
	"encoding/json"
	"time"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/repository"

	"go.uber.org/zap"
)

// AnalyticsService persists learning events and mirrors them to the log. It
// is the production EventSink.
type AnalyticsService struct {
	repo   *repository.AnalyticsRepository
	logger *zap.Logger
}

func NewAnalyticsService(repo *repository.AnalyticsRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger}
}

// Record stores one event row. Event persistence is best effort: a failed
// insert is logged and swallowed so analytics can never break the learning
// flow it observes.
func (s *AnalyticsService) Record(userID uint, eventType string, data map[string]interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("unencodable event payload", zap.String("eventType", eventType), zap.Error(err))
		payload = []byte("{}")
	}

	event := &model.LearningEvent{
		UserID:    userID,
		EventType: eventType,
		EventData: payload,
		Timestamp: time.Now(),
	}
	if err := s.repo.CreateEvent(event); err != nil {
		s.logger.Warn("failed to persist learning event",
			zap.String("eventType", eventType),
			zap.Uint("userId", userID),
			zap.Error(err))
		return
	}
	s.logger.Debug("learning event",
		zap.String("eventType", eventType),
		zap.Uint("userId", userID))
}

func (s *AnalyticsService) ListByUser(userID uint, eventType string, limit int) ([]model.LearningEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByUser(userID, eventType, limit)
}
