package model

import (
	"time"

	"gorm.io/datatypes"
)

// Learning event types emitted by the quiz, progress and certificate services.
const (
	EventQuizStarted        = "quiz_started"
	EventQuizCompleted      = "quiz_completed"
	EventModuleCompleted    = "module_completed"
	EventCourseCompleted    = "course_completed"
	EventCertificateIssued  = "certificate_generated"
	EventCertificateRevoked = "certificate_revoked"
	EventVideoCompleted     = "video_completed"
	EventResourceDownloaded = "resource_downloaded"
	EventCourseEnrolled     = "course_enrolled"
	EventLogin              = "login"
	EventRegistration       = "registration"
)

// LearningEvent is an opaque structured event for external analytics. The
// emitting services never read these rows back.
// swagger:model LearningEvent
type LearningEvent struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"userId"`
	EventType string         `gorm:"size:50;index;not null" json:"eventType"`
	EventData datatypes.JSON `json:"eventData,omitempty"`
	SessionID string         `gorm:"size:100" json:"sessionId,omitempty"`
	IPAddress string         `gorm:"size:45" json:"ipAddress,omitempty"`
	UserAgent string         `gorm:"size:500" json:"userAgent,omitempty"`
	Timestamp time.Time      `gorm:"index;not null" json:"timestamp"`
}

func (LearningEvent) TableName() string {
	return "learning_events"
}
