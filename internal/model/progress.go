package model

import "time"

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID   uint `gorm:"not null;uniqueIndex:uniq_user_module_progress" json:"userId"`
	CourseID uint `gorm:"index;not null" json:"courseId"`
	ModuleID uint `gorm:"not null;uniqueIndex:uniq_user_module_progress" json:"moduleId"`

	Status           ProgressStatus `gorm:"size:20;default:'not_started';not null" json:"status"`
	Score            *float64       `json:"score,omitempty"`
	TimeSpentMinutes int            `gorm:"default:0;not null" json:"timeSpentMinutes"`
	StartedAt        *time.Time     `json:"startedAt,omitempty"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty"`
	LastAccessed     time.Time      `gorm:"not null" json:"lastAccessed"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// CourseProgressSummary aggregates a user's module progress within a course.
type CourseProgressSummary struct {
	TotalModules         int     `json:"totalModules"`
	CompletedModules     int     `json:"completedModules"`
	InProgressModules    int     `json:"inProgressModules"`
	CompletionPercentage float64 `json:"completionPercentage"`
	TotalTimeMinutes     int     `json:"totalTimeMinutes"`
	AverageScore         float64 `json:"averageScore"`
}
