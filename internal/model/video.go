package model

import "time"

// swagger:model Video
type Video struct {
	BaseModel
	ModuleID uint `gorm:"index;not null" json:"moduleId"`
	CourseID uint `gorm:"index;not null" json:"courseId"`

	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	// Either a YouTube reference or an uploaded file path is set.
	YoutubeID    string `gorm:"size:50;index" json:"youtubeId,omitempty"`
	YoutubeURL   string `gorm:"size:500" json:"youtubeUrl,omitempty"`
	FilePath     string `gorm:"size:500" json:"-"`
	ThumbnailURL string `gorm:"size:500" json:"thumbnailUrl,omitempty"`

	DurationSeconds int    `gorm:"default:0" json:"durationSeconds"`
	VideoType       string `gorm:"size:50;default:'lesson'" json:"videoType"`
	OrderIndex      int    `gorm:"default:0" json:"orderIndex"`
	IsActive        bool   `gorm:"default:true" json:"isActive"`
	IsPreview       bool   `gorm:"default:false" json:"isPreview"` // viewable without enrollment
}

func (Video) TableName() string {
	return "videos"
}

// VideoProgress tracks one user's playback state for one video.
// swagger:model VideoProgress
type VideoProgress struct {
	BaseModel
	UserID  uint `gorm:"not null;uniqueIndex:uniq_user_video_progress" json:"userId"`
	VideoID uint `gorm:"not null;uniqueIndex:uniq_user_video_progress" json:"videoId"`

	WatchTimeSeconds       int     `gorm:"default:0" json:"watchTimeSeconds"`
	CurrentPositionSeconds int     `gorm:"default:0" json:"currentPositionSeconds"`
	CompletionPercentage   float64 `gorm:"default:0" json:"completionPercentage"`

	IsCompleted   bool       `gorm:"default:false" json:"isCompleted"`
	IsBookmarked  bool       `gorm:"default:false" json:"isBookmarked"`
	LastWatchedAt time.Time  `json:"lastWatchedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

func (VideoProgress) TableName() string {
	return "video_progress"
}
