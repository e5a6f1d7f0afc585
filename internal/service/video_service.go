package service

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// videoCompletionThreshold is the watched fraction at which a video counts
// as completed.
const videoCompletionThreshold = 90.0

type VideoService struct {
	videoRepo  *repository.VideoRepository
	courseRepo *repository.CourseRepository
	events     EventSink
	logger     *zap.Logger
}

func NewVideoService(videoRepo *repository.VideoRepository, courseRepo *repository.CourseRepository, events EventSink, logger *zap.Logger) *VideoService {
	return &VideoService{videoRepo: videoRepo, courseRepo: courseRepo, events: events, logger: logger}
}

func (s *VideoService) GetVideo(videoID uint) (*model.Video, error) {
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}

func (s *VideoService) ListByModule(moduleID uint) ([]model.Video, error) {
	if _, err := s.courseRepo.FindModuleByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return s.videoRepo.ListByModule(moduleID)
}

// RegisterVideo creates a video record for admin uploads. Local files are
// probed with ffmpeg so duration_seconds never depends on client input.
func (s *VideoService) RegisterVideo(video *model.Video) (*model.Video, error) {
	module, err := s.courseRepo.FindModuleByID(video.ModuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	video.CourseID = module.CourseID

	if video.FilePath != "" {
		ext := strings.ToLower(filepath.Ext(video.FilePath))
		allowed := false
		for _, e := range util.AllowedVideoExtensions {
			if ext == e {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, util.ErrInvalidVideoFile
		}
		if info, err := util.GetVideoInfo(video.FilePath); err == nil {
			video.DurationSeconds = int(info.Duration)
		} else {
			s.logger.Warn("video probe failed", zap.String("path", video.FilePath), zap.Error(err))
		}
	}

	if err := s.videoRepo.Create(video); err != nil {
		return nil, err
	}
	return video, nil
}

type VideoProgressUpdate struct {
	CurrentPositionSeconds int   `json:"currentPositionSeconds" binding:"min=0"`
	WatchTimeSeconds       int   `json:"watchTimeSeconds" binding:"min=0"`
	Bookmarked             *bool `json:"bookmarked,omitempty"`
}

// UpdateProgress records playback position and accrued watch time. Crossing
// the completion threshold is one-way: a completed video never reverts.
func (s *VideoService) UpdateProgress(userID, videoID uint, upd VideoProgressUpdate) (*model.VideoProgress, error) {
	video, err := s.GetVideo(videoID)
	if err != nil {
		return nil, err
	}

	progress, err := s.videoRepo.GetOrCreateProgress(userID, videoID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	progress.LastWatchedAt = now
	progress.CurrentPositionSeconds = upd.CurrentPositionSeconds
	if upd.WatchTimeSeconds > 0 {
		progress.WatchTimeSeconds += upd.WatchTimeSeconds
	}
	if upd.Bookmarked != nil {
		progress.IsBookmarked = *upd.Bookmarked
	}

	if video.DurationSeconds > 0 {
		pct := float64(progress.CurrentPositionSeconds) / float64(video.DurationSeconds) * 100
		if pct > 100 {
			pct = 100
		}
		if pct > progress.CompletionPercentage {
			progress.CompletionPercentage = pct
		}
	}

	if !progress.IsCompleted && progress.CompletionPercentage >= videoCompletionThreshold {
		progress.IsCompleted = true
		progress.CompletedAt = &now
		s.events.Record(userID, model.EventVideoCompleted, map[string]interface{}{
			"video_id":  videoID,
			"module_id": video.ModuleID,
		})
	}

	if err := s.videoRepo.SaveProgress(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *VideoService) ListProgress(userID uint) ([]model.VideoProgress, error) {
	return s.videoRepo.ListProgressByUser(userID)
}
