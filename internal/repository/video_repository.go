package repository

import (
	"time"

	"qryti_learn_backend/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	DB *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

func (r *VideoRepository) Create(video *model.Video) error {
	return r.DB.Create(video).Error
}

func (r *VideoRepository) FindByID(id uint) (*model.Video, error) {
	var video model.Video
	err := r.DB.First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) ListByModule(moduleID uint) ([]model.Video, error) {
	var videos []model.Video
	err := r.DB.Where("module_id = ? AND is_active = ?", moduleID, true).
		Order("order_index asc").
		Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) GetOrCreateProgress(userID, videoID uint) (*model.VideoProgress, error) {
	var progress model.VideoProgress
	err := r.DB.Where("user_id = ? AND video_id = ?", userID, videoID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	progress = model.VideoProgress{
		UserID:        userID,
		VideoID:       videoID,
		LastWatchedAt: time.Now(),
	}
	if err := r.DB.Create(&progress).Error; err != nil {
		var existing model.VideoProgress
		if ferr := r.DB.Where("user_id = ? AND video_id = ?", userID, videoID).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &progress, nil
}

func (r *VideoRepository) SaveProgress(progress *model.VideoProgress) error {
	return r.DB.Save(progress).Error
}

func (r *VideoRepository) ListProgressByUser(userID uint) ([]model.VideoProgress, error) {
	var records []model.VideoProgress
	err := r.DB.Where("user_id = ?", userID).Find(&records).Error
	return records, err
}
