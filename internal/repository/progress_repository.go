package repository

import (
	"time"

	"qryti_learn_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// GetOrCreate returns the progress row for (user, module), creating it on
// first touch. The unique index absorbs create races: on duplicate key the
// existing row is fetched and returned.
func (r *ProgressRepository) GetOrCreate(userID, courseID, moduleID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	progress = model.UserProgress{
		UserID:       userID,
		CourseID:     courseID,
		ModuleID:     moduleID,
		Status:       model.ProgressNotStarted,
		LastAccessed: time.Now(),
	}
	if err := r.DB.Create(&progress).Error; err != nil {
		var existing model.UserProgress
		if ferr := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Save(progress *model.UserProgress) error {
	return r.DB.Save(progress).Error
}

func (r *ProgressRepository) ListByUserAndCourse(userID, courseID uint) ([]model.UserProgress, error) {
	var records []model.UserProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&records).Error
	return records, err
}

func (r *ProgressRepository) ListByUser(userID uint) ([]model.UserProgress, error) {
	var records []model.UserProgress
	err := r.DB.Where("user_id = ?", userID).Find(&records).Error
	return records, err
}
