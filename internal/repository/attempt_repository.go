package repository

import (
	"time"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) CountByUserAndQuiz(userID, quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

// CreateUnderLimit inserts the attempt only while the (user, quiz) attempt
// count is below maxAttempts. The count and insert run in one transaction;
// callers serialize concurrent starts for the same pair on top of this.
func (r *AttemptRepository) CreateUnderLimit(attempt *model.QuizAttempt, maxAttempts int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ?", attempt.UserID, attempt.QuizID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(maxAttempts) {
			return util.ErrAttemptLimitReached
		}
		return tx.Create(attempt).Error
	})
}

// CompletionUpdate carries every field set by the submit transition.
type CompletionUpdate struct {
	Answers          datatypes.JSON
	Score            float64
	CorrectCount     int
	Passed           bool
	CompletedAt      time.Time
	TimeTakenMinutes int
}

// Complete finalizes an in-progress attempt. The completed_at IS NULL guard
// makes the InProgress -> Completed transition atomic: a second submit, or a
// submit racing a submit, affects zero rows and is reported as already
// submitted. No partial score write is observable.
func (r *AttemptRepository) Complete(attemptID uint, upd CompletionUpdate) error {
	res := r.DB.Model(&model.QuizAttempt{}).
		Where("id = ? AND completed_at IS NULL", attemptID).
		Updates(map[string]interface{}{
			"answers":            upd.Answers,
			"score":              upd.Score,
			"correct_count":      upd.CorrectCount,
			"passed":             upd.Passed,
			"completed_at":       upd.CompletedAt,
			"time_taken_minutes": upd.TimeTakenMinutes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrAttemptAlreadySubmitted
	}
	return nil
}

func (r *AttemptRepository) ListByUser(userID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ?", userID).
		Order("started_at desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByUserAndQuiz(userID, quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("started_at desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) BestScore(userID, quizID uint) (*float64, error) {
	var best *float64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND score IS NOT NULL", userID, quizID).
		Select("MAX(score)").
		Scan(&best).Error
	return best, err
}
