package repository

import (
	"qryti_learn_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// FindByID loads a quiz with its questions in display order.
func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) ListByModule(moduleID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("module_id = ? AND is_active = ?", moduleID, true).
		Order("id asc").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) ListActive() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("is_active = ?", true).Order("id asc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) CountQuestions(quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *QuizRepository) CountAttempts(quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

// AverageScore over completed attempts, 0 when none.
func (r *QuizRepository) AverageScore(quizID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND score IS NOT NULL", quizID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
