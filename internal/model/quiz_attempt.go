package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt is one user's single pass at a quiz. completed_at == nil means
// the attempt is still in progress; once set, score, correct_count and passed
// are set with it in the same transaction.
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID uint `gorm:"index:idx_attempt_user_quiz;not null" json:"userId"`
	QuizID uint `gorm:"index:idx_attempt_user_quiz;not null" json:"quizId"`

	Score          *float64 `json:"score,omitempty"` // percentage
	TotalQuestions int      `gorm:"not null" json:"totalQuestions"`
	CorrectCount   *int     `gorm:"column:correct_count" json:"correctCount,omitempty"`

	// Answers maps question id -> submitted answer (string or array of
	// strings, depending on the question type).
	Answers datatypes.JSON `json:"answers,omitempty"`

	StartedAt        time.Time  `gorm:"not null" json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	TimeTakenMinutes *int       `json:"timeTakenMinutes,omitempty"`
	Passed           *bool      `json:"passed,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) Completed() bool {
	return a.CompletedAt != nil
}
