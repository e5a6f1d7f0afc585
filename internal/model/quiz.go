package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMCQ            QuestionType = "mcq"
	QuestionMultipleSelect QuestionType = "multiple_select"
	QuestionCaseStudy      QuestionType = "case_study"
	QuestionTrueFalse      QuestionType = "true_false"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	ModuleID         uint   `gorm:"index;not null" json:"moduleId"`
	Title            string `gorm:"size:200;not null" json:"title"`
	Description      string `gorm:"type:text" json:"description"`
	TimeLimitMinutes int    `gorm:"default:30;not null" json:"timeLimitMinutes"`
	PassingScore     int    `gorm:"default:70;not null" json:"passingScore"` // percentage required to pass
	MaxAttempts      int    `gorm:"default:3;not null" json:"maxAttempts"`
	IsActive         bool   `gorm:"default:true;not null" json:"isActive"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// swagger:model Question
type Question struct {
	BaseModel
	QuizID       uint           `gorm:"index;not null" json:"quizId"`
	QuestionText string         `gorm:"type:text;not null" json:"questionText"`
	QuestionType QuestionType   `gorm:"size:20;not null" json:"questionType"`
	Options      datatypes.JSON `json:"options,omitempty"` // JSON array of option strings, empty for case_study
	// CorrectAnswers holds the accepted answer set and never leaves the server
	// on student-facing payloads.
	CorrectAnswers datatypes.JSON `json:"-"`
	Explanation    string         `gorm:"type:text" json:"-"`
	Points         int            `gorm:"default:1;not null" json:"points"`
	OrderIndex     int            `gorm:"not null" json:"orderIndex"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) OptionList() []string {
	var opts []string
	if len(q.Options) > 0 {
		_ = json.Unmarshal(q.Options, &opts)
	}
	return opts
}

func (q *Question) CorrectAnswerList() []string {
	var answers []string
	if len(q.CorrectAnswers) > 0 {
		_ = json.Unmarshal(q.CorrectAnswers, &answers)
	}
	return answers
}

func (q *Question) SetOptions(opts []string) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = raw
	return nil
}

func (q *Question) SetCorrectAnswers(answers []string) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	q.CorrectAnswers = raw
	return nil
}
