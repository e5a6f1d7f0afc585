package service

import (
	"encoding/json"
	"math"
	"strconv"

	"qryti_learn_backend/internal/model"
)

// Answer is one submitted answer after decoding. Single-choice question types
// carry Single; multiple_select carries Multi. Valid reports whether the raw
// payload had the right shape for the question type; an invalid answer is
// scored as incorrect rather than rejecting the whole submission.
type Answer struct {
	Single string
	Multi  []string
	IsMulti bool
	Valid  bool
}

// ParseAnswer decodes a raw submitted answer against the question type.
// Single-choice types accept a JSON string, boolean or number; true_false
// submissions commonly arrive as bare booleans. multiple_select requires a
// JSON array of strings, anything else is invalid.
func ParseAnswer(questionType model.QuestionType, raw json.RawMessage) Answer {
	switch questionType {
	case model.QuestionMultipleSelect:
		var values []string
		if err := json.Unmarshal(raw, &values); err != nil {
			return Answer{IsMulti: true}
		}
		return Answer{Multi: values, IsMulti: true, Valid: true}
	case model.QuestionMCQ, model.QuestionTrueFalse, model.QuestionCaseStudy:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return Answer{Single: s, Valid: true}
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return Answer{Single: strconv.FormatBool(b), Valid: true}
		}
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return Answer{Single: strconv.FormatFloat(n, 'f', -1, 64), Valid: true}
		}
		return Answer{}
	default:
		return Answer{}
	}
}

// Evaluate reports whether the answer is correct for the question. Unknown
// question types and shape-invalid answers are always incorrect.
func Evaluate(question *model.Question, answer Answer) bool {
	if !answer.Valid {
		return false
	}
	correct := question.CorrectAnswerList()

	switch question.QuestionType {
	case model.QuestionMultipleSelect:
		// Exact set match: every correct option selected and nothing extra.
		if len(answer.Multi) == 0 && len(correct) == 0 {
			return true
		}
		selected := make(map[string]struct{}, len(answer.Multi))
		for _, v := range answer.Multi {
			selected[v] = struct{}{}
		}
		expected := make(map[string]struct{}, len(correct))
		for _, v := range correct {
			expected[v] = struct{}{}
		}
		if len(selected) != len(expected) {
			return false
		}
		for v := range expected {
			if _, ok := selected[v]; !ok {
				return false
			}
		}
		return true
	case model.QuestionMCQ, model.QuestionTrueFalse, model.QuestionCaseStudy:
		for _, v := range correct {
			if answer.Single == v {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// QuestionResult is the per-question outcome returned to the student after
// submission, correct answers and explanation included.
type QuestionResult struct {
	QuestionID     uint     `json:"questionId"`
	Correct        bool     `json:"correct"`
	PointsEarned   int      `json:"pointsEarned"`
	Points         int      `json:"points"`
	CorrectAnswers []string `json:"correctAnswers"`
	Explanation    string   `json:"explanation,omitempty"`
}

// QuizScore is the outcome of scoring one full submission.
type QuizScore struct {
	Score        float64 // points-weighted percentage, 2 decimal places
	EarnedPoints int
	TotalPoints  int
	CorrectCount int
	Results      []QuestionResult
}

// ScoreQuiz grades a submission against the quiz's questions. The score is
// the points-weighted percentage of earned over total points; a quiz with no
// questions, or no points, scores 0. Questions missing from the answers map
// count as incorrect.
func ScoreQuiz(questions []model.Question, answers map[string]json.RawMessage) QuizScore {
	score := QuizScore{Results: make([]QuestionResult, 0, len(questions))}

	for i := range questions {
		question := &questions[i]
		score.TotalPoints += question.Points

		result := QuestionResult{
			QuestionID:     question.ID,
			Points:         question.Points,
			CorrectAnswers: question.CorrectAnswerList(),
			Explanation:    question.Explanation,
		}

		key := strconv.FormatUint(uint64(question.ID), 10)
		if raw, ok := answers[key]; ok {
			answer := ParseAnswer(question.QuestionType, raw)
			if Evaluate(question, answer) {
				result.Correct = true
				result.PointsEarned = question.Points
				score.EarnedPoints += question.Points
				score.CorrectCount++
			}
		}
		score.Results = append(score.Results, result)
	}

	if score.TotalPoints > 0 {
		score.Score = math.Round(float64(score.EarnedPoints)/float64(score.TotalPoints)*100*100) / 100
	}
	return score
}
