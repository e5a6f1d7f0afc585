package service

import (
	"encoding/json"
	"testing"

	"qryti_learn_backend/internal/model"
)

func mustQuestion(t *testing.T, id uint, qt model.QuestionType, points int, correct []string) model.Question {
	t.Helper()
	q := model.Question{QuestionType: qt, Points: points}
	q.ID = id
	if err := q.SetCorrectAnswers(correct); err != nil {
		t.Fatalf("SetCorrectAnswers: %v", err)
	}
	return q
}

func TestEvaluateSingleChoice(t *testing.T) {
	tests := []struct {
		name    string
		qt      model.QuestionType
		correct []string
		raw     string
		want    bool
	}{
		{"mcq correct", model.QuestionMCQ, []string{"b"}, `"b"`, true},
		{"mcq wrong", model.QuestionMCQ, []string{"b"}, `"a"`, false},
		{"mcq any of several accepted", model.QuestionMCQ, []string{"a", "c"}, `"c"`, true},
		{"true_false string", model.QuestionTrueFalse, []string{"true"}, `"true"`, true},
		{"true_false bare boolean", model.QuestionTrueFalse, []string{"true"}, `true`, true},
		{"true_false wrong", model.QuestionTrueFalse, []string{"true"}, `"false"`, false},
		{"case study membership", model.QuestionCaseStudy, []string{"option_2"}, `"option_2"`, true},
		{"array for single type invalid", model.QuestionMCQ, []string{"b"}, `["b"]`, false},
		{"object payload invalid", model.QuestionMCQ, []string{"b"}, `{"x":1}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustQuestion(t, 1, tt.qt, 1, tt.correct)
			got := Evaluate(&q, ParseAnswer(tt.qt, json.RawMessage(tt.raw)))
			if got != tt.want {
				t.Errorf("Evaluate(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEvaluateMultipleSelect(t *testing.T) {
	tests := []struct {
		name    string
		correct []string
		raw     string
		want    bool
	}{
		{"exact match", []string{"a", "c"}, `["a","c"]`, true},
		{"order irrelevant", []string{"a", "c"}, `["c","a"]`, true},
		{"subset rejected", []string{"a", "c"}, `["a"]`, false},
		{"superset rejected", []string{"a", "c"}, `["a","c","d"]`, false},
		{"disjoint rejected", []string{"a", "c"}, `["b","d"]`, false},
		{"non-list rejected", []string{"a", "c"}, `"a"`, false},
		{"empty against empty", nil, `[]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mustQuestion(t, 1, model.QuestionMultipleSelect, 1, tt.correct)
			got := Evaluate(&q, ParseAnswer(model.QuestionMultipleSelect, json.RawMessage(tt.raw)))
			if got != tt.want {
				t.Errorf("Evaluate(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEvaluateUnknownType(t *testing.T) {
	q := mustQuestion(t, 1, model.QuestionType("essay"), 1, []string{"anything"})
	if Evaluate(&q, ParseAnswer(q.QuestionType, json.RawMessage(`"anything"`))) {
		t.Error("unknown question type must never score as correct")
	}
}

func TestScoreQuizWeighted(t *testing.T) {
	// Two questions worth 10 and 20 points; only the 20-point one answered
	// correctly: 20/30 = 66.67%.
	questions := []model.Question{
		mustQuestion(t, 1, model.QuestionMCQ, 10, []string{"a"}),
		mustQuestion(t, 2, model.QuestionMCQ, 20, []string{"b"}),
	}
	answers := map[string]json.RawMessage{
		"1": json.RawMessage(`"wrong"`),
		"2": json.RawMessage(`"b"`),
	}

	got := ScoreQuiz(questions, answers)
	if got.Score != 66.67 {
		t.Errorf("Score = %v, want 66.67", got.Score)
	}
	if got.CorrectCount != 1 {
		t.Errorf("CorrectCount = %d, want 1", got.CorrectCount)
	}
	if got.EarnedPoints != 20 || got.TotalPoints != 30 {
		t.Errorf("points = %d/%d, want 20/30", got.EarnedPoints, got.TotalPoints)
	}
}

func TestScoreQuizNoQuestions(t *testing.T) {
	got := ScoreQuiz(nil, map[string]json.RawMessage{"1": json.RawMessage(`"a"`)})
	if got.Score != 0 {
		t.Errorf("Score = %v, want 0 for empty quiz", got.Score)
	}
	if len(got.Results) != 0 {
		t.Errorf("Results = %d entries, want 0", len(got.Results))
	}
}

func TestScoreQuizMissingAnswersIncorrect(t *testing.T) {
	questions := []model.Question{
		mustQuestion(t, 1, model.QuestionMCQ, 1, []string{"a"}),
		mustQuestion(t, 2, model.QuestionMCQ, 1, []string{"b"}),
	}
	got := ScoreQuiz(questions, map[string]json.RawMessage{
		"1": json.RawMessage(`"a"`),
	})
	if got.Score != 50 {
		t.Errorf("Score = %v, want 50 when half the questions are unanswered", got.Score)
	}
	if got.Results[1].Correct {
		t.Error("unanswered question must be marked incorrect")
	}
}

func TestScoreQuizAllCorrect(t *testing.T) {
	questions := []model.Question{
		mustQuestion(t, 1, model.QuestionTrueFalse, 2, []string{"true"}),
		mustQuestion(t, 2, model.QuestionMultipleSelect, 3, []string{"a", "b"}),
	}
	got := ScoreQuiz(questions, map[string]json.RawMessage{
		"1": json.RawMessage(`true`),
		"2": json.RawMessage(`["b","a"]`),
	})
	if got.Score != 100 {
		t.Errorf("Score = %v, want 100", got.Score)
	}
	if got.CorrectCount != 2 {
		t.Errorf("CorrectCount = %d, want 2", got.CorrectCount)
	}
}
