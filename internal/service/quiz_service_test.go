package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/util"
)

func TestStartAttemptCapSequential(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "cap@example.com")
	_, modules := seedCourse(t, db, 1)
	quiz := seedQuiz(t, db, quizSpec{
		ModuleID: modules[0].ID, PassingScore: 70, MaxAttempts: 3,
		Questions: []questionSpec{{Type: model.QuestionMCQ, Points: 1, Correct: []string{"a"}}},
	})
	svc, _ := newQuizService(t, db)

	for i := 0; i < 3; i++ {
		if _, err := svc.StartAttempt(user.ID, quiz.ID); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if _, err := svc.StartAttempt(user.ID, quiz.ID); !errors.Is(err, util.ErrAttemptLimitReached) {
		t.Fatalf("fourth attempt: got %v, want ErrAttemptLimitReached", err)
	}

	allowance, err := svc.CanAttempt(user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("CanAttempt: %v", err)
	}
	if allowance.Allowed || allowance.AttemptsRemaining != 0 || allowance.AttemptsUsed != 3 {
		t.Errorf("allowance = %+v, want exhausted", allowance)
	}
}

func TestStartAttemptCapConcurrent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "race@example.com")
	_, modules := seedCourse(t, db, 1)
	quiz := seedQuiz(t, db, quizSpec{
		ModuleID: modules[0].ID, PassingScore: 70, MaxAttempts: 3,
		Questions: []questionSpec{{Type: model.QuestionMCQ, Points: 1, Correct: []string{"a"}}},
	})
	svc, _ := newQuizService(t, db)

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	started, limited := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.StartAttempt(user.ID, quiz.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				started++
			case errors.Is(err, util.ErrAttemptLimitReached):
				limited++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if started != 3 || limited != workers-3 {
		t.Errorf("started=%d limited=%d, want exactly 3 started", started, limited)
	}
}

func TestStartAttemptLockMapDrains(t *testing.T) {
	db := newTestDB(t)
	_, modules := seedCourse(t, db, 1)
	quiz := seedQuiz(t, db, quizSpec{
		ModuleID: modules[0].ID, PassingScore: 70, MaxAttempts: 5,
		Questions: []questionSpec{{Type: model.QuestionMCQ, Points: 1, Correct: []string{"a"}}},
	})
	svc, _ := newQuizService(t, db)

	users := make([]*model.User, 4)
	for i := range users {
		users[i] = seedUser(t, db, fmt.Sprintf("locks%d@example.com", i))
	}

	var wg sync.WaitGroup
	for _, u := range users {
		for j := 0; j < 3; j++ {
			wg.Add(1)
			go func(id uint) {
				defer wg.Done()
				if _, err := svc.StartAttempt(id, quiz.ID); err != nil {
					t.Errorf("start attempt: %v", err)
				}
			}(u.ID)
		}
	}
	wg.Wait()

	svc.startLocks.mu.Lock()
	remaining := len(svc.startLocks.locks)
	svc.startLocks.mu.Unlock()
	if remaining != 0 {
		t.Errorf("lock map holds %d entries after all starts finished, want 0", remaining)
	}
}

func TestStartAttemptSingleShot(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "single@example.com")
	_, modules := seedCourse(t, db, 1)
	quiz := seedQuiz(t, db, quizSpec{
		ModuleID: modules[0].ID, PassingScore: 70, MaxAttempts: 1,
		Questions: []questionSpec{{Type: model.QuestionMCQ, Points: 1, Correct: []string{"a"}}},
	})
	svc, _ := newQuizService(t, db)

	attempt, err := svc.StartAttempt(user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	// Abandoning the attempt does not release it: the second start fails
	// even though the first was never submitted.
	if _, err := svc.StartAttempt(user.ID, quiz.ID); !errors.Is(err, util.ErrAttemptLimitReached) {
		t.Fatalf("second attempt: got %v, want ErrAttemptLimitReached", err)
	}
	if attempt.Completed() {
		t.Error("fresh attempt must be in progress")
	}
}

func TestStartAttemptInactiveQuiz(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "inactive@example.com")
	_, modules := seedCourse(t, db, 1)
	quiz := seedQuiz(t, db, quizSpec{
		ModuleID: modules[0].ID, PassingScore: 70, MaxAttempts: 3,
		Questions: []questionSpec{{Type: model.QuestionMCQ, Points: 1, Correct: []string{"a"}}},
	})
	if err := db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate quiz: %v", err)
	}
	svc, _ := newQuizService(t, db)

	if _, err := svc.StartAttempt(user.ID, quiz.ID); !errors.Is(err, util.ErrQuizInactive) {
		t.Fatalf("got %v, want ErrQuizInactive", err)
	}
}

func TestSubmitAttemptPassBoundary(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "boundary@example.com")
	_, modules := seedCourse(t, db, 1)
	// Ten equal questions, passing score 70: seven correct lands exactly on
	// the boundary and must pass.
	questions := make([]questionSpec, 10)
	for i := range questions {
		questions[i] = questionSpec{Type: model.QuestionMCQ, Points: 1, Correct: []string{"a"}}
	}
	quiz := seedQuiz(t, db, quizSpec{ModuleID: modules[0].ID, PassingScore: 70, MaxAttempts: 3, Questions: questions})
	svc, sink := newQuizService(t, db)

	attempt, err := svc.StartAttempt(user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	loaded, err := svc.GetQuiz(quiz.ID)
	if err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	answers := map[string]json.RawMessage{}
	for i, q := range loaded.Questions {
		key := jsonKey(q.ID)
		if i < 7 {
			answers[key] = json.RawMessage(`"a"`)
		} else {
			answers[key] = json.RawMessage(`"wrong"`)
		}
	}

	result, err := svc.SubmitAttempt(user.ID, attempt.ID, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 70 {
		t.Errorf("score = %v, want 70", result.Score)
	}
	if !result.Passed {
		t.Error("score equal to passing score must pass")
	}
	if sink.count(model.EventQuizCompleted) != 1 {
		t.Errorf("quiz_completed events = %d, want 1", sink.count(model.EventQuizCompleted))
	}
}

func TestSubmitAttemptFailBelowBoundary(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "fail@example.com")
	_, modules := seedCourse(t, db, 1)
	quiz := seedQuiz(t, db, quizSpec{
		ModuleID: modules[0].ID, PassingScore: 70, MaxAttempts: 3,
		Questions: []questionSpec{
			{Type: model.QuestionMCQ, Points: 1, Correct: []string{"a"}},
			{Type: model.QuestionMCQ, Points: 1, Correct: []string{"b"}},
		},
	})
	svc, _ := newQuizService(t, db)

	attempt, _ := svc.StartAttempt(user.ID, quiz.ID)
	loaded, _ := svc.GetQuiz(quiz.ID)
	answers := map[string]json.RawMessage{
		jsonKey(loaded.Questions[0].ID): json.RawMessage(`"a"`),
		jsonKey(loaded.Questions[1].ID): json.RawMessage(`"nope"`),
	}

	result, err := svc.SubmitAttempt(user.ID, attempt.ID, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 50 || result.Passed {
		t.Errorf("result = %v/%v, want 50/failed", result.Score, result.Passed)
	}
}

func TestSubmitAttemptResubmissionRejected(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "resubmit@example.com")
	_, modules := seedCourse(t, db, 1)
	quiz := seedQuiz(t, db, quizSpec{
		ModuleID: modules[0].ID, PassingScore: 70, MaxAttempts: 3,
		Questions: []questionSpec{{Type: model.QuestionMCQ, Points: 1, Correct: []string{"a"}}},
	})
	svc, _ := newQuizService(t, db)

	attempt, _ := svc.StartAttempt(user.ID, quiz.ID)
	loaded, _ := svc.GetQuiz(quiz.ID)
	key := jsonKey(loaded.Questions[0].ID)

	first, err := svc.SubmitAttempt(user.ID, attempt.ID, map[string]json.RawMessage{key: json.RawMessage(`"a"`)})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if first.Score != 100 {
		t.Fatalf("first score = %v, want 100", first.Score)
	}

	_, err = svc.SubmitAttempt(user.ID, attempt.ID, map[string]json.RawMessage{key: json.RawMessage(`"wrong"`)})
	if !errors.Is(err, util.ErrAttemptAlreadySubmitted) {
		t.Fatalf("resubmit: got %v, want ErrAttemptAlreadySubmitted", err)
	}

	// The stored score is the first submission's, untouched.
	stored, err := svc.GetAttempt(user.ID, attempt.ID)
	if err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if stored.Score == nil || *stored.Score != 100 {
		t.Errorf("stored score = %v, want 100", stored.Score)
	}
}

func TestSubmitAttemptWrongUser(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	intruder := seedUser(t, db, "intruder@example.com")
	_, modules := seedCourse(t, db, 1)
	quiz := seedQuiz(t, db, quizSpec{
		ModuleID: modules[0].ID, PassingScore: 70, MaxAttempts: 3,
		Questions: []questionSpec{{Type: model.QuestionMCQ, Points: 1, Correct: []string{"a"}}},
	})
	svc, _ := newQuizService(t, db)

	attempt, _ := svc.StartAttempt(owner.ID, quiz.ID)
	_, err := svc.SubmitAttempt(intruder.ID, attempt.ID, map[string]json.RawMessage{})
	if !errors.Is(err, util.ErrAttemptNotFound) {
		t.Fatalf("got %v, want ErrAttemptNotFound for another user's attempt", err)
	}
}

func TestGetHistoryBestScore(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "history@example.com")
	_, modules := seedCourse(t, db, 1)
	quiz := seedQuiz(t, db, quizSpec{
		ModuleID: modules[0].ID, PassingScore: 70, MaxAttempts: 3,
		Questions: []questionSpec{
			{Type: model.QuestionMCQ, Points: 1, Correct: []string{"a"}},
			{Type: model.QuestionMCQ, Points: 1, Correct: []string{"b"}},
		},
	})
	svc, _ := newQuizService(t, db)
	loaded, _ := svc.GetQuiz(quiz.ID)
	k1, k2 := jsonKey(loaded.Questions[0].ID), jsonKey(loaded.Questions[1].ID)

	a1, _ := svc.StartAttempt(user.ID, quiz.ID)
	if _, err := svc.SubmitAttempt(user.ID, a1.ID, map[string]json.RawMessage{
		k1: json.RawMessage(`"a"`), k2: json.RawMessage(`"x"`),
	}); err != nil {
		t.Fatalf("submit 1: %v", err)
	}

	a2, _ := svc.StartAttempt(user.ID, quiz.ID)
	if _, err := svc.SubmitAttempt(user.ID, a2.ID, map[string]json.RawMessage{
		k1: json.RawMessage(`"a"`), k2: json.RawMessage(`"b"`),
	}); err != nil {
		t.Fatalf("submit 2: %v", err)
	}

	history, err := svc.GetHistory(user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(history.Attempts))
	}
	if history.BestScore == nil || *history.BestScore != 100 {
		t.Errorf("best score = %v, want 100", history.BestScore)
	}
}

func jsonKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
