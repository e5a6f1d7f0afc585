package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/internal/util"
	"qryti_learn_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// keyedMutex hands out one mutex per key so unrelated (user, quiz) pairs
// never contend with each other. Entries are refcounted and removed once the
// last holder unlocks, keeping the map bounded by in-flight keys.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*lockEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()
	e.Lock()
}

func (k *keyedMutex) unlock(key string) {
	k.mu.Lock()
	e := k.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
	e.Unlock()
}

type QuizService struct {
	quizRepo    *repository.QuizRepository
	attemptRepo *repository.AttemptRepository
	courseRepo  *repository.CourseRepository
	events      EventSink
	listeners   []QuizResultListener
	logger      *zap.Logger

	// startLocks serializes attempt starts per (user, quiz) so the
	// count-then-insert transaction can never admit more than MaxAttempts
	// rows for the pair.
	startLocks keyedMutex
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.AttemptRepository,
	courseRepo *repository.CourseRepository,
	events EventSink,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		courseRepo:  courseRepo,
		events:      events,
		logger:      logger,
	}
}

// AddResultListener registers a hook fired after each completed attempt.
func (s *QuizService) AddResultListener(l QuizResultListener) {
	s.listeners = append(s.listeners, l)
}

func (s *QuizService) GetQuiz(quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListByModule(moduleID uint) ([]model.Quiz, error) {
	return s.quizRepo.ListByModule(moduleID)
}

// QuizStats is the aggregate view shown alongside a quiz.
type QuizStats struct {
	QuestionCount int     `json:"questionCount"`
	AttemptCount  int64   `json:"attemptCount"`
	AverageScore  float64 `json:"averageScore"`
}

func (s *QuizService) GetStats(quizID uint) (*QuizStats, error) {
	questions, err := s.quizRepo.CountQuestions(quizID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.quizRepo.CountAttempts(quizID)
	if err != nil {
		return nil, err
	}
	avg, err := s.quizRepo.AverageScore(quizID)
	if err != nil {
		return nil, err
	}
	return &QuizStats{
		QuestionCount: int(questions),
		AttemptCount:  attempts,
		AverageScore:  avg,
	}, nil
}

// AttemptAllowance reports how many attempts remain for the user on a quiz.
type AttemptAllowance struct {
	Allowed           bool `json:"allowed"`
	AttemptsUsed      int  `json:"attemptsUsed"`
	AttemptsRemaining int  `json:"attemptsRemaining"`
	MaxAttempts       int  `json:"maxAttempts"`
}

// CanAttempt counts every prior attempt, in progress or completed, against
// the quiz's MaxAttempts. Abandoned attempts are never released back.
func (s *QuizService) CanAttempt(userID, quizID uint) (*AttemptAllowance, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	used, err := s.attemptRepo.CountByUserAndQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	remaining := quiz.MaxAttempts - int(used)
	if remaining < 0 {
		remaining = 0
	}
	return &AttemptAllowance{
		Allowed:           remaining > 0,
		AttemptsUsed:      int(used),
		AttemptsRemaining: remaining,
		MaxAttempts:       quiz.MaxAttempts,
	}, nil
}

// StartAttempt opens a new attempt for the user. Starts for the same
// (user, quiz) pair are serialized, then counted and inserted in one
// transaction, so the attempt cap holds under concurrent requests.
func (s *QuizService) StartAttempt(userID, quizID uint) (*model.QuizAttempt, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive {
		return nil, util.ErrQuizInactive
	}

	key := fmt.Sprintf("%d:%d", userID, quizID)
	s.startLocks.lock(key)
	defer s.startLocks.unlock(key)

	attempt := &model.QuizAttempt{
		UserID:         userID,
		QuizID:         quizID,
		TotalQuestions: len(quiz.Questions),
		StartedAt:      time.Now(),
	}
	if err := s.attemptRepo.CreateUnderLimit(attempt, quiz.MaxAttempts); err != nil {
		return nil, err
	}

	monitoring.AttemptsStarted.Inc()
	s.events.Record(userID, model.EventQuizStarted, map[string]interface{}{
		"quiz_id":    quizID,
		"attempt_id": attempt.ID,
	})
	s.logger.Info("quiz attempt started",
		zap.Uint("userId", userID),
		zap.Uint("quizId", quizID),
		zap.Uint("attemptId", attempt.ID))
	return attempt, nil
}

// SubmitResult is returned to the student after grading.
type SubmitResult struct {
	AttemptID        uint             `json:"attemptId"`
	Score            float64          `json:"score"`
	Passed           bool             `json:"passed"`
	CorrectCount     int              `json:"correctCount"`
	TotalQuestions   int              `json:"totalQuestions"`
	EarnedPoints     int              `json:"earnedPoints"`
	TotalPoints      int              `json:"totalPoints"`
	PassingScore     int              `json:"passingScore"`
	TimeTakenMinutes int              `json:"timeTakenMinutes"`
	Results          []QuestionResult `json:"results"`
}

// SubmitAttempt grades the answers and finalizes the attempt. The completion
// update is atomic on the attempt row, so a duplicate or racing submit of the
// same attempt fails with ErrAttemptAlreadySubmitted and the first result
// stands.
func (s *QuizService) SubmitAttempt(userID, attemptID uint, answers map[string]json.RawMessage) (*SubmitResult, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.Completed() {
		return nil, util.ErrAttemptAlreadySubmitted
	}

	quiz, err := s.GetQuiz(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	graded := ScoreQuiz(quiz.Questions, answers)
	passed := graded.Score >= float64(quiz.PassingScore)
	completedAt := time.Now()
	timeTaken := int(completedAt.Sub(attempt.StartedAt).Minutes())

	rawAnswers, err := json.Marshal(answers)
	if err != nil {
		return nil, util.ErrInvalidAnswerPayload
	}

	err = s.attemptRepo.Complete(attempt.ID, repository.CompletionUpdate{
		Answers:          rawAnswers,
		Score:            graded.Score,
		CorrectCount:     graded.CorrectCount,
		Passed:           passed,
		CompletedAt:      completedAt,
		TimeTakenMinutes: timeTaken,
	})
	if err != nil {
		return nil, err
	}

	attempt.Score = &graded.Score
	attempt.CorrectCount = &graded.CorrectCount
	attempt.Passed = &passed
	attempt.CompletedAt = &completedAt
	attempt.TimeTakenMinutes = &timeTaken
	attempt.Answers = rawAnswers

	monitoring.AttemptsCompleted.WithLabelValues(strconv.FormatBool(passed)).Inc()
	s.events.Record(userID, model.EventQuizCompleted, map[string]interface{}{
		"quiz_id":    quiz.ID,
		"attempt_id": attempt.ID,
		"score":      graded.Score,
		"passed":     passed,
	})
	s.logger.Info("quiz attempt completed",
		zap.Uint("userId", userID),
		zap.Uint("attemptId", attempt.ID),
		zap.Float64("score", graded.Score),
		zap.Bool("passed", passed))

	for _, l := range s.listeners {
		l.OnQuizCompleted(userID, quiz, attempt, graded)
	}

	return &SubmitResult{
		AttemptID:        attempt.ID,
		Score:            graded.Score,
		Passed:           passed,
		CorrectCount:     graded.CorrectCount,
		TotalQuestions:   len(quiz.Questions),
		EarnedPoints:     graded.EarnedPoints,
		TotalPoints:      graded.TotalPoints,
		PassingScore:     quiz.PassingScore,
		TimeTakenMinutes: timeTaken,
		Results:          graded.Results,
	}, nil
}

func (s *QuizService) GetAttempt(userID, attemptID uint) (*model.QuizAttempt, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *QuizService) ListAttempts(userID uint) ([]model.QuizAttempt, error) {
	return s.attemptRepo.ListByUser(userID)
}

// AttemptHistory bundles a user's attempts on one quiz with the best score.
type AttemptHistory struct {
	Attempts  []model.QuizAttempt `json:"attempts"`
	BestScore *float64            `json:"bestScore,omitempty"`
}

func (s *QuizService) GetHistory(userID, quizID uint) (*AttemptHistory, error) {
	if _, err := s.GetQuiz(quizID); err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.ListByUserAndQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	best, err := s.attemptRepo.BestScore(userID, quizID)
	if err != nil {
		return nil, err
	}
	return &AttemptHistory{Attempts: attempts, BestScore: best}, nil
}
