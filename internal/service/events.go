package service

import "qryti_learn_backend/internal/model"

// EventSink receives learning-activity events as they happen. The analytics
// service is the production sink; tests substitute an in-memory one.
type EventSink interface {
	Record(userID uint, eventType string, data map[string]interface{})
}

// QuizResultListener is notified after an attempt completes and its result is
// durable. Progress tracking hangs off this hook so the quiz lifecycle stays
// decoupled from enrollment and certificate side effects.
type QuizResultListener interface {
	OnQuizCompleted(userID uint, quiz *model.Quiz, attempt *model.QuizAttempt, score QuizScore)
}
