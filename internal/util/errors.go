package util

import "errors"

// Sentinel errors for the learning core. Controllers translate these into
// HTTP statuses; services never touch gin.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrCourseNotFound  = errors.New("course not found")
	ErrModuleNotFound  = errors.New("module not found")
	ErrNotEnrolled     = errors.New("not enrolled in course")
	ErrAlreadyEnrolled = errors.New("already enrolled in course")

	ErrQuizNotFound            = errors.New("quiz not found")
	ErrQuizInactive            = errors.New("quiz not active")
	ErrAttemptNotFound         = errors.New("quiz attempt not found")
	ErrAttemptLimitReached     = errors.New("maximum attempts reached")
	ErrAttemptAlreadySubmitted = errors.New("quiz already submitted")
	ErrAttemptNotCompleted     = errors.New("quiz not completed yet")
	ErrInvalidAnswerPayload    = errors.New("invalid answer payload")

	ErrCourseNotCompleted  = errors.New("course not completed")
	ErrCertificateNotFound = errors.New("certificate not found")

	ErrVideoNotFound    = errors.New("video not found")
	ErrInvalidVideoFile = errors.New("unsupported video file format")
	ErrResourceNotFound = errors.New("resource not found")
)
