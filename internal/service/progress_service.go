package service

import (
	"errors"
	"time"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	progressRepo *repository.ProgressRepository
	courseRepo   *repository.CourseRepository
	certificates *CertificateService
	events       EventSink
	logger       *zap.Logger
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	certificates *CertificateService,
	events EventSink,
	logger *zap.Logger,
) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		courseRepo:   courseRepo,
		certificates: certificates,
		events:       events,
		logger:       logger,
	}
}

func (s *ProgressService) module(moduleID uint) (*model.Module, error) {
	m, err := s.courseRepo.FindModuleByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *ProgressService) requireEnrollment(userID, courseID uint) (*model.CourseEnrollment, error) {
	enrollment, err := s.courseRepo.FindEnrollment(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

// StartModule marks a module as in progress for the user. The enrollment must
// exist; re-starting a completed module is a no-op beyond the access
// timestamp.
func (s *ProgressService) StartModule(userID, moduleID uint) (*model.UserProgress, error) {
	module, err := s.module(moduleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireEnrollment(userID, module.CourseID); err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.GetOrCreate(userID, module.CourseID, moduleID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	progress.LastAccessed = now
	if progress.Status == model.ProgressNotStarted {
		progress.Status = model.ProgressInProgress
		progress.StartedAt = &now
	}
	if err := s.progressRepo.Save(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// CompleteModule finishes a module, accrues time spent and runs the course
// completion check.
func (s *ProgressService) CompleteModule(userID, moduleID uint, score *float64, timeSpentMinutes int) (*model.UserProgress, error) {
	module, err := s.module(moduleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireEnrollment(userID, module.CourseID); err != nil {
		return nil, err
	}

	progress, err := s.completeModuleProgress(userID, module, score, timeSpentMinutes)
	if err != nil {
		return nil, err
	}
	if err := s.checkCourseCompletion(userID, module.CourseID); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *ProgressService) completeModuleProgress(userID uint, module *model.Module, score *float64, timeSpentMinutes int) (*model.UserProgress, error) {
	progress, err := s.progressRepo.GetOrCreate(userID, module.CourseID, module.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	firstCompletion := progress.Status != model.ProgressCompleted
	progress.Status = model.ProgressCompleted
	progress.LastAccessed = now
	if progress.StartedAt == nil {
		progress.StartedAt = &now
	}
	if progress.CompletedAt == nil {
		progress.CompletedAt = &now
	}
	if timeSpentMinutes > 0 {
		progress.TimeSpentMinutes += timeSpentMinutes
	}
	// Keep the best score across repeats.
	if score != nil && (progress.Score == nil || *score > *progress.Score) {
		progress.Score = score
	}
	if err := s.progressRepo.Save(progress); err != nil {
		return nil, err
	}

	if firstCompletion {
		s.events.Record(userID, model.EventModuleCompleted, map[string]interface{}{
			"course_id": module.CourseID,
			"module_id": module.ID,
		})
	}
	return progress, nil
}

// checkCourseCompletion completes the enrollment and issues the certificate
// once every active module in the course is completed. Both transitions are
// idempotent: a completed enrollment is left alone and Issue returns the
// existing certificate.
func (s *ProgressService) checkCourseCompletion(userID, courseID uint) error {
	summary, err := s.GetCourseSummary(userID, courseID)
	if err != nil {
		return err
	}
	if summary.TotalModules == 0 || summary.CompletedModules < summary.TotalModules {
		return nil
	}

	enrollment, err := s.courseRepo.FindEnrollment(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotEnrolled
		}
		return err
	}
	if enrollment.Status != model.EnrollmentCompleted {
		now := time.Now()
		avg := summary.AverageScore
		enrollment.Status = model.EnrollmentCompleted
		enrollment.CompletedAt = &now
		enrollment.FinalScore = &avg
		if err := s.courseRepo.SaveEnrollment(enrollment); err != nil {
			return err
		}
		s.events.Record(userID, model.EventCourseCompleted, map[string]interface{}{
			"course_id":   courseID,
			"final_score": avg,
		})
		s.logger.Info("course completed",
			zap.Uint("userId", userID),
			zap.Uint("courseId", courseID),
			zap.Float64("finalScore", avg))
	}

	_, err = s.certificates.Issue(userID, courseID, summary.AverageScore)
	return err
}

// GetCourseSummary aggregates the user's module progress for a course. The
// denominator is the course's active module count, not just the modules the
// user has touched.
func (s *ProgressService) GetCourseSummary(userID, courseID uint) (*model.CourseProgressSummary, error) {
	total, err := s.courseRepo.CountActiveModules(courseID)
	if err != nil {
		return nil, err
	}
	records, err := s.progressRepo.ListByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	summary := &model.CourseProgressSummary{TotalModules: int(total)}
	scoreSum := 0.0
	scored := 0
	for i := range records {
		r := &records[i]
		summary.TotalTimeMinutes += r.TimeSpentMinutes
		switch r.Status {
		case model.ProgressCompleted:
			summary.CompletedModules++
		case model.ProgressInProgress:
			summary.InProgressModules++
		}
		if r.Score != nil {
			scoreSum += *r.Score
			scored++
		}
	}
	if summary.TotalModules > 0 {
		summary.CompletionPercentage = float64(summary.CompletedModules) / float64(summary.TotalModules) * 100
	}
	if scored > 0 {
		summary.AverageScore = scoreSum / float64(scored)
	}
	return summary, nil
}

func (s *ProgressService) ListCourseProgress(userID, courseID uint) ([]model.UserProgress, error) {
	return s.progressRepo.ListByUserAndCourse(userID, courseID)
}

// OnQuizCompleted records a passed quiz's score on the module's progress row
// and completes the module, which can in turn complete the course and issue
// the certificate. Failed attempts only touch the access timestamp. Errors
// here are logged, not surfaced: the attempt result is already durable and
// must not be rolled back by side-effect failures.
func (s *ProgressService) OnQuizCompleted(userID uint, quiz *model.Quiz, attempt *model.QuizAttempt, score QuizScore) {
	module, err := s.module(quiz.ModuleID)
	if err != nil {
		s.logger.Warn("progress update skipped, module missing",
			zap.Uint("quizId", quiz.ID), zap.Error(err))
		return
	}
	if _, err := s.requireEnrollment(userID, module.CourseID); err != nil {
		s.logger.Warn("progress update skipped, no enrollment",
			zap.Uint("userId", userID), zap.Uint("courseId", module.CourseID), zap.Error(err))
		return
	}

	passed := attempt.Passed != nil && *attempt.Passed
	if !passed {
		progress, err := s.progressRepo.GetOrCreate(userID, module.CourseID, module.ID)
		if err == nil {
			progress.LastAccessed = time.Now()
			if progress.Status == model.ProgressNotStarted {
				progress.Status = model.ProgressInProgress
			}
			_ = s.progressRepo.Save(progress)
		}
		return
	}

	quizScore := score.Score
	if _, err := s.completeModuleProgress(userID, module, &quizScore, 0); err != nil {
		s.logger.Error("failed to record quiz result on progress",
			zap.Uint("userId", userID), zap.Uint("moduleId", module.ID), zap.Error(err))
		return
	}
	if err := s.checkCourseCompletion(userID, module.CourseID); err != nil {
		s.logger.Error("course completion check failed",
			zap.Uint("userId", userID), zap.Uint("courseId", module.CourseID), zap.Error(err))
	}
}
