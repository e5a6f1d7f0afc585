package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	courseCatalogCacheKey = "qryti:courses:catalog"
	courseCatalogCacheTTL = 5 * time.Minute
)

type CourseService struct {
	courseRepo *repository.CourseRepository
	rdb        *redis.Client
	events     EventSink
	logger     *zap.Logger
}

func NewCourseService(courseRepo *repository.CourseRepository, rdb *redis.Client, events EventSink, logger *zap.Logger) *CourseService {
	return &CourseService{courseRepo: courseRepo, rdb: rdb, events: events, logger: logger}
}

// ListCourses returns the active catalog, served from Redis when warm. The
// cache is best effort: any Redis failure falls through to the database.
func (s *CourseService) ListCourses(ctx context.Context) ([]repository.CourseListRow, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, courseCatalogCacheKey).Result(); err == nil {
			var rows []repository.CourseListRow
			if err := json.Unmarshal([]byte(cached), &rows); err == nil {
				return rows, nil
			}
		}
	}

	rows, err := s.courseRepo.ListActive()
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(rows); err == nil {
			if err := s.rdb.Set(ctx, courseCatalogCacheKey, raw, courseCatalogCacheTTL).Err(); err != nil {
				s.logger.Debug("course catalog cache write failed", zap.Error(err))
			}
		}
	}
	return rows, nil
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// Enroll is idempotent: enrolling twice returns the existing enrollment. The
// unique (user, course) index resolves concurrent first enrollments.
func (s *CourseService) Enroll(userID, courseID uint) (*model.CourseEnrollment, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.courseRepo.FindEnrollment(userID, courseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.CourseEnrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     model.EnrollmentEnrolled,
		EnrolledAt: time.Now(),
	}
	if err := s.courseRepo.CreateEnrollment(enrollment); err != nil {
		if existing, ferr := s.courseRepo.FindEnrollment(userID, courseID); ferr == nil {
			return existing, nil
		}
		return nil, err
	}

	s.events.Record(userID, model.EventCourseEnrolled, map[string]interface{}{
		"course_id":    courseID,
		"course_title": course.Title,
	})
	s.logger.Info("user enrolled", zap.Uint("userId", userID), zap.Uint("courseId", courseID))
	return enrollment, nil
}

func (s *CourseService) ListEnrollments(userID uint) ([]model.CourseEnrollment, error) {
	return s.courseRepo.ListEnrollments(userID)
}
