package service

import (
	"errors"
	"sync"
	"testing"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newCourseService(t *testing.T, db *gorm.DB) (*CourseService, *memorySink) {
	t.Helper()
	sink := &memorySink{}
	// No Redis in tests; the catalog path falls back to the database.
	svc := NewCourseService(repository.NewCourseRepository(db), nil, sink, zap.NewNop())
	return svc, sink
}

func TestEnrollIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "enroll@example.com")
	course, _ := seedCourse(t, db, 1)
	svc, sink := newCourseService(t, db)

	first, err := svc.Enroll(user.ID, course.ID)
	if err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	second, err := svc.Enroll(user.ID, course.ID)
	if err != nil {
		t.Fatalf("second enroll: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("enrollment ids differ: %d vs %d", first.ID, second.ID)
	}
	if sink.count(model.EventCourseEnrolled) != 1 {
		t.Errorf("enrolled events = %d, want 1", sink.count(model.EventCourseEnrolled))
	}
}

func TestEnrollConcurrentSingleRow(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "enroll-race@example.com")
	course, _ := seedCourse(t, db, 1)
	svc, _ := newCourseService(t, db)

	const workers = 6
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Enroll(user.ID, course.ID); err != nil {
				t.Errorf("enroll: %v", err)
			}
		}()
	}
	wg.Wait()

	var count int64
	if err := db.Model(&model.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("enrollment rows = %d, want 1", count)
	}
}

func TestEnrollUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "nocourse@example.com")
	svc, _ := newCourseService(t, db)

	if _, err := svc.Enroll(user.ID, 9999); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("got %v, want ErrCourseNotFound", err)
	}
}
