package service

import (
	"sync"
	"testing"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/pkg/database"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema. The
// connection pool is pinned to one connection so every goroutine sees the
// same in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// memorySink collects events for assertions.
type memorySink struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	UserID    uint
	EventType string
	Data      map[string]interface{}
}

func (m *memorySink) Record(userID uint, eventType string, data map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{UserID: userID, EventType: eventType, Data: data})
}

func (m *memorySink) count(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "Test Student", Email: email, Password: "x", Role: model.Student, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, moduleCount int) (*model.Course, []model.Module) {
	t.Helper()
	course := &model.Course{Title: "ISO/IEC 42001 Foundation", Level: 1, DurationHours: 8, PassingScore: 70, IsActive: true}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	modules := make([]model.Module, 0, moduleCount)
	for i := 0; i < moduleCount; i++ {
		m := model.Module{CourseID: course.ID, Title: "Module", OrderIndex: i + 1, DurationMinutes: 30, IsActive: true}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed module: %v", err)
		}
		modules = append(modules, m)
	}
	return course, modules
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) *model.CourseEnrollment {
	t.Helper()
	e := &model.CourseEnrollment{UserID: userID, CourseID: courseID, Status: model.EnrollmentEnrolled}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	return e
}

type quizSpec struct {
	ModuleID     uint
	PassingScore int
	MaxAttempts  int
	Questions    []questionSpec
}

type questionSpec struct {
	Type    model.QuestionType
	Points  int
	Correct []string
}

func seedQuiz(t *testing.T, db *gorm.DB, spec quizSpec) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		ModuleID:         spec.ModuleID,
		Title:            "Checkpoint Quiz",
		TimeLimitMinutes: 30,
		PassingScore:     spec.PassingScore,
		MaxAttempts:      spec.MaxAttempts,
		IsActive:         true,
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	for i, qs := range spec.Questions {
		q := model.Question{
			QuizID:       quiz.ID,
			QuestionText: "q",
			QuestionType: qs.Type,
			Points:       qs.Points,
			OrderIndex:   i + 1,
		}
		if err := q.SetCorrectAnswers(qs.Correct); err != nil {
			t.Fatalf("set correct answers: %v", err)
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}
	return quiz
}

// newQuizService wires a QuizService against the test database with an
// in-memory event sink.
func newQuizService(t *testing.T, db *gorm.DB) (*QuizService, *memorySink) {
	t.Helper()
	sink := &memorySink{}
	svc := NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewCourseRepository(db),
		sink,
		zap.NewNop(),
	)
	return svc, sink
}

func newCertificateService(t *testing.T, db *gorm.DB) (*CertificateService, *memorySink) {
	t.Helper()
	sink := &memorySink{}
	svc := NewCertificateService(
		repository.NewCertificateRepository(db),
		repository.NewCourseRepository(db),
		sink,
		zap.NewNop(),
		"https://learn.qryti.com",
	)
	return svc, sink
}

func newProgressService(t *testing.T, db *gorm.DB, certs *CertificateService, sink *memorySink) *ProgressService {
	t.Helper()
	return NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewCourseRepository(db),
		certs,
		sink,
		zap.NewNop(),
	)
}
