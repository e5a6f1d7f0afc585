package repository

import (
	"qryti_learn_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

type CourseListRow struct {
	model.Course
	ModuleCount int `json:"moduleCount"`
	QuizCount   int `json:"quizCount"`
}

func (r *CourseRepository) ListActive() ([]CourseListRow, error) {
	var rows []CourseListRow
	err := r.DB.Table("courses c").
		Select("c.*, " +
			"(SELECT COUNT(*) FROM modules m WHERE m.course_id = c.id AND m.is_active = true AND m.deleted_at IS NULL) as module_count, " +
			"(SELECT COUNT(*) FROM quizzes q JOIN modules m2 ON q.module_id = m2.id WHERE m2.course_id = c.id AND q.is_active = true AND q.deleted_at IS NULL) as quiz_count").
		Where("c.is_active = ? AND c.deleted_at IS NULL", true).
		Order("c.level asc, c.id asc").
		Scan(&rows).Error
	return rows, err
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("order_index asc")
	}).First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindModuleByID(id uint) (*model.Module, error) {
	var m model.Module
	err := r.DB.First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CourseRepository) CountActiveModules(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Module{}).
		Where("course_id = ? AND is_active = ?", courseID, true).
		Count(&count).Error
	return count, err
}

func (r *CourseRepository) CreateEnrollment(enrollment *model.CourseEnrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *CourseRepository) FindEnrollment(userID, courseID uint) (*model.CourseEnrollment, error) {
	var e model.CourseEnrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *CourseRepository) ListEnrollments(userID uint) ([]model.CourseEnrollment, error) {
	var enrollments []model.CourseEnrollment
	err := r.DB.Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at desc").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *CourseRepository) SaveEnrollment(enrollment *model.CourseEnrollment) error {
	return r.DB.Save(enrollment).Error
}
