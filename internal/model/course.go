package model

import "time"

// Course is read-only reference data for the learning core; authoring happens
// through admin tooling outside this service.
// swagger:model Course
type Course struct {
	BaseModel
	Title         string  `gorm:"size:200;not null" json:"title"`
	Description   string  `gorm:"type:text" json:"description"`
	Level         int     `gorm:"not null" json:"level"` // 1-4: Foundation, Practitioner, Lead Implementer, Auditor
	DurationHours float64 `gorm:"not null" json:"durationHours"`
	PassingScore  int     `gorm:"default:70;not null" json:"passingScore"`
	IsActive      bool    `gorm:"default:true;not null" json:"isActive"`
	ThumbnailURL  string  `gorm:"size:500" json:"thumbnailUrl,omitempty"`

	Modules []Module `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Module
type Module struct {
	BaseModel
	CourseID        uint   `gorm:"index;not null" json:"courseId"`
	Title           string `gorm:"size:200;not null" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	ContentText     string `gorm:"type:text" json:"contentText,omitempty"`
	VideoURL        string `gorm:"size:500" json:"videoUrl,omitempty"`
	OrderIndex      int    `gorm:"not null" json:"orderIndex"`
	DurationMinutes int    `gorm:"default:30;not null" json:"durationMinutes"`
	IsActive        bool   `gorm:"default:true;not null" json:"isActive"`
}

func (Module) TableName() string {
	return "modules"
}

type EnrollmentStatus string

const (
	EnrollmentEnrolled   EnrollmentStatus = "enrolled"
	EnrollmentInProgress EnrollmentStatus = "in_progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
	EnrollmentDropped    EnrollmentStatus = "dropped"
)

// swagger:model CourseEnrollment
type CourseEnrollment struct {
	BaseModel
	UserID      uint             `gorm:"not null;uniqueIndex:uniq_user_course_enrollment" json:"userId"`
	CourseID    uint             `gorm:"not null;uniqueIndex:uniq_user_course_enrollment" json:"courseId"`
	Status      EnrollmentStatus `gorm:"size:20;default:'enrolled';not null" json:"status"`
	EnrolledAt  time.Time        `json:"enrolledAt"`
	StartedAt   *time.Time       `json:"startedAt,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	FinalScore  *float64         `json:"finalScore,omitempty"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}
