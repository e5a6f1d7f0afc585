package model

import "time"

// Certificate is durable proof of course completion. At most one exists per
// (user, course); the unique index backs the idempotent-issuance guarantee.
// swagger:model Certificate
type Certificate struct {
	BaseModel
	UserID   uint `gorm:"not null;uniqueIndex:uniq_user_course_certificate" json:"userId"`
	CourseID uint `gorm:"not null;uniqueIndex:uniq_user_course_certificate" json:"courseId"`

	// CertificateID is the public, year-stamped identifier printed on the
	// certificate. VerificationCode is the short out-of-band lookup key.
	CertificateID    string `gorm:"size:50;uniqueIndex;not null" json:"certificateId"`
	VerificationCode string `gorm:"size:20;uniqueIndex;not null" json:"-"`

	FinalScore      float64    `gorm:"not null" json:"finalScore"`
	IssuedAt        time.Time  `gorm:"not null" json:"issuedAt"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	IsValid         bool       `gorm:"default:true;not null" json:"isValid"`
	VerificationURL string     `gorm:"size:500" json:"verificationUrl,omitempty"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Certificate) TableName() string {
	return "certificates"
}

func (c *Certificate) Expired() bool {
	if c.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*c.ExpiresAt)
}
