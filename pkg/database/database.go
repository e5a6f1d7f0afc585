package database

import (
	"fmt"
	"log"

	"qryti_learn_backend/internal/config"
	"qryti_learn_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Surface unique-key violations as gorm.ErrDuplicatedKey so the
		// attempt-cap and single-certificate invariants can rely on them.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate applies the schema. Shared with the sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Module{},
		&model.CourseEnrollment{},
		&model.Quiz{},
		&model.Question{},
		&model.QuizAttempt{},
		&model.UserProgress{},
		&model.Certificate{},
		&model.LearningEvent{},
		&model.Video{},
		&model.VideoProgress{},
		&model.ResourceCategory{},
		&model.KnowledgeResource{},
	)
}
