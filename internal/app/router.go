package app

import (
	"qryti_learn_backend/internal/config"
	"qryti_learn_backend/internal/middleware"
	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.Use(middleware.RequestID())

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	api := router.Group("/api/v1")

	// Public routes.
	{
		api.POST("/auth/register", c.auth.Register)
		api.POST("/auth/login", c.auth.Login)

		// Certificate verification stays public: employers check
		// credentials without an account.
		api.GET("/certificates/verify/:certificateId", c.certificate.Verify)
		api.GET("/certificates/verify-code/:code", c.certificate.VerifyByCode)

		api.GET("/courses", c.course.ListCourses)
		api.GET("/courses/:id", middleware.TryAuthMiddleware(cfg), c.course.GetCourse)
		api.GET("/knowledge/categories", c.knowledge.ListCategories)
		api.GET("/knowledge/resources", c.knowledge.ListResources)
	}

	// Authenticated routes.
	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(cfg))
	{
		auth.GET("/auth/profile", c.auth.Profile)
		auth.PUT("/auth/profile", c.auth.UpdateProfile)

		auth.POST("/courses/:id/enroll", c.course.Enroll)
		auth.GET("/enrollments", c.course.MyEnrollments)

		auth.GET("/modules/:moduleId/quizzes", c.quiz.ListByModule)
		auth.GET("/quizzes/:id", c.quiz.GetQuiz)
		auth.GET("/quizzes/:id/stats", c.quiz.GetStats)
		auth.GET("/quizzes/:id/can-attempt", c.quiz.CanAttempt)
		auth.GET("/quizzes/:id/history", c.quiz.GetHistory)
		auth.POST("/quizzes/:id/attempts", c.quiz.StartAttempt)
		auth.GET("/attempts", c.quiz.ListAttempts)
		auth.GET("/attempts/:id", c.quiz.GetAttempt)
		auth.POST("/attempts/:id/submit", c.quiz.SubmitAttempt)

		auth.POST("/progress/modules/:moduleId/start", c.progress.StartModule)
		auth.POST("/progress/modules/:moduleId/complete", c.progress.CompleteModule)
		auth.GET("/progress/courses/:courseId", c.progress.CourseProgress)
		auth.GET("/progress/courses/:courseId/summary", c.progress.CourseSummary)

		auth.POST("/certificates/courses/:courseId", c.certificate.Generate)
		auth.GET("/certificates", c.certificate.MyCertificates)

		auth.GET("/modules/:moduleId/videos", c.video.ListByModule)
		auth.GET("/videos/:id", c.video.GetVideo)
		auth.PUT("/videos/:id/progress", c.video.UpdateProgress)
		auth.GET("/videos/progress", c.video.MyProgress)

		auth.GET("/knowledge/resources/:id", c.knowledge.GetResource)
		auth.GET("/knowledge/resources/:id/download", c.knowledge.Download)

		auth.GET("/activity", c.analytics.MyActivity)
	}

	// Admin routes.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.DELETE("/certificates/:certificateId", c.certificate.Revoke)
		admin.POST("/videos", c.video.RegisterVideo)
	}
}
