package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qryti_learn_backend/internal/config"
	"qryti_learn_backend/internal/controller"
	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/internal/service"
	"qryti_learn_backend/internal/util"
	"qryti_learn_backend/pkg/database"
	"qryti_learn_backend/pkg/logger"
	"qryti_learn_backend/pkg/monitoring"
	"qryti_learn_backend/pkg/security"
	"qryti_learn_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	quiz        *repository.QuizRepository
	attempt     *repository.AttemptRepository
	certificate *repository.CertificateRepository
	progress    *repository.ProgressRepository
	analytics   *repository.AnalyticsRepository
	video       *repository.VideoRepository
	knowledge   *repository.KnowledgeRepository
}

type services struct {
	analytics   *service.AnalyticsService
	auth        *service.AuthService
	storage     *service.StorageService
	course      *service.CourseService
	quiz        *service.QuizService
	certificate *service.CertificateService
	progress    *service.ProgressService
	video       *service.VideoService
	knowledge   *service.KnowledgeService
}

type controllers struct {
	auth        *controller.AuthController
	course      *controller.CourseController
	quiz        *controller.QuizController
	certificate *controller.CertificateController
	progress    *controller.ProgressController
	video       *controller.VideoController
	knowledge   *controller.KnowledgeController
	analytics   *controller.AnalyticsController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		quiz:        repository.NewQuizRepository(db),
		attempt:     repository.NewAttemptRepository(db),
		certificate: repository.NewCertificateRepository(db),
		progress:    repository.NewProgressRepository(db),
		analytics:   repository.NewAnalyticsRepository(db),
		video:       repository.NewVideoRepository(db),
		knowledge:   repository.NewKnowledgeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.analytics = service.NewAnalyticsService(repos.analytics, logger.Log)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, s.analytics, logger.Log, cfg)
	s.course = service.NewCourseService(repos.course, rdb, s.analytics, logger.Log)
	s.certificate = service.NewCertificateService(repos.certificate, repos.course, s.analytics, logger.Log, cfg.App.BaseURL)
	s.progress = service.NewProgressService(repos.progress, repos.course, s.certificate, s.analytics, logger.Log)
	s.quiz = service.NewQuizService(repos.quiz, repos.attempt, repos.course, s.analytics, logger.Log)
	s.video = service.NewVideoService(repos.video, repos.course, s.analytics, logger.Log)
	s.knowledge = service.NewKnowledgeService(repos.knowledge, s.storage, s.analytics, logger.Log)

	// Progress tracking reacts to completed attempts; the quiz lifecycle
	// itself stays ignorant of enrollments and certificates.
	s.quiz.AddResultListener(s.progress)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		course:      controller.NewCourseController(s.course),
		quiz:        controller.NewQuizController(s.quiz),
		certificate: controller.NewCertificateController(s.certificate),
		progress:    controller.NewProgressController(s.progress),
		video:       controller.NewVideoController(s.video),
		knowledge:   controller.NewKnowledgeController(s.knowledge),
		analytics:   controller.NewAnalyticsController(s.analytics),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The catalog cache and health check degrade gracefully without
		// Redis; everything else is database-backed.
		logger.Log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg, rdb)
	ctls := app.initControllers(svcs, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("qryti-learn", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctls, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Info("Server exiting")
}
