package app

import (
	"context"
	"course_market_backend/internal/config"
	"course_market_backend/internal/controller"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/service"
	"course_market_backend/pkg/database"
	"course_market_backend/pkg/logger"
	"course_market_backend/pkg/monitoring"
	"course_market_backend/pkg/security"
	"course_market_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	cancelWorkers   context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	category   *repository.CategoryRepository
	course     *repository.CourseRepository
	section    *repository.SectionRepository
	lesson     *repository.LessonRepository
	quiz       *repository.QuizRepository
	material   *repository.MaterialRepository
	video      *repository.VideoRepository
	enrollment *repository.EnrollmentRepository
	voucher    *repository.VoucherRepository
	refund     *repository.RefundRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	cleanup    *service.CleanupService
	hub        *service.VideoStatusHub
	router     *service.StatusRouter
	cancels    *service.CancelRegistry
	owner      *service.OwnershipService
	upload     *service.UploadService
	material   *service.MaterialService
	quiz       *service.QuizService
	lesson     *service.LessonService
	section    *service.SectionService
	course     *service.CourseService
	enrollment *service.EnrollmentService
	admin      *service.AdminService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	course     *controller.CourseController
	section    *controller.SectionController
	lesson     *controller.LessonController
	video      *controller.VideoController
	material   *controller.MaterialController
	quiz       *controller.QuizController
	enrollment *controller.EnrollmentController
	admin      *controller.AdminController
	ws         *controller.WSController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 热更新配置：原地覆盖配置对象，已持有指针的组件立即生效
func (a *App) ApplyConfig(cfg *config.Config) {
	*a.Config = *cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		category:   repository.NewCategoryRepository(db),
		course:     repository.NewCourseRepository(db),
		section:    repository.NewSectionRepository(db),
		lesson:     repository.NewLessonRepository(db),
		quiz:       repository.NewQuizRepository(db),
		material:   repository.NewMaterialRepository(db),
		video:      repository.NewVideoRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		voucher:    repository.NewVoucherRepository(db),
		refund:     repository.NewRefundRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.cleanup = service.NewCleanupService(rdb, s.storage)
	s.cancels = service.NewCancelRegistry()
	s.owner = service.NewOwnershipService(repos.course, repos.section, repos.lesson)

	// 推送枢纽先路由后扇出：事件先落库再推给客户端
	s.hub = service.NewVideoStatusHub(rdb)
	s.router = service.NewStatusRouter(repos.lesson)
	s.hub.SetRouter(s.router)
	go s.hub.Run()

	s.upload = service.NewUploadService(cfg, repos.video, repos.lesson, s.owner, s.storage, s.hub, s.cancels, s.cleanup, rdb)
	s.material = service.NewMaterialService(repos.material, repos.lesson, s.owner, s.storage, s.cleanup)
	s.quiz = service.NewQuizService(repos.quiz, repos.lesson, s.owner)
	s.lesson = service.NewLessonService(repos.lesson, repos.section, s.owner, s.upload, s.material, s.quiz)
	s.section = service.NewSectionService(repos.section, repos.lesson, repos.course, s.owner, s.lesson)
	s.course = service.NewCourseService(repos.course, repos.section, s.section)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.voucher, repos.refund)
	s.admin = service.NewAdminService(repos.user, repos.course, repos.category, repos.voucher, repos.refund, repos.enrollment)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		course:     controller.NewCourseController(s.course),
		section:    controller.NewSectionController(s.section),
		lesson:     controller.NewLessonController(s.lesson),
		video:      controller.NewVideoController(s.upload),
		material:   controller.NewMaterialController(s.material),
		quiz:       controller.NewQuizController(s.quiz),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		admin:      controller.NewAdminController(s.admin, s.user),
		ws:         controller.NewWSController(s.hub),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
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

func (a *App) startBackgroundTasks(s *services) {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelWorkers = cancel

	// 死信清理：回收取消/删除时没删掉的远端对象
	go s.cleanup.Run(ctx)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("course-market", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 先停推送枢纽和后台任务，再关HTTP
	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}
	if a.cancelWorkers != nil {
		a.cancelWorkers()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
