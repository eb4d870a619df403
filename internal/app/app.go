package app

import (
	"context"
	"errors"
	"mindleap_backend/internal/config"
	"mindleap_backend/internal/controller"
	"mindleap_backend/internal/repository"
	"mindleap_backend/internal/service"
	"mindleap_backend/pkg/configwatcher"
	"mindleap_backend/pkg/database"
	"mindleap_backend/pkg/logger"
	"mindleap_backend/pkg/monitoring"
	"mindleap_backend/pkg/security"
	"mindleap_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	student       *repository.StudentRepository
	subAdmin      *repository.SubAdminRepository
	subject       *repository.SubjectRepository
	question      *repository.QuestionRepository
	dailyQuestion *repository.DailyQuestionRepository
	streak        *repository.StreakRepository
	quiz          *repository.QuizRepository
	quizAttempt   *repository.QuizAttemptRepository
	event         *repository.EventRepository
	inquiry       *repository.InquiryRepository
}

type services struct {
	calendar         *service.Calendar
	leaderboardCache *service.RedisLeaderboardCache
	storage          *service.StorageService
	auth             *service.AuthService
	user             *service.UserService
	student          *service.StudentService
	subject          *service.SubjectService
	question         *service.QuestionService
	daily            *service.DailyQuestionService
	answer           *service.AnswerService
	streak           *service.StreakService
	leaderboard      *service.LeaderboardService
	quiz             *service.QuizService
	event            *service.EventService
	inquiry          *service.InquiryService
	subAdmin         *service.SubAdminService
	report           *service.ReportService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	student     *controller.StudentController
	streak      *controller.StreakController
	leaderboard *controller.LeaderboardController
	report      *controller.ReportController
	catalog     *controller.CatalogController
	quiz        *controller.QuizController
	event       *controller.EventController
	inquiry     *controller.InquiryController
	subAdmin    *controller.SubAdminController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		student:       repository.NewStudentRepository(db),
		subAdmin:      repository.NewSubAdminRepository(db),
		subject:       repository.NewSubjectRepository(db),
		question:      repository.NewQuestionRepository(db),
		dailyQuestion: repository.NewDailyQuestionRepository(db),
		streak:        repository.NewStreakRepository(db),
		quiz:          repository.NewQuizRepository(db),
		quizAttempt:   repository.NewQuizAttemptRepository(db),
		event:         repository.NewEventRepository(db),
		inquiry:       repository.NewInquiryRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.calendar = service.NewCalendar(cfg.Streak.Location(), time.Now)
	s.storage = service.NewStorageService(&cfg.Storage)

	// Redis 未启用时排行榜直接查库
	var cache service.LeaderboardCache
	if rdb != nil {
		s.leaderboardCache = service.NewRedisLeaderboardCache(rdb, time.Duration(cfg.Streak.LeaderboardCacheTTL)*time.Second)
		cache = s.leaderboardCache
	}

	s.user = service.NewUserService(repos.user)
	s.streak = service.NewStreakService(repos.streak, s.calendar)
	s.subject = service.NewSubjectService(repos.subject)
	s.question = service.NewQuestionService(repos.question, repos.subject, s.storage)
	s.daily = service.NewDailyQuestionService(
		repos.dailyQuestion,
		repos.question,
		repos.streak,
		s.subject,
		s.calendar,
		cfg.Streak.RecentWindow,
	)
	s.auth = service.NewAuthService(repos.user, repos.student, cfg, cache)
	s.student = service.NewStudentService(repos.student, s.streak, cache)
	s.answer = service.NewAnswerService(repos.streak, repos.dailyQuestion, s.daily, s.calendar, cache)
	s.leaderboard = service.NewLeaderboardService(repos.student, repos.streak, cache)
	s.quiz = service.NewQuizService(repos.quiz, repos.quizAttempt, s.calendar)
	s.event = service.NewEventService(repos.event, s.storage, s.calendar)
	s.inquiry = service.NewInquiryService(repos.inquiry)
	s.subAdmin = service.NewSubAdminService(repos.user, repos.subAdmin)
	s.report = service.NewReportService(repos.streak, repos.quizAttempt, s.calendar)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		user:        controller.NewUserController(s.user),
		student:     controller.NewStudentController(s.student),
		streak:      controller.NewStreakController(s.daily, s.answer, s.streak, s.student),
		leaderboard: controller.NewLeaderboardController(s.leaderboard, s.student),
		report:      controller.NewReportController(s.report, s.student),
		catalog:     controller.NewCatalogController(s.subject, s.question),
		quiz:        controller.NewQuizController(s.quiz, s.student),
		event:       controller.NewEventController(s.event),
		inquiry:     controller.NewInquiryController(s.inquiry),
		subAdmin:    controller.NewSubAdminController(s.subAdmin),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerReloadables 可热更新：时区、防重复窗口、排行榜缓存时长
func (a *App) registerReloadables(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.calendar.SetLocation(cfg.Streak.Location())
		s.daily.SetRecentWindow(cfg.Streak.RecentWindow)
		if s.leaderboardCache != nil {
			s.leaderboardCache.SetTTL(time.Duration(cfg.Streak.LeaderboardCacheTTL) * time.Second)
		}
		logger.Log.Info("Streak settings reloaded",
			zap.String("timezone", cfg.Streak.Timezone),
			zap.Int("recentWindow", cfg.Streak.RecentWindow),
			zap.Int("leaderboardCacheSeconds", cfg.Streak.LeaderboardCacheTTL),
		)
	})
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	if cfg.MigrateOnly {
		return app
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
		if err != nil {
			// 缓存不可用不影响主流程
			logger.Log.Warn("Redis unavailable, leaderboard cache disabled", zap.Error(err))
		} else {
			app.Redis = rdb
		}
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, app.Redis)
	app.services = services
	controllers := app.initControllers(services, db, app.Redis)
	app.registerReloadables(services)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(&cfg.Tracing)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	app.registerRoutes(router, controllers, services)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 配置热更新
	go func() {
		if err := configwatcher.WatchConfig(ctx, configDir, a.applyConfig); err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	logger.Log.Sync()
}
