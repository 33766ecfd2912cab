package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"skillbloom_backend/internal/config"
	"skillbloom_backend/internal/controller"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/service"
	"skillbloom_backend/pkg/configwatcher"
	"skillbloom_backend/pkg/database"
	"skillbloom_backend/pkg/logger"
	"skillbloom_backend/pkg/monitoring"
	"skillbloom_backend/pkg/security"
	"skillbloom_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user    *repository.UserRepository
	skill   *repository.SkillRepository
	session *repository.SessionRepository
	rating  *repository.RatingRepository
	badge   *repository.BadgeRepository
	xpTxn   *repository.XPTransactionRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	badge        *service.BadgeService
	embedding    *service.EmbeddingService
	match        *service.MatchService
	session      *service.SessionService
	notification *service.NotificationService
	storage      *service.StorageService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	skill        *controller.SkillController
	match        *controller.MatchController
	session      *controller.SessionController
	notification *controller.NotificationController
	badge        *controller.BadgeController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		skill:   repository.NewSkillRepository(db),
		session: repository.NewSessionRepository(db),
		rating:  repository.NewRatingRepository(db),
		badge:   repository.NewBadgeRepository(db),
		xpTxn:   repository.NewXPTransactionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.skill, cfg)
	s.badge = service.NewBadgeService(repos.badge, repos.user)
	s.user = service.NewUserService(repos.user, repos.skill, repos.xpTxn, s.badge, db)
	s.embedding = service.NewEmbeddingService(cfg.Embedding, rdb)
	s.match = service.NewMatchService(repos.skill, s.embedding, cfg.Match.Threshold, cfg.Match.EnforceThreshold)
	s.session = service.NewSessionService(repos.session, repos.rating, repos.user, repos.skill, s.badge, db)
	s.notification = service.NewNotificationService(cfg.SMS, s.match)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user, s.storage),
		skill:        controller.NewSkillController(repos.skill),
		match:        controller.NewMatchController(s.match),
		session:      controller.NewSessionController(s.session),
		notification: controller.NewNotificationController(s.notification),
		badge:        controller.NewBadgeController(repos.badge),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
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

// startBackgroundTasks 监听配置文件，把匹配阈值变更热下发给匹配服务
func (a *App) startBackgroundTasks(s *services) {
	go configwatcher.WatchConfig("configs/config.yaml", func(cfg *config.Config) {
		s.match.SetPolicy(cfg.Match.Threshold, cfg.Match.EnforceThreshold)
		logger.Log.Info("Match policy reloaded",
			zap.Float64("threshold", cfg.Match.Threshold),
			zap.Bool("enforce", cfg.Match.EnforceThreshold))
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Redis 不可用时嵌入缓存降级为直连，不阻断启动
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, embedding cache disabled", zap.Error(err))
		rdb = nil
	}
	database.RedisClient = rdb

	if cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
		if cfg.MigrateOnly {
			logger.Log.Info("Migration completed, exiting")
			os.Exit(0)
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("skillbloom", cfg.Tracing.CollectorEndpoint); err != nil {
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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
