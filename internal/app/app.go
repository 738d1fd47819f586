package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pathfinder_backend/internal/config"
	"pathfinder_backend/internal/controller"
	"pathfinder_backend/internal/repository"
	"pathfinder_backend/internal/service"
	"pathfinder_backend/pkg/configwatcher"
	"pathfinder_backend/pkg/database"
	"pathfinder_backend/pkg/logger"
	"pathfinder_backend/pkg/monitoring"
	"pathfinder_backend/pkg/security"
	"pathfinder_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	ctx             context.Context
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	specialty   *repository.SpecialtyRepository
	association *repository.AssociationRepository
	quiz        *repository.QuizRepository
	attempt     *repository.QuizAttemptRepository
}

type services struct {
	association *service.AssociationService
	quizAttempt *service.QuizAttemptService
	hub         *service.WorkflowHub
}

type controllers struct {
	association *controller.AssociationController
	quiz        *controller.QuizController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		specialty:   repository.NewSpecialtyRepository(db),
		association: repository.NewAssociationRepository(db),
		quiz:        repository.NewQuizRepository(db),
		attempt:     repository.NewQuizAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}
	s.hub = service.NewWorkflowHub(rdb)
	s.association = service.NewAssociationService(
		repos.association,
		repos.user,
		repos.specialty,
		repos.attempt,
		s.hub,
	)
	s.quizAttempt = service.NewQuizAttemptService(
		repos.quiz,
		repos.attempt,
		repos.association,
		s.association,
		cfg.Quiz.DefaultPassRatio,
	)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		association: controller.NewAssociationController(s.association, s.hub),
		quiz:        controller.NewQuizController(s.quizAttempt),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp connects storage and builds the HTTP stack. With cfg.MigrateOnly
// set it stops after the schema migration.
func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{Config: cfg, ConfigDir: configDir, DB: db}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	app.build(gin.Default())
	app.RegisterConfigCallback(logger.Reload)
	return app
}

// build wires repositories, services and controllers onto router.
func (a *App) build(router *gin.Engine) {
	if a.ctx == nil {
		a.ctx, a.cancel = context.WithCancel(context.Background())
	}

	repos := a.initRepositories(a.DB)
	a.services = a.initServices(repos, a.Config, a.Redis)
	ctrls := a.initControllers(a.services, a.DB, a.Redis)

	monitoring.Init()

	a.Router = router
	a.setupMiddlewares(router, a.Config)
	a.registerRoutes(router, ctrls, a.Config)

	go a.services.hub.Run(a.ctx)
}

func (a *App) applyConfig(cfg *config.Config) {
	logger.Log.Info("Configuration reloaded")
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	if a.ConfigDir != "" {
		go func() {
			if err := configwatcher.WatchConfig(a.ctx, a.ConfigDir, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)

	logger.Log.Info("Server exiting")
}

// Close stops background work and releases connections.
func (a *App) Close(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = logger.Log.Sync()
}
