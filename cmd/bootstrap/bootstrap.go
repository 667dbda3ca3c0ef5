package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-console/config"
	deliveryHttp "clinic-console/internal/delivery/http"
	"clinic-console/internal/delivery/http/handler"
	"clinic-console/internal/delivery/http/middleware"
	domainRepo "clinic-console/internal/domain/repository"
	"clinic-console/internal/infrastructure/cache"
	"clinic-console/internal/infrastructure/clinicapi"
	"clinic-console/internal/infrastructure/database"
	"clinic-console/internal/repository"
	"clinic-console/internal/service"
	"clinic-console/internal/usecase"
	"clinic-console/pkg/jwt"
	"clinic-console/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	ClinicAPI   *clinicapi.Client
	Forms       usecase.FormUsecase
	Server      *http.Server
}

// LoadConfig configures the logger and loads configuration
func LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")
	return cfg, nil
}

// New creates a new App instance with all dependencies initialized. The
// database and Redis are optional.
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Log: logrus.StandardLogger()}

	// Initialize database
	if cfg.DB.Enabled() {
		db, err := database.NewPostgresConnection(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		logrus.Info("Database connected successfully")
	} else {
		logrus.Warn("DB_HOST not set, submission audit is log-only")
	}

	// Initialize Redis
	sessionRepo := repository.NewFormSessionMemoryRepository()
	notificationRepo := repository.NewNotificationMemoryRepository()
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		sessionRepo = repository.NewFormSessionRedisRepository(redisClient)
		notificationRepo = repository.NewNotificationRedisRepository(redisClient)
		logrus.Info("Redis connected successfully")
	} else {
		logrus.Warn("REDIS_HOST not set, form sessions are kept in memory")
	}

	// Initialize all layers
	app.Server = app.initializeServer(sessionRepo, notificationRepo)

	return app, nil
}

// NewLocal creates an App for one-shot CLI use: sessions and notifications
// in memory, audit written to the log only.
func NewLocal(cfg *config.Config) *App {
	app := &App{Config: cfg, Log: logrus.StandardLogger()}
	app.initializeForms(repository.NewFormSessionMemoryRepository(), repository.NewNotificationMemoryRepository())
	return app
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

func (app *App) initializeForms(sessionRepo domainRepo.FormSessionRepository, notificationRepo domainRepo.NotificationRepository) (*jwt.JWTService, *validator.CustomValidator) {
	cfg := app.Config

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.FormToken)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize clinic API client
	app.ClinicAPI = clinicapi.NewClient(cfg.ClinicAPI.BaseURL,
		clinicapi.WithTimeout(cfg.ClinicAPI.Timeout),
		clinicapi.WithLogger(app.Log),
	)

	// Initialize services
	submissionLogRepo := repository.NewSubmissionLogRepository()
	referenceLoader := service.NewReferenceLoader(app.ClinicAPI, app.Log)
	auditService := service.NewSubmissionAuditService(app.DB, app.Log, submissionLogRepo)
	appState := service.NewAppState()

	// Initialize usecases
	app.Forms = usecase.NewFormUsecase(
		app.Log,
		customValidator,
		sessionRepo,
		notificationRepo,
		app.ClinicAPI,
		referenceLoader,
		auditService,
		appState,
		jwtService,
		cfg.Form,
		cfg.Notification,
	)

	return jwtService, customValidator
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(sessionRepo domainRepo.FormSessionRepository, notificationRepo domainRepo.NotificationRepository) *http.Server {
	jwtService, customValidator := app.initializeForms(sessionRepo, notificationRepo)

	submissionLogUsecase := usecase.NewSubmissionLogUsecase(app.DB, app.Log, repository.NewSubmissionLogRepository())

	// Initialize handlers
	formHandler := handler.NewFormHandler(app.Forms, customValidator)
	submissionLogHandler := handler.NewSubmissionLogHandler(submissionLogUsecase)

	// Initialize middleware
	formTokenMiddleware := middleware.NewFormTokenMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(formHandler, submissionLogHandler, formTokenMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", app.Config.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		logrus.Infof("Clinic API: %s", app.Config.ClinicAPI.BaseURL)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
