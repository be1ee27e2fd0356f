package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-management-api/config"
	deliveryHttp "hospital-management-api/internal/delivery/http"
	"hospital-management-api/internal/delivery/http/handler"
	"hospital-management-api/internal/delivery/http/middleware"
	"hospital-management-api/internal/infrastructure/cache"
	"hospital-management-api/internal/infrastructure/database"
	"hospital-management-api/internal/infrastructure/mail"
	"hospital-management-api/internal/infrastructure/payment"
	"hospital-management-api/internal/infrastructure/receipt"
	"hospital-management-api/internal/infrastructure/storage"
	"hospital-management-api/internal/repository"
	"hospital-management-api/internal/service"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/jwt"
	"hospital-management-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const receiptIssuer = "Hospital Management System"

// App holds all dependencies for the application
type App struct {
	Config        *config.Config
	Log           *logrus.Logger
	DB            *gorm.DB
	RedisClient   *redis.Client
	Notifications *service.NotificationService
	Server        *http.Server
}

// LoadConfig reads configuration and configures the process wide logger from it.
func LoadConfig() (*config.Config, *logrus.Logger, error) {
	log := setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.App.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.Info("Configuration loaded successfully")

	return cfg, log, nil
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	fileStorage, err := storage.NewLocalStorage(cfg.Upload)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	app.Notifications = newNotificationService(cfg, log)
	app.Server = initializeServer(cfg, log, db, redisClient, app.Notifications, fileStorage)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	return logrus.StandardLogger()
}

func newNotificationService(cfg *config.Config, log *logrus.Logger) *service.NotificationService {
	return service.NewNotificationService(
		mail.NewMailer(cfg.Mail, log),
		log,
		cfg.Notification.Workers,
		cfg.Notification.QueueSize,
		cfg.Notification.SendTimeout,
	)
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	notifier *service.NotificationService,
	fileStorage service.FileStorage,
) *http.Server {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	billingRepo := repository.NewBillingRepository()
	medicalRecordRepo := repository.NewMedicalRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	gateway := payment.NewRazorpayGateway(cfg.Payment)
	receipts := receipt.NewPDFRenderer(receiptIssuer)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, doctorRepo, auditService, notifier, jwtService, redisClient)
	patientUsecase := usecase.NewPatientUsecase(db, log, userRepo, appointmentRepo, medicalRecordRepo, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, userRepo, doctorRepo, appointmentRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, userRepo, doctorRepo, appointmentRepo, billingRepo, medicalRecordRepo, auditService, notifier)
	billingUsecase := usecase.NewBillingUsecase(db, log, userRepo, appointmentRepo, billingRepo, auditService, gateway, receipts, notifier, cfg.Payment)
	medicalRecordUsecase := usecase.NewMedicalRecordUsecase(db, log, userRepo, appointmentRepo, medicalRecordRepo, auditService, fileStorage, cfg.Upload.MaxFiles)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	billingHandler := handler.NewBillingHandler(billingUsecase, customValidator)
	medicalRecordHandler := handler.NewMedicalRecordHandler(medicalRecordUsecase, customValidator, cfg.Upload.MaxFileSize, cfg.Upload.MaxFiles)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		patientHandler,
		doctorHandler,
		appointmentHandler,
		billingHandler,
		medicalRecordHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		cfg.Upload.Dir,
		cfg.Upload.URLPrefix,
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and blocks until it is shut down.
func (app *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			app.Close()
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-quit:
	}

	app.shutdown()
	return nil
}

func (app *App) shutdown() {
	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close drains queued notifications and closes the database and Redis connections.
func (app *App) Close() {
	if app.Notifications != nil {
		app.Notifications.Stop()
	}

	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
