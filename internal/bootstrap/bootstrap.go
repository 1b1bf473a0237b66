package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/tam/internal/app/controllers"
	appMigrations "github.com/yigit/tam/internal/app/migrations"
	appRepos "github.com/yigit/tam/internal/app/repositories"
	appRoutes "github.com/yigit/tam/internal/app/routes"
	appServices "github.com/yigit/tam/internal/app/services"
	"github.com/yigit/tam/internal/config"
	"github.com/yigit/tam/internal/db"
	appMiddleware "github.com/yigit/tam/internal/middleware"
	pkgAuth "github.com/yigit/tam/internal/pkg/auth"
	"github.com/yigit/tam/internal/pkg/checkincode"
	"github.com/yigit/tam/internal/pkg/email"
	"github.com/yigit/tam/internal/pkg/filestorage"
	"github.com/yigit/tam/internal/pkg/helpers"
	"github.com/yigit/tam/internal/pkg/logger"
	"github.com/yigit/tam/internal/pkg/queue"
	"github.com/yigit/tam/internal/pkg/websocket"
	"github.com/yigit/tam/internal/seed"
	"github.com/yigit/tam/internal/workers"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	FileStorage         *filestorage.LocalStorage
	Queue               *queue.Client // nil when RabbitMQ is not configured
	AuthService         *appServices.AuthService
	EventService        *appServices.EventService
	RegistrationService *appServices.RegistrationService
	CheckinService      *appServices.CheckinService
	PaymentService      *appServices.PaymentService
	NotificationService *appServices.NotificationService
	ExportService       *appServices.ExportService
	ConfirmationWorker  *workers.ConfirmationWorker // nil when RabbitMQ is not configured
	LiveHub             *websocket.Hub
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Controllers         appRoutes.Controllers
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  strings.ToLower(cfg.Logging.Level),
		Format: logger.Format(strings.ToLower(cfg.Logging.Format)),
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	fileStorageBaseURL := strings.TrimRight(cfg.Server.BaseURL, "/") + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.Port == 465,
	}, lgr.With().Str("component", "email").Logger())

	// Without a broker confirmations are sent inline
	var publisher appServices.Publisher
	if cfg.RabbitMQ.URL != "" {
		deps.Queue, err = queue.NewRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize message queue: %w", err)
		}
		publisher = deps.Queue
	} else {
		lgr.Warn().Msg("RabbitMQ URL not set, confirmation emails are sent inline")
	}

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Server.Timezone, err)
	}

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.NotificationService = appServices.NewNotificationService(
		publisher,
		mailer,
		deps.Repos.RegistrationRepository,
		cfg.Checkin.MaxCodeLength,
		lgr.With().Str("component", "notifications").Logger(),
	)
	deps.EventService = appServices.NewEventService(deps.Repos.EventRepository, deps.FileStorage, lgr)
	deps.RegistrationService = appServices.NewRegistrationService(
		deps.Repos.TxStore,
		deps.Repos.RegistrationRepository,
		deps.Repos.EventRepository,
		deps.NotificationService,
		checkincode.New(),
		lgr,
	)
	deps.LiveHub = websocket.NewHub(lgr.With().Str("component", "live-feed").Logger())
	deps.CheckinService = appServices.NewCheckinService(
		deps.Repos.TxStore,
		deps.Repos.CheckinRepository,
		deps.LiveHub,
		cfg.Checkin.MaxCodeLength,
		lgr.With().Str("component", "checkin").Logger(),
	)
	deps.PaymentService = appServices.NewPaymentService(deps.Repos.TxStore, deps.NotificationService, lgr)
	deps.ExportService = appServices.NewExportService(deps.Repos.RegistrationRepository, deps.Repos.CheckinRepository, loc, lgr)

	if deps.Queue != nil {
		deps.ConfirmationWorker = workers.NewConfirmationWorker(
			deps.Queue,
			deps.NotificationService,
			lgr.With().Str("component", "confirmation-worker").Logger(),
		)
	}

	if err := seed.EnsureAdmin(ctx, cfg, deps.AuthService, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed admin account, proceeding anyway...")
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		Event:        appControllers.NewEventController(deps.EventService),
		Registration: appControllers.NewRegistrationController(deps.RegistrationService),
		Checkin:      appControllers.NewCheckinController(deps.CheckinService),
		Payment:      appControllers.NewPaymentController(deps.PaymentService),
		Export:       appControllers.NewExportController(deps.ExportService),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
		LiveFeed:     websocket.NewHandler(deps.LiveHub, cfg.Server.CORSAllowedOrigins, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.CORS(cfg.Server.CORSAllowedOrigins),
		gin.Recovery(),
	)

	appRoutes.SetupSwagger(router, strings.TrimPrefix(strings.TrimPrefix(cfg.Server.BaseURL, "https://"), "http://"))
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
