package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/courseport/courseport/docs" // Import generated swagger docs
	appControllers "github.com/courseport/courseport/internal/app/controllers"
	appMigrations "github.com/courseport/courseport/internal/app/migrations"
	appRepos "github.com/courseport/courseport/internal/app/repositories"
	appRoutes "github.com/courseport/courseport/internal/app/routes"
	appServices "github.com/courseport/courseport/internal/app/services"
	"github.com/courseport/courseport/internal/config"
	"github.com/courseport/courseport/internal/db"
	"github.com/courseport/courseport/internal/jobs"
	appMiddleware "github.com/courseport/courseport/internal/middleware"
	pkgAuth "github.com/courseport/courseport/internal/pkg/auth"
	"github.com/courseport/courseport/internal/pkg/email"
	"github.com/courseport/courseport/internal/pkg/filestorage"
	"github.com/courseport/courseport/internal/pkg/helpers"
	"github.com/courseport/courseport/internal/pkg/logger"
	"github.com/courseport/courseport/internal/pkg/notify"
	"github.com/courseport/courseport/internal/pkg/qrpass"
	"github.com/courseport/courseport/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           appServices.AuthService
	CourseService         appServices.CourseService
	InternshipService     appServices.InternshipService
	InstructorService     appServices.InstructorService
	ReviewService         appServices.ReviewService
	EnrollmentService     appServices.EnrollmentService
	ApplicationService    appServices.ApplicationService
	ManagerService        appServices.ManagerService
	AuthController        *appControllers.AuthController
	CourseController      *appControllers.CourseController
	InternshipController  *appControllers.InternshipController
	InstructorController  *appControllers.InstructorController
	ReviewController      *appControllers.ReviewController
	EnrollmentController  *appControllers.EnrollmentController
	ApplicationController *appControllers.ApplicationController
	ManagerController     *appControllers.ManagerController
	UploadController      *appControllers.UploadController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	ResponseCache         *appMiddleware.ResponseCache
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	FileStorage           filestorage.FileStorage
	Dispatcher            *notify.Dispatcher
	Jobs                  *jobs.Runner
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = buildFileStorage(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	// Outbound email and the async notification pipeline
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, lgr)
	deps.Dispatcher = notify.NewDispatcher(sender, cfg.Notify.BufferSize, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	passGenerator := qrpass.NewGenerator(cfg.JWT.Secret, deps.FileStorage)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.PasswordResetRepository,
		deps.JWTService,
		deps.Dispatcher,
		lgr,
	)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, deps.Repos.InstructorRepository, lgr)
	deps.InternshipService = appServices.NewInternshipService(deps.Repos.InternshipRepository, lgr)
	deps.InstructorService = appServices.NewInstructorService(deps.Repos.InstructorRepository, lgr)
	deps.ReviewService = appServices.NewReviewService(deps.Repos.ReviewRepository, deps.Repos.CourseRepository, lgr)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.EnrollmentRepository,
		deps.Repos.CourseRepository,
		deps.Repos.UserRepository,
		passGenerator,
		deps.Dispatcher,
		lgr,
	)
	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repos.ApplicationRepository,
		deps.Repos.InternshipRepository,
		deps.Repos.CourseRepository,
		deps.Repos.UserRepository,
		deps.Dispatcher,
		lgr,
	)
	deps.ManagerService = appServices.NewManagerService(deps.Repos.UserRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	if cfg.Cache.Enabled {
		ttl := helpers.ParseDuration(cfg.Cache.TTL, 30*time.Second)
		deps.ResponseCache = appMiddleware.NewResponseCache(ttl)
	}

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, deps.ResponseCache)
	deps.InternshipController = appControllers.NewInternshipController(deps.InternshipService, deps.ResponseCache)
	deps.InstructorController = appControllers.NewInstructorController(deps.InstructorService, deps.ResponseCache)
	deps.ReviewController = appControllers.NewReviewController(deps.ReviewService, deps.ResponseCache)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService)
	deps.ManagerController = appControllers.NewManagerController(deps.ManagerService)
	deps.UploadController = appControllers.NewUploadController(deps.FileStorage)

	deps.Jobs = jobs.NewRunner(deps.Repos, deps.ResponseCache, deps.Dispatcher, cfg, lgr)

	return deps, nil
}

// buildFileStorage selects the storage backend from configuration.
func buildFileStorage(cfg *config.Config) (filestorage.FileStorage, error) {
	if cfg.Storage.Driver == "cloudinary" {
		return filestorage.NewCloudinaryStorage(cfg.Storage.CloudinaryURL, cfg.Storage.Folder)
	}

	baseURL := cfg.Storage.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port + "/uploads"
	}
	return filestorage.NewLocalStorage(cfg.Storage.BasePath, baseURL)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	if cfg.Metrics.Enabled {
		router.Use(appMiddleware.Metrics())
		appRoutes.SetupMetrics(router)
	}

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CourseController,
		deps.InternshipController,
		deps.InstructorController,
		deps.ReviewController,
		deps.EnrollmentController,
		deps.ApplicationController,
		deps.ManagerController,
		deps.UploadController,
		deps.AuthMiddleware,
		deps.ResponseCache,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
