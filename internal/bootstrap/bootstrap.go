package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/sherubtse/feedback-portal/internal/app/controllers"
	appMigrations "github.com/sherubtse/feedback-portal/internal/app/migrations"
	appRepos "github.com/sherubtse/feedback-portal/internal/app/repositories"
	appRoutes "github.com/sherubtse/feedback-portal/internal/app/routes"
	appServices "github.com/sherubtse/feedback-portal/internal/app/services"
	"github.com/sherubtse/feedback-portal/internal/config"
	"github.com/sherubtse/feedback-portal/internal/db"
	appMiddleware "github.com/sherubtse/feedback-portal/internal/middleware"
	"github.com/sherubtse/feedback-portal/internal/pkg/email"
	"github.com/sherubtse/feedback-portal/internal/pkg/logger"
	"github.com/sherubtse/feedback-portal/internal/pkg/view"
	"github.com/sherubtse/feedback-portal/internal/seed"
)

// Dependencies holds all the application dependencies.
type Dependencies struct {
	AuthService        *appServices.AuthService
	SessionService     *appServices.SessionService
	FeedbackService    *appServices.FeedbackService
	FacultyService     *appServices.FacultyService
	CourseService      *appServices.CourseService
	DashboardService   *appServices.DashboardService
	AuthController     *appControllers.AuthController
	FeedbackController *appControllers.FeedbackController
	AdminController    *appControllers.AdminController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	EmailSender        email.Sender
	Renderer           view.Renderer
	Logger             zerolog.Logger
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

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
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
	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg.Admin.Email, cfg.Admin.Password, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Renderer = view.NewHTMLRenderer()
	deps.EmailSender = email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, lgr)

	deps.AuthService = appServices.NewAuthService(deps.Repos.Users, deps.EmailSender, lgr)
	deps.SessionService = appServices.NewSessionService(deps.Repos.Sessions, deps.Repos.Users, cfg.SessionTTL(), lgr)
	deps.FeedbackService = appServices.NewFeedbackService(deps.Repos.Feedback, deps.Repos.Courses, lgr)
	deps.FacultyService = appServices.NewFacultyService(deps.Repos.Faculty, lgr)
	deps.CourseService = appServices.NewCourseService(deps.Repos.Courses, deps.Repos.Faculty, lgr)
	deps.DashboardService = appServices.NewDashboardService(deps.Repos.Feedback, deps.Repos.Faculty, deps.Repos.Courses)

	// Expired sessions accumulate across restarts; clear them on the way up.
	if err := deps.SessionService.PurgeExpired(context.Background()); err != nil {
		lgr.Warn().Err(err).Msg("Failed to purge expired sessions")
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionService, deps.Renderer, cfg.Session.CookieName)

	deps.AuthController = appControllers.NewAuthController(
		deps.AuthService,
		deps.SessionService,
		deps.Renderer,
		cfg.Session.CookieName,
		cfg.Session.CookieSecure,
		lgr,
	)
	deps.FeedbackController = appControllers.NewFeedbackController(deps.FeedbackService, deps.Renderer, lgr)
	deps.AdminController = appControllers.NewAdminController(
		deps.DashboardService,
		deps.FacultyService,
		deps.CourseService,
		deps.FeedbackService,
		deps.Renderer,
		lgr,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), gin.Recovery())

	router.LoadHTMLGlob("web/templates/*.gohtml")
	router.Static("/static", "web/static")

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.FeedbackController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	return router
}
