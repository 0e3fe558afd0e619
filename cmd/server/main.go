package main

import (
	"log"
	"net/http"
	"os"

	_ "reviewhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/db"
	"reviewhub/internal/handler"
	"reviewhub/internal/logger"
	"reviewhub/internal/middleware/principal"
	"reviewhub/internal/model"
	"reviewhub/internal/notify"
	"reviewhub/internal/repository"
	"reviewhub/internal/router"
	"reviewhub/internal/service"
)

// @title ReviewHub API
// @version 1.0
// @description Review aggregation API: categorized titles, genres, one review per user per title, comments, and email-confirmed signup with JWT access tokens.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	appLogger, err := logger.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer appLogger.Sync()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		appLogger.Warn("RESET_DB=true detected, dropping all tables")
		tables := []interface{}{
			&model.Comment{},
			&model.Review{},
			&model.GenreTitle{},
			&model.Title{},
			&model.Genre{},
			&model.Category{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				appLogger.Warn("drop table failed (may not exist)", zap.Error(err))
			}
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	genreRepo := repository.NewGenreRepository(gormDB)
	titleRepo := repository.NewTitleRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	// Initialize auth and notification components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	notifier := notify.NewEmailNotifier(cfg, appLogger)

	// Initialize services
	identityService := service.NewIdentityService(userRepo, jwtService, notifier, appLogger)
	catalogService := service.NewCatalogService(categoryRepo, genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	discussionService := service.NewDiscussionService(titleRepo, reviewRepo, commentRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(identityService)
	userHandler := handler.NewUserHandler(identityService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	titleHandler := handler.NewTitleHandler(titleService)
	reviewHandler := handler.NewReviewHandler(discussionService)
	commentHandler := handler.NewCommentHandler(discussionService)

	// Register routes
	router.Register(
		e,
		cfg,
		principal.NewLoader(userRepo),
		authHandler,
		userHandler,
		catalogHandler,
		titleHandler,
		reviewHandler,
		commentHandler,
	)

	appLogger.Info("starting server", zap.String("port", cfg.ServerPort))

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
