package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"famtasks/internal/config"
	"famtasks/internal/handler"
	"famtasks/internal/middleware"
	"famtasks/internal/repository"
	"famtasks/internal/service"
	"famtasks/migrations"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Database schema up to date")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Domain service
	taskService := service.NewTaskService(taskRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo)
	familyHandler := handler.NewFamilyHandler(familyRepo, userRepo)
	taskHandler := handler.NewTaskHandler(taskService, userRepo)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Family routes
		authorized.POST("/families", familyHandler.Create)
		authorized.GET("/families/:id/members", familyHandler.GetMembers)
		authorized.POST("/families/:id/members", familyHandler.AddMember)
		authorized.GET("/families/:id/tasks", taskHandler.ListByFamily)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/complete", taskHandler.Complete)
	}
	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
