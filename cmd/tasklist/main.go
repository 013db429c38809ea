package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/sun1tar/tasklist-service/internal/config"
	handlers "github.com/sun1tar/tasklist-service/internal/http"
	"github.com/sun1tar/tasklist-service/internal/logger"
	"github.com/sun1tar/tasklist-service/internal/middleware"
	"github.com/sun1tar/tasklist-service/internal/repository"
	"github.com/sun1tar/tasklist-service/internal/service"
)

func main() {
	log := logger.Init("tasklist")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	// Инициализация хранилища
	var (
		taskRepo repository.TaskRepository
		userRepo repository.UserRepository
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DB.DSN())
		if err != nil {
			log.WithError(err).Fatal("failed to open database")
		}
		if err := db.Ping(); err != nil {
			log.WithError(err).Fatal("failed to ping database")
		}

		// Таблица users создаётся первой: tasks ссылается на неё
		userRepo, err = repository.NewPostgresUserRepository(db)
		if err != nil {
			log.WithError(err).Fatal("failed to init user repository")
		}
		taskRepo, err = repository.NewPostgresTaskRepository(db)
		if err != nil {
			log.WithError(err).Fatal("failed to init task repository")
		}
	case config.DriverFile:
		taskRepo = repository.NewFileTaskRepository(cfg.FileStore.Path, cfg.FileStore.BackupPath)
	}
	defer taskRepo.Close()

	// Инициализация сервисов и хендлеров
	taskService := service.NewTaskService(taskRepo)
	taskHandler := handlers.NewTaskHandler(taskService, log)

	var (
		authHandler *handlers.AuthHandler
		authMW      func(http.Handler) http.Handler
	)
	if userRepo != nil {
		tokenService := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		authService := service.NewAuthService(userRepo)
		authHandler = handlers.NewAuthHandler(authService, tokenService, log)
		authMW = middleware.AuthMiddleware(tokenService, authService, log)
	}

	router := handlers.NewRouter(taskHandler, authHandler, authMW, cfg.StaticDir)

	// Цепочка middleware (порядок важен: request-id снаружи,
	// чтобы остальные видели его в контексте)
	var handler http.Handler = router
	handler = middleware.MetricsMiddleware(handler)
	handler = middleware.SecurityHeadersMiddleware(handler)
	handler = middleware.LoggingMiddleware(log)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":  cfg.Port,
			"store": cfg.StoreDriver,
		}).Info("tasklist service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down tasklist service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
