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

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"user-sandbox/internal/config"
	apphttp "user-sandbox/internal/http"
	"user-sandbox/internal/repository"
	"user-sandbox/internal/repository/postgres"
	"user-sandbox/internal/repository/sqlite"
	"user-sandbox/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, repos, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := repos.RunMigrations(ctx, db, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	userService := service.NewUserService(db, repos, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		db,
		apphttp.AuthConfig{Secret: cfg.Auth.JWTSecret, Issuer: cfg.Auth.Issuer},
		logger,
	)
	handler.RegisterRoutes(router)

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("auth jwt secret is empty; write endpoints are unauthenticated")
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func openStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*sql.DB, repository.Manager, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)
		return db, sqlite.NewManager(), nil
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres database")
		return db, postgres.NewManager(), nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
