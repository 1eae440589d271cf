package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moneybook/internal/cache"
	"moneybook/internal/config"
	"moneybook/internal/database"
	"moneybook/internal/jobs"
	"moneybook/internal/logging"
	"moneybook/internal/middleware"
	"moneybook/internal/router"
	"moneybook/internal/store"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		logrus.Fatalf("setup logging: %v", err)
	}
	defer logCloser.Close()

	if cfg.Security.EncryptionKey == "" {
		logrus.Warn("security.encryption_key is empty: audit logs are stored in plain text and backups are disabled")
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		logrus.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logrus.Fatalf("migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := router.Deps{
		DB:      db,
		Limiter: middleware.NewRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst),
	}
	if cfg.Redis.URL != "" {
		rc, err := cache.Open(ctx, cfg.Redis.URL)
		if err != nil {
			logrus.WithError(err).Warn("continuing without redis cache")
		} else {
			defer rc.Close()
			deps.Cache = rc
		}
	}

	scheduler := jobs.NewScheduler()
	if err := scheduler.AddSessionSweep(cfg.Jobs.SessionSweep, store.NewSessions(db)); err != nil {
		logrus.Fatalf("schedule jobs: %v", err)
	}
	if err := scheduler.Add("@every 10m", "rate limiter cleanup", func() {
		deps.Limiter.Cleanup(30 * time.Minute)
	}); err != nil {
		logrus.Fatalf("schedule jobs: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	r, err := router.SetupRouter(cfg, deps)
	if err != nil {
		logrus.Fatalf("setup router: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("addr", addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("run server: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown")
	}
	if sqlDB, err := database.SQLDB(db); err == nil {
		sqlDB.Close()
	}
}
