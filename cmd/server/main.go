package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/GoRenal/internal/config"
	"github.com/Skufu/GoRenal/internal/database"
	"github.com/Skufu/GoRenal/internal/logger"
	"github.com/Skufu/GoRenal/internal/metrics"
	"github.com/Skufu/GoRenal/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger config comes from cfg, so fall back to a default logger here.
		zap.NewExample().Fatal("config error", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		zap.NewExample().Fatal("logger error", zap.Error(err))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	err = run(cfg, log, stop)
	_ = log.Sync()
	if err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// run serves until stop fires or the listener fails. Deferred cleanup always
// runs before it returns.
func run(cfg *config.Config, log *zap.Logger, stop <-chan os.Signal) error {
	gin.SetMode(cfg.GinMode)

	opts := server.Options{
		StaticRoot:     server.DetectStaticRoot(),
		Logger:         log,
		Metrics:        metrics.NewCollector("renalcalc"),
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	}

	if cfg.EnableDB {
		pool, err := database.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()
		opts.DB = pool
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	log.Info("server listening", zap.String("port", cfg.Port), zap.Bool("db", cfg.EnableDB))

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-stop:
	}

	return shutdown(srv, cfg.ShutdownTimeout, log)
}

func shutdown(srv *http.Server, timeout time.Duration, log *zap.Logger) error {
	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
