package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"dayboard/config"
	"dayboard/internal/adapters/auth"
	deliveryhttp "dayboard/internal/delivery/http"
	"dayboard/internal/delivery/http/controllers"
	"dayboard/internal/delivery/http/middleware"
	"dayboard/internal/repository"
	"dayboard/internal/services"
)

const serviceTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	storeCfg := repository.Config{
		Driver: cfg.StorageDriver,
		DBUrl:  cfg.DBUrl,
		Path:   cfg.StoragePath,
	}
	if storeCfg.Driver == "sqlite" {
		storeCfg.Path = filepath.Join(cfg.StoragePath, "dayboard.db")
	}
	store, err := repository.Open(ctx, storeCfg)
	if err != nil {
		logger.Error("open storage", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	scheduler := services.NewSchedulerService(store, logger, serviceTimeout)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	calendarController := controllers.NewCalendarController(logger, scheduler)
	tokenController := controllers.NewTokenController(logger, issuer)

	mux := deliveryhttp.NewRouter(calendarController, tokenController, verifier, logger)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port, "storage", cfg.StorageDriver, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
