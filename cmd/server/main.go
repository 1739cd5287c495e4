package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tutorhub/internal/app"
	"tutorhub/internal/config"
	apphttp "tutorhub/internal/http"
)

func main() {
	cfg, err := config.Load()
	logger := app.NewLogger(cfg)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer store.Close()

	services := app.NewServices(store, cfg, logger)
	if _, err := services.Subjects.Seed(ctx, cfg.Subjects.Defaults); err != nil {
		logger.Fatalf("seed subjects: %v", err)
	}

	storageSvc, localUploads, err := app.BuildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := apphttp.NewHandler(apphttp.Deps{
		Auth:           services.Auth,
		Sessions:       services.Sessions,
		Subjects:       services.Subjects,
		Posts:          services.Posts,
		Messages:       services.Messages,
		Drafts:         services.Drafts,
		Storage:        storageSvc,
		Logger:         logger,
		SecureCookies:  cfg.IsProduction(),
		MaxUploadBytes: cfg.Upload.MaxBytes,
		LocalUploads:   localUploads,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apphttp.NewRouter(handler, logger, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
