package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"surveybuilder/internal/app"
	"surveybuilder/internal/config"
	"surveybuilder/internal/logger"
	"surveybuilder/internal/service"
	"surveybuilder/internal/transport/rest"
	"surveybuilder/internal/transport/ws"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer lg.Sync()

	stores, err := app.Open(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to open store", zap.String("store", cfg.Store), zap.Error(err))
	}
	defer stores.Close(ctx)

	// Initialize WebSocket hub
	wsHub := ws.NewHub(lg)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.Session.TokenTTL)
	editorSvc := service.NewEditorService(stores.SessionRepo, stores.EditorCache, lg)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	editorSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		EditorService: editorSvc,
		AuthService:   authSvc,
		WSHub:         wsHub,
		Config:        cfg,
		Logger:        lg,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		lg.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.Store),
			zap.String("public_url", cfg.PublicURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("server forced to shutdown", zap.Error(err))
	}

	lg.Info("server exited")
}
