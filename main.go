package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"digitpad/adapters/predictapi"
	"digitpad/app"
	"digitpad/internal"
	"digitpad/internal/config"
	"digitpad/internal/session"
	"digitpad/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	internal.DefaultLogger = logger
	gin.SetMode(appConfig.Server.GinMode)

	client, err := predictapi.NewClient(predictapi.Config{
		URL:     appConfig.Predictor.URL,
		Timeout: appConfig.Predictor.Timeout,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create predictor client: %v", err)
	}

	sessions := app.NewSessionManager(session.NewMemoryStore[*app.Session](), app.SessionConfig{
		Width:          appConfig.Canvas.Width,
		Height:         appConfig.Canvas.Height,
		ModelInputSize: appConfig.Canvas.ModelInputSize,
		TTL:            appConfig.Session.TTL,
	}, logger)

	server, err := ui.NewServer(ui.Dependencies{
		Sessions:  sessions,
		Predictor: app.NewPredictorService(client, logger),
		Inspector: client,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sessions.Run(ctx, appConfig.Session.TTL/2)
	})
	g.Go(func() error {
		logger.Info("Starting digitpad on port %s (predictor %s)", appConfig.Server.Port, appConfig.Predictor.URL)
		return server.Run(ctx, ":"+appConfig.Server.Port)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("digitpad stopped: %v", err)
	}
}
