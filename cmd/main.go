package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pulsefit/pulsefit-backend/internal/app"
	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(utils.GetEnv("APP_ENV", "dev", nil))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	application, err := app.New(log)
	if err != nil {
		log.Fatal("failed to start", "error", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server error", "error", err)
		}
	case sig := <-sigCh:
		log.Info("signal received", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := application.Shutdown(ctx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}
}
