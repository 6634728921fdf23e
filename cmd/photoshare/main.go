package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"photoshare/internal/app"
	"photoshare/internal/config"
	"photoshare/internal/lib/logger/handlers/slogpretty"
	"photoshare/internal/lib/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// @title photoshare API
// @version 1.0
// @description Загрузка, просмотр, поиск и удаление фотографий.
// @host localhost:4000
// @BasePath /
func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting photoshare",
		slog.String("env", cfg.Env),
		slog.String("record_store", cfg.RecordStore.Driver),
		slog.String("object_store", cfg.ObjectStore.Driver),
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	application, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Error("failed to start application", sl.Err(err))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		log.Error("http server stopped with error", sl.Err(err))
	}

	application.Close(context.Background())

	log.Info("Gracefully stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
