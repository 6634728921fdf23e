package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	httpapp "photoshare/internal/app/http"
	"photoshare/internal/config"
	"photoshare/internal/lib/logger/sl"
	"photoshare/internal/repository"
	services "photoshare/internal/services/photo_service"
	"photoshare/internal/storage/objectstore"
	redisapp "photoshare/internal/storage/redis"
	httprouters "photoshare/internal/transport/http"
)

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.Server
	repo       *repository.Repository
	redis      *redisapp.Client
}

// New поднимает хранилища и собирает HTTP-сервер. Все соединения создаются один раз.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	repo, err := repository.New(ctx, log, cfg.RecordStore)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	gateway, err := objectstore.New(ctx, cfg.ObjectStore)
	if err != nil {
		_ = repo.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("object store ready", slog.String("driver", cfg.ObjectStore.Driver))

	// журнал рассогласований работает только при настроенном Redis
	var redisClient *redisapp.Client
	if cfg.Redis.RedisAddr != "" {
		redisClient = redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		if err := redisClient.HealthCheck(ctx); err != nil {
			log.Warn("redis is unavailable, orphans will only be logged", sl.Err(err))
			_ = redisClient.Close()
			redisClient = nil
		}
	}

	photoService := services.NewPhotoService(
		log,
		repo.Photos,
		repository.NewRedisOrphanRepo(redisClient),
		gateway,
		services.GatePolicy{
			MaxSize: cfg.Upload.MaxSize,
			Strict:  cfg.Upload.StrictTypes,
		},
		cfg.ObjectStore.Folder,
	)

	routers := httprouters.NewRouter(log, photoService, !cfg.IsProduction())

	var staticDir string
	if local, ok := gateway.(*objectstore.LocalGateway); ok {
		staticDir = local.BaseDir()
	}

	server := httpapp.New(log, httpapp.Options{
		HTTP:          cfg.HTTP,
		MaxUploadSize: cfg.Upload.MaxSize,
		StaticDir:     staticDir,
	}, routers)
	server.BuildRouters()

	return &App{
		log:        log,
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
	}, nil
}

// Run блокируется до отмены ctx или ошибки сервера, затем останавливает сервер
func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.HTTPServer.Start()
	})

	g.Go(func() error {
		<-gCtx.Done()
		return a.HTTPServer.Stop(context.Background())
	})

	return g.Wait()
}

// Close закрывает соединения с хранилищами
func (a *App) Close(ctx context.Context) {
	const op = "app.Close"

	log := a.log.With(slog.String("op", op))

	if err := a.repo.Close(ctx); err != nil {
		log.Error("failed to close record store", sl.Err(err))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error("failed to close redis", sl.Err(err))
		}
	}
}
