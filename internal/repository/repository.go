package repository

import (
	"context"
	"fmt"
	"log/slog"

	"photoshare/internal/config"
	"photoshare/internal/storage/mongodb"
	"photoshare/internal/storage/postgresql"
)

type Repository struct {
	Photos PhotoRepository

	healthCheck func(ctx context.Context) error
	close       func(ctx context.Context) error
}

// New подключается к хранилищу записей, выбранному в конфиге
func New(ctx context.Context, log *slog.Logger, cfg config.RecordStoreConfig) (*Repository, error) {
	const op = "repository.New"

	log = log.With(slog.String("op", op), slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.RecordStoreMongo:
		st, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		photos := NewPhotoMongoRepository(st.Database(), cfg.Mongo.Collection)
		if err := photos.EnsureIndexes(ctx); err != nil {
			_ = st.Stop(context.Background())
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("record store connected", slog.String("database", cfg.Mongo.Database))

		return &Repository{
			Photos:      photos,
			healthCheck: st.HealthCheck,
			close:       st.Stop,
		}, nil

	case config.RecordStorePostgres:
		st, err := postgresql.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if err := st.Migrate(ctx); err != nil {
			st.Stop()
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("record store connected")

		return &Repository{
			Photos:      NewPhotoPostgresRepository(st.Pool()),
			healthCheck: st.HealthCheck,
			close: func(context.Context) error {
				st.Stop()
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.healthCheck(ctx)
}

func (r *Repository) Close(ctx context.Context) error {
	return r.close(ctx)
}
