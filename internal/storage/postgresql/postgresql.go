package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

// схема создаётся при старте, отдельного инструмента миграций нет
const schema = `
CREATE TABLE IF NOT EXISTS photos (
	id               UUID PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL,
	image_category   TEXT NOT NULL,
	image_type       TEXT NOT NULL,
	user_phonenumber TEXT NOT NULL,
	user_name        TEXT NOT NULL,
	user_email       TEXT NOT NULL,
	user_university  TEXT NOT NULL DEFAULT ' ',
	image_url        TEXT NOT NULL,
	cloudinary_id    TEXT NOT NULL,
	public_id        TEXT NOT NULL,
	tags             TEXT[] NOT NULL DEFAULT '{}',
	uploaded_by      TEXT NOT NULL DEFAULT 'anonymous',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS photos_created_at_idx ON photos (created_at DESC);
CREATE INDEX IF NOT EXISTS photos_tags_idx ON photos USING GIN (tags);
`

func New(ctx context.Context, dsn string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Migrate создаёт таблицу photos, если её ещё нет
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.postgresql.Migrate"

	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.db
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Storage) Stop() {
	s.db.Close()
}
