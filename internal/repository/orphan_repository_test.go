package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/domain/models"
	"photoshare/internal/repository"
	redisapp "photoshare/internal/storage/redis"
)

func NewMockClient() (*redisapp.Client, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return &redisapp.Client{Client: db}, mock
}

func setupOrphanRepo() (*repository.RedisOrphanRepo, redismock.ClientMock) {
	db, mock := NewMockClient()
	return repository.NewRedisOrphanRepo(db), mock
}

func testOrphan() models.Orphan {
	return models.Orphan{
		Kind:      models.OrphanRemoteObject,
		PublicID:  "astro-photos/m42",
		ImageURL:  "https://res.cloudinary.com/demo/image/upload/astro-photos/m42.jpg",
		Reason:    "insert failed",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveOrphan(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupOrphanRepo()

	orphan := testOrphan()
	payload, err := json.Marshal(orphan)
	require.NoError(t, err)

	t.Run("successful save", func(t *testing.T) {
		mock.ExpectLPush("photoshare:orphans", string(payload)).SetVal(1)
		err := repo.SaveOrphan(ctx, orphan)
		assert.NoError(t, err)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectLPush("photoshare:orphans", string(payload)).SetErr(redis.ErrClosed)
		err := repo.SaveOrphan(ctx, orphan)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrphans(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupOrphanRepo()

	orphan := testOrphan()
	payload, err := json.Marshal(orphan)
	require.NoError(t, err)

	t.Run("returns decoded entries", func(t *testing.T) {
		mock.ExpectLRange("photoshare:orphans", 0, 9).SetVal([]string{string(payload)})

		orphans, err := repo.ListOrphans(ctx, 10)
		require.NoError(t, err)
		require.Len(t, orphans, 1)
		assert.Equal(t, orphan, orphans[0])
	})

	t.Run("broken entry", func(t *testing.T) {
		mock.ExpectLRange("photoshare:orphans", 0, 0).SetVal([]string{"{"})

		_, err := repo.ListOrphans(ctx, 1)
		assert.Error(t, err)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectLRange("photoshare:orphans", 0, 4).SetErr(redis.ErrClosed)

		_, err := repo.ListOrphans(ctx, 5)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrphanRepoWithoutRedis(t *testing.T) {
	repo := repository.NewRedisOrphanRepo(nil)

	assert.NoError(t, repo.SaveOrphan(context.Background(), testOrphan()))

	orphans, err := repo.ListOrphans(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}
