package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"photoshare/internal/domain/models"
	redisapp "photoshare/internal/storage/redis"
)

const orphansKey = "photoshare:orphans"

// RedisOrphanRepo пишет рассогласования в список Redis.
// Без клиента журнал ничего не делает, записи остаются только в логе.
type RedisOrphanRepo struct {
	Client *redisapp.Client
}

func NewRedisOrphanRepo(client *redisapp.Client) *RedisOrphanRepo {
	return &RedisOrphanRepo{Client: client}
}

func (r *RedisOrphanRepo) SaveOrphan(ctx context.Context, orphan models.Orphan) error {
	const op = "repository.RedisOrphanRepo.SaveOrphan"

	if r.Client == nil {
		return nil
	}

	payload, err := json.Marshal(orphan)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.Client.LPush(ctx, orphansKey, string(payload)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListOrphans возвращает последние записи, новые первыми
func (r *RedisOrphanRepo) ListOrphans(ctx context.Context, limit int64) ([]models.Orphan, error) {
	const op = "repository.RedisOrphanRepo.ListOrphans"

	if r.Client == nil || limit <= 0 {
		return []models.Orphan{}, nil
	}

	raw, err := r.Client.LRange(ctx, orphansKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orphans := make([]models.Orphan, 0, len(raw))
	for _, item := range raw {
		var o models.Orphan
		if err := json.Unmarshal([]byte(item), &o); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orphans = append(orphans, o)
	}

	return orphans, nil
}
