package clips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic-lock retries when concurrent writers touch
// the same history.
const maxTxRetries = 5

// RedisRepository stores each history as one JSON array under clips:<userId>
// and updates it with WATCH/MULTI.
type RedisRepository struct {
	rdb redis.UniversalClient
}

func NewRedisRepository(rdb redis.UniversalClient) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func key(userID string) string { return "clips:" + userID }

func (r *RedisRepository) List(ctx context.Context, userID string) ([]models.Clip, error) {
	return readList(ctx, r.rdb, key(userID))
}

func (r *RedisRepository) Upsert(ctx context.Context, userID string, clip models.Clip) error {
	k := key(userID)

	txf := func(tx *redis.Tx) error {
		list, err := readList(ctx, tx, k)
		if err != nil {
			return err
		}
		data, err := json.Marshal(Prepend(list, clip))
		if err != nil {
			return fmt.Errorf("marshal clips: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, k, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.rdb.Watch(ctx, txf, k)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("redis error: %w", err)
	}
	return fmt.Errorf("redis error: clip history for %s kept changing", userID)
}

func (r *RedisRepository) Get(ctx context.Context, userID, clipID string) (*models.Clip, error) {
	list, err := readList(ctx, r.rdb, key(userID))
	if err != nil {
		return nil, err
	}
	if c := Find(list, clipID); c != nil {
		return c, nil
	}
	return nil, common.ErrorNotFound
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// readList loads a history. A corrupt value reads as an empty history.
func readList(ctx context.Context, c getter, k string) ([]models.Clip, error) {
	data, err := c.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.Clip{}, nil
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	list := []models.Clip{}
	if err := json.Unmarshal(data, &list); err != nil {
		return []models.Clip{}, nil
	}
	return list, nil
}
