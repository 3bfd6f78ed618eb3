package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps each user as a JSON value under user:id:<id> and an
// email index under user:email:<email>. The index is claimed with SETNX, so
// two concurrent registrations of one email cannot both succeed.
type RedisRepository struct {
	rdb redis.UniversalClient
}

func NewRedisRepository(rdb redis.UniversalClient) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func idKey(id string) string       { return "user:id:" + id }
func emailKey(email string) string { return "user:email:" + email }

func (r *RedisRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}

	claimed, err := r.rdb.SetNX(ctx, emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if !claimed {
		return nil, common.ErrorAlreadyExists
	}

	if err := r.rdb.Set(ctx, idKey(user.ID), data, 0).Err(); err != nil {
		_ = r.rdb.Del(ctx, emailKey(user.Email)).Err()
		return nil, fmt.Errorf("redis error: %w", err)
	}

	return user, nil
}

func (r *RedisRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := r.rdb.Get(ctx, emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *RedisRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	data, err := r.rdb.Get(ctx, idKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	user := &models.User{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return user, nil
}
