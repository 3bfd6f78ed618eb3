package repomanager

import (
	"context"
	"fmt"

	"github.com/natorvoice/natorvoice/internal/server/repositories/clips"
	"github.com/natorvoice/natorvoice/internal/server/repositories/usage"
	"github.com/natorvoice/natorvoice/internal/server/repositories/users"
	"github.com/redis/go-redis/v9"
)

// RedisRepositoryManager vends Redis-backed repositories over one client.
type RedisRepositoryManager struct {
	rdb redis.UniversalClient
}

// NewRedisRepositoryManager wraps an existing client. Close closes it.
func NewRedisRepositoryManager(rdb redis.UniversalClient) *RedisRepositoryManager {
	return &RedisRepositoryManager{rdb: rdb}
}

// OpenRedis connects to addr and verifies the connection.
func OpenRedis(ctx context.Context, addr, password string, db int) (*RedisRepositoryManager, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisRepositoryManager(rdb), nil
}

func (m *RedisRepositoryManager) Users() users.Repository { return users.NewRedisRepository(m.rdb) }
func (m *RedisRepositoryManager) Clips() clips.Repository { return clips.NewRedisRepository(m.rdb) }
func (m *RedisRepositoryManager) Usage() usage.Repository { return usage.NewRedisRepository(m.rdb) }

func (m *RedisRepositoryManager) Ping(ctx context.Context) error {
	return m.rdb.Ping(ctx).Err()
}

func (m *RedisRepositoryManager) Close() error {
	return m.rdb.Close()
}
