package clips

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client), mr
}

func TestRedis_ListEmpty(t *testing.T) {
	repo, _ := setupRedisRepo(t)

	list, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRedis_UpsertListGet(t *testing.T) {
	repo, mr := setupRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "u1", clip("1", "hello", "v1")))
	require.NoError(t, repo.Upsert(ctx, "u1", clip("2", "world", "v1")))
	require.NoError(t, repo.Upsert(ctx, "u1", clip("3", "hello", "v1")))
	require.NoError(t, repo.Upsert(ctx, "u2", clip("9", "other", "v1")))

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2"}, ids(list))

	assert.True(t, mr.Exists("clips:u1"))

	c, err := repo.Get(ctx, "u1", "2")
	require.NoError(t, err)
	assert.Equal(t, "world", c.Text)

	_, err = repo.Get(ctx, "u1", "9")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRedis_CorruptValueReadsEmpty(t *testing.T) {
	repo, mr := setupRedisRepo(t)
	require.NoError(t, mr.Set("clips:u1", "not-json"))

	list, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Upsert(context.Background(), "u1", clip("1", "a", "v")))
	list, err = repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRedis_ConcurrentUpserts(t *testing.T) {
	repo, _ := setupRedisRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Upsert(ctx, "u1", clip(fmt.Sprint(i), fmt.Sprint("t", i), "v"))
		}(i)
	}
	wg.Wait()

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(list), MaxClips)
	assert.NotEmpty(t, list)
}

var _ Repository = (*RedisRepository)(nil)
var _ Repository = (*PostgresRepository)(nil)
