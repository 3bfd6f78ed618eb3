package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyTTL keeps a day's counter around long enough to outlive the day in
// every timezone, then lets it expire.
const KeyTTL = 48 * time.Hour

// A counter that is missing, non-numeric or negative reads as zero and is
// overwritten by the next write, matching Get.
const readCounter = `
local cur = tonumber(redis.call('GET', KEYS[1])) or 0
if cur < 0 then
  cur = 0
end
`

// incrementBy adds ARGV[1] to KEYS[1] and refreshes the TTL (ARGV[2]).
// Returns the new total.
var incrementBy = redis.NewScript(readCounter + `
local total = cur + tonumber(ARGV[1])
redis.call('SET', KEYS[1], total, 'EX', ARGV[2])
return total
`)

// incrementWithin adds ARGV[1] to KEYS[1] unless that would pass ARGV[2].
// Returns {applied, total}.
var incrementWithin = redis.NewScript(readCounter + `
local n = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
if cur + n > limit then
  return {0, cur}
end
local total = cur + n
redis.call('SET', KEYS[1], total, 'EX', ARGV[3])
return {1, total}
`)

// RedisRepository keeps counters under usage:<identity>:<day>.
type RedisRepository struct {
	rdb redis.UniversalClient
}

func NewRedisRepository(rdb redis.UniversalClient) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func key(identity, day string) string { return "usage:" + identity + ":" + day }

func (r *RedisRepository) Get(ctx context.Context, identity, day string) (int, error) {
	v, err := r.rdb.Get(ctx, key(identity, day)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis error: %w", err)
	}
	used, err := strconv.Atoi(v)
	if err != nil || used < 0 {
		return 0, nil
	}
	return used, nil
}

func (r *RedisRepository) Increment(ctx context.Context, identity, day string, n int) (int, error) {
	total, err := incrementBy.Run(ctx, r.rdb,
		[]string{key(identity, day)}, n, int(KeyTTL.Seconds()),
	).Int()
	if err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}
	return total, nil
}

func (r *RedisRepository) IncrementWithin(ctx context.Context, identity, day string, n, limit int) (int, bool, error) {
	res, err := incrementWithin.Run(ctx, r.rdb,
		[]string{key(identity, day)}, n, limit, int(KeyTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("redis error: %w", err)
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("redis error: unexpected script reply %v", res)
	}
	return int(res[1]), res[0] == 1, nil
}
