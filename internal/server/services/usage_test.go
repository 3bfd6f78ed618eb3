package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natorvoice/natorvoice/internal/common"
)

func newLedger(t *testing.T, userLimit, anonLimit int) *UsageLedger {
	t.Helper()
	return NewUsageLedger(newStore(t).Usage(), []byte("secret"), userLimit, anonLimit)
}

func TestUsageLedger_Identities(t *testing.T) {
	l := newLedger(t, 100, 10)

	u := l.UserIdentity("u1")
	assert.Equal(t, Identity{Key: "user:u1", Limit: 100}, u)

	a := l.AnonymousIdentity("203.0.113.7")
	assert.True(t, a.Anonymous)
	assert.Equal(t, 10, a.Limit)
	assert.Regexp(t, `^anon:[0-9a-f]{64}$`, a.Key)
	assert.NotContains(t, a.Key, "203.0.113.7")
	assert.Equal(t, a, l.AnonymousIdentity("203.0.113.7"))
	assert.NotEqual(t, a.Key, l.AnonymousIdentity("203.0.113.8").Key)
}

func TestUsageLedger_IncrementSums(t *testing.T) {
	l := newLedger(t, 100, 10)
	ctx := context.Background()

	used, err := l.GetUsage(ctx, "user:u1", "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, used)

	total, err := l.Increment(ctx, "user:u1", "2026-01-01", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	total, err = l.Increment(ctx, "user:u1", "2026-01-01", 5)
	require.NoError(t, err)
	assert.Equal(t, 12, total)

	used, err = l.GetUsage(ctx, "user:u1", "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, 12, used)

	used, err = l.GetUsage(ctx, "user:u1", "2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, 0, used)
}

func TestUsageLedger_WouldExceed(t *testing.T) {
	l := newLedger(t, 20, 10)
	ctx := context.Background()
	_, err := l.Increment(ctx, "user:u1", "d", 11)
	require.NoError(t, err)

	exceeded, used, err := l.WouldExceed(ctx, "user:u1", "d", 9, 20)
	require.NoError(t, err)
	assert.False(t, exceeded)
	assert.Equal(t, 11, used)

	exceeded, _, err = l.WouldExceed(ctx, "user:u1", "d", 10, 20)
	require.NoError(t, err)
	assert.True(t, exceeded)
}

func TestUsageLedger_Commit(t *testing.T) {
	l := newLedger(t, 20, 10)
	ctx := context.Background()
	id := l.UserIdentity("u1")

	total, err := l.Commit(ctx, id, "d", 11)
	require.NoError(t, err)
	assert.Equal(t, 11, total)

	total, err = l.Commit(ctx, id, "d", 11)
	require.Error(t, err)
	assert.Equal(t, 11, total)
	assert.ErrorIs(t, err, common.ErrQuotaExceeded)
	assert.Equal(t, 429, common.AsError(err).Status())
	assert.Equal(t, "Daily character limit reached (11/20). Try again tomorrow.", common.AsError(err).Message)

	used, err := l.GetUsage(ctx, id.Key, "d")
	require.NoError(t, err)
	assert.Equal(t, 11, used)
}

func TestUsageLedger_CommitNeverOvershoots(t *testing.T) {
	l := newLedger(t, 50, 10)
	ctx := context.Background()
	id := l.UserIdentity("u1")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Commit(ctx, id, "d", 7)
		}()
	}
	wg.Wait()

	used, err := l.GetUsage(ctx, id.Key, "d")
	require.NoError(t, err)
	assert.Equal(t, 49, used)
}

func TestUsageLedger_Usage(t *testing.T) {
	l := newLedger(t, 5500, 1400)
	l.now = func() time.Time { return time.Date(2026, 10, 19, 23, 59, 0, 0, time.FixedZone("x", -5*3600)) }
	ctx := context.Background()

	_, err := l.Increment(ctx, "user:u1", "2026-10-20", 42)
	require.NoError(t, err)

	u, err := l.Usage(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", u.Day)
	assert.Equal(t, 42, u.Used)
	assert.Equal(t, 5500, u.Limit)
}
