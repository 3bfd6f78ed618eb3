package services

import (
	"context"
	"fmt"
	"time"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/cryptox"
	"github.com/natorvoice/natorvoice/internal/server/models"
	"github.com/natorvoice/natorvoice/internal/server/repositories/usage"
	"github.com/natorvoice/natorvoice/internal/timex"
)

// Identity is a quota subject: a user or an anonymous client fingerprint.
type Identity struct {
	Key       string
	Limit     int
	Anonymous bool
}

// UsageLedger enforces daily character quotas per identity. Days are UTC
// calendar dates.
type UsageLedger struct {
	repo      usage.Repository
	secret    []byte
	userLimit int
	anonLimit int
	now       func() time.Time
}

// NewUsageLedger constructs a ledger. secret keys the anonymous fingerprints.
func NewUsageLedger(repo usage.Repository, secret []byte, userLimit, anonLimit int) *UsageLedger {
	return &UsageLedger{repo: repo, secret: secret, userLimit: userLimit, anonLimit: anonLimit, now: time.Now}
}

// UserIdentity returns the identity of an authenticated user.
func (l *UsageLedger) UserIdentity(userID string) Identity {
	return Identity{Key: "user:" + userID, Limit: l.userLimit}
}

// AnonymousIdentity returns the identity of an unauthenticated client. The
// address is hashed and never stored.
func (l *UsageLedger) AnonymousIdentity(clientIP string) Identity {
	return Identity{Key: "anon:" + cryptox.Fingerprint(l.secret, clientIP), Limit: l.anonLimit, Anonymous: true}
}

// Today returns the current day key.
func (l *UsageLedger) Today() string {
	return timex.DayKey(l.now())
}

// GetUsage returns the characters consumed by identity on day.
func (l *UsageLedger) GetUsage(ctx context.Context, identity, day string) (int, error) {
	used, err := l.repo.Get(ctx, identity, day)
	if err != nil {
		return 0, fmt.Errorf("error reading usage: %w", err)
	}
	return used, nil
}

// WouldExceed reports whether charging n more characters would pass limit.
// It also returns the current usage.
func (l *UsageLedger) WouldExceed(ctx context.Context, identity, day string, n, limit int) (bool, int, error) {
	used, err := l.GetUsage(ctx, identity, day)
	if err != nil {
		return false, 0, err
	}
	return used+n > limit, used, nil
}

// Increment adds n unconditionally and returns the new total.
func (l *UsageLedger) Increment(ctx context.Context, identity, day string, n int) (int, error) {
	total, err := l.repo.Increment(ctx, identity, day, n)
	if err != nil {
		return 0, fmt.Errorf("error incrementing usage: %w", err)
	}
	return total, nil
}

// Commit charges n characters atomically against id's limit. If a
// concurrent request consumed the remaining quota it fails with a
// QuotaExceeded error and nothing is charged.
func (l *UsageLedger) Commit(ctx context.Context, id Identity, day string, n int) (int, error) {
	total, ok, err := l.repo.IncrementWithin(ctx, id.Key, day, n, id.Limit)
	if err != nil {
		return 0, fmt.Errorf("error committing usage: %w", err)
	}
	if !ok {
		return total, QuotaExceeded(total, id.Limit)
	}
	return total, nil
}

// Usage returns today's usage summary for a user.
func (l *UsageLedger) Usage(ctx context.Context, userID string) (*models.Usage, error) {
	id := l.UserIdentity(userID)
	day := l.Today()
	used, err := l.GetUsage(ctx, id.Key, day)
	if err != nil {
		return nil, err
	}
	return &models.Usage{Day: day, Used: used, Limit: id.Limit}, nil
}

// QuotaExceeded builds the error returned when a request does not fit in
// the remaining daily quota.
func QuotaExceeded(used, limit int) error {
	msg := fmt.Sprintf("Daily character limit reached (%d/%d). Try again tomorrow.", used, limit)
	return common.NewError(common.KindQuotaExceeded, msg, common.ErrQuotaExceeded)
}
