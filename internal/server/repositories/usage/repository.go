// Package usage stores per-identity, per-day character counters.
package usage

import "context"

// Repository persists usage counters keyed by (identity, day). Absent
// counters read as zero. Counters only grow.
type Repository interface {
	Get(ctx context.Context, identity, day string) (int, error)
	// Increment adds n unconditionally and returns the new total.
	Increment(ctx context.Context, identity, day string, n int) (int, error)
	// IncrementWithin adds n only if the result stays within limit. It
	// returns the resulting total and true, or the unchanged total and false.
	IncrementWithin(ctx context.Context, identity, day string, n, limit int) (int, bool, error)
}
