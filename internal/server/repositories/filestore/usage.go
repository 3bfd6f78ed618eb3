package filestore

import (
	"context"
	"errors"
)

// errOverLimit aborts an update without writing.
var errOverLimit = errors.New("over limit")

type UsageRepository struct {
	s *Store
}

func usageKey(identity, day string) string { return identity + ":" + day }

func (r *UsageRepository) Get(_ context.Context, identity, day string) (int, error) {
	var used int
	err := r.s.view(func(doc *document) error {
		used = max(doc.UsageByUserDay[usageKey(identity, day)], 0)
		return nil
	})
	return used, err
}

func (r *UsageRepository) Increment(_ context.Context, identity, day string, n int) (int, error) {
	var total int
	err := r.s.update(func(doc *document) error {
		k := usageKey(identity, day)
		total = max(doc.UsageByUserDay[k], 0) + n
		doc.UsageByUserDay[k] = total
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *UsageRepository) IncrementWithin(_ context.Context, identity, day string, n, limit int) (int, bool, error) {
	var total int
	err := r.s.update(func(doc *document) error {
		k := usageKey(identity, day)
		total = max(doc.UsageByUserDay[k], 0)
		if total+n > limit {
			return errOverLimit
		}
		total += n
		doc.UsageByUserDay[k] = total
		return nil
	})
	switch {
	case errors.Is(err, errOverLimit):
		return total, false, nil
	case err != nil:
		return 0, false, err
	}
	return total, true, nil
}
