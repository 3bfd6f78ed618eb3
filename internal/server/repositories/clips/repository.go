// Package clips stores each user's bounded recent-script history.
package clips

import (
	"context"

	"github.com/natorvoice/natorvoice/internal/server/models"
)

// MaxClips caps the history length per user.
const MaxClips = 30

// Repository persists clip histories. Lists are newest first, hold at most
// MaxClips entries and never two entries with the same (text, voiceId).
type Repository interface {
	List(ctx context.Context, userID string) ([]models.Clip, error)
	Upsert(ctx context.Context, userID string, clip models.Clip) error
	Get(ctx context.Context, userID, clipID string) (*models.Clip, error)
}

// Prepend puts clip at the front of list, dropping an earlier entry with the
// same (text, voiceId) and anything beyond MaxClips. list is not modified.
func Prepend(list []models.Clip, clip models.Clip) []models.Clip {
	next := make([]models.Clip, 0, min(len(list)+1, MaxClips))
	next = append(next, clip)
	for i := range list {
		if len(next) == MaxClips {
			break
		}
		if list[i].SameScript(&clip) {
			continue
		}
		next = append(next, list[i])
	}
	return next
}

// Find returns the clip with the given id, or nil.
func Find(list []models.Clip, clipID string) *models.Clip {
	for i := range list {
		if list[i].ID == clipID {
			c := list[i]
			return &c
		}
	}
	return nil
}
