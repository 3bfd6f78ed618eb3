package filestore

import (
	"context"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/server/models"
	"github.com/natorvoice/natorvoice/internal/server/repositories/clips"
)

type ClipRepository struct {
	s *Store
}

func (r *ClipRepository) List(_ context.Context, userID string) ([]models.Clip, error) {
	list := []models.Clip{}
	err := r.s.view(func(doc *document) error {
		list = append(list, doc.ClipsByUser[userID]...)
		return nil
	})
	return list, err
}

func (r *ClipRepository) Upsert(_ context.Context, userID string, clip models.Clip) error {
	return r.s.update(func(doc *document) error {
		doc.ClipsByUser[userID] = clips.Prepend(doc.ClipsByUser[userID], clip)
		return nil
	})
}

func (r *ClipRepository) Get(_ context.Context, userID, clipID string) (*models.Clip, error) {
	var found *models.Clip
	err := r.s.view(func(doc *document) error {
		found = clips.Find(doc.ClipsByUser[userID], clipID)
		if found == nil {
			return common.ErrorNotFound
		}
		return nil
	})
	return found, err
}
