package filestore

import (
	"context"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/server/models"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	err := r.s.update(func(doc *document) error {
		if _, taken := doc.UserByEmail[user.Email]; taken {
			return common.ErrorAlreadyExists
		}
		doc.Users[user.ID] = *user
		doc.UserByEmail[user.Email] = user.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var user *models.User
	err := r.s.view(func(doc *document) error {
		id, ok := doc.UserByEmail[email]
		if !ok {
			return common.ErrorNotFound
		}
		u, ok := doc.Users[id]
		if !ok {
			return common.ErrorNotFound
		}
		user = &u
		return nil
	})
	return user, err
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	var user *models.User
	err := r.s.view(func(doc *document) error {
		u, ok := doc.Users[id]
		if !ok {
			return common.ErrorNotFound
		}
		user = &u
		return nil
	})
	return user, err
}
