// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/natorvoice/natorvoice/internal/server/models"
)

// Repository persists users. Lookups of absent users fail with
// common.ErrorNotFound; Create fails with common.ErrorAlreadyExists when the
// email is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
