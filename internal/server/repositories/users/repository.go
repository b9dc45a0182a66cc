package users

import (
	"context"

	"github.com/dmitrijs2005/feedbackboard/internal/server/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, username string) error
	ListAll(ctx context.Context) ([]*models.User, error)
}
