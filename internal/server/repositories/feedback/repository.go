package feedback

import (
	"context"

	"github.com/dmitrijs2005/feedbackboard/internal/server/models"
)

// Repository defines persistence operations for feedback notes.
type Repository interface {
	Create(ctx context.Context, fb *models.Feedback) (*models.Feedback, error)
	GetByID(ctx context.Context, id int64) (*models.Feedback, error)
	Update(ctx context.Context, id int64, title, content string) error
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, username string) error
	ListByOwner(ctx context.Context, username string) ([]*models.Feedback, error)
	ListAll(ctx context.Context) ([]*models.Feedback, error)
}
