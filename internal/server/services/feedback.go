package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedbackboard/internal/common"
	"github.com/dmitrijs2005/feedbackboard/internal/server/models"
	"github.com/dmitrijs2005/feedbackboard/internal/server/repositories/repomanager"
)

const maxTitleLength = 100

// FeedbackService provides feedback note operations: create, lookup, update
// of title/content, deletion, and per-owner or global listings.
type FeedbackService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFeedbackService(db *sql.DB, m repomanager.RepositoryManager) *FeedbackService {
	return &FeedbackService{
		db:          db,
		repomanager: m,
	}
}

// Create persists a new note for ownerUsername and returns it with the
// database-assigned id. A missing owner yields common.ErrNotFound: the
// service prechecks the user directory, and the foreign key constraint backs
// that up against races.
func (s *FeedbackService) Create(ctx context.Context, title, content, ownerUsername string) (*models.Feedback, error) {
	if err := validateNote(title, content); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Users(s.db).GetByUsername(ctx, ownerUsername); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error checking owner: %w", err)
	}

	fb := &models.Feedback{
		Title:    title,
		Content:  content,
		Username: ownerUsername,
	}

	repo := s.repomanager.Feedback(s.db)
	created, err := repo.Create(ctx, fb)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error creating feedback: %w", err)
	}
	return created, nil
}

// GetByID returns the note or common.ErrNotFound.
func (s *FeedbackService) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	repo := s.repomanager.Feedback(s.db)
	return repo.GetByID(ctx, id)
}

// Update changes title and content of an existing note. Id and owner are
// immutable after creation.
func (s *FeedbackService) Update(ctx context.Context, id int64, title, content string) error {
	if err := validateNote(title, content); err != nil {
		return err
	}
	repo := s.repomanager.Feedback(s.db)
	return repo.Update(ctx, id, title, content)
}

// Delete removes a single note; common.ErrNotFound when the id is unknown.
func (s *FeedbackService) Delete(ctx context.Context, id int64) error {
	repo := s.repomanager.Feedback(s.db)
	return repo.Delete(ctx, id)
}

// ListByOwner returns the owner's notes in insertion order.
func (s *FeedbackService) ListByOwner(ctx context.Context, username string) ([]*models.Feedback, error) {
	repo := s.repomanager.Feedback(s.db)
	return repo.ListByOwner(ctx, username)
}

// ListAll returns every note in insertion order. Admin-only by caller
// convention, enforced through the authz guard.
func (s *FeedbackService) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	repo := s.repomanager.Feedback(s.db)
	return repo.ListAll(ctx)
}

func validateNote(title, content string) error {
	if len(title) == 0 || len(title) > maxTitleLength {
		return fmt.Errorf("%w: title must be 1-%d characters", common.ErrValidation, maxTitleLength)
	}
	if content == "" {
		return fmt.Errorf("%w: content is required", common.ErrValidation)
	}
	return nil
}
