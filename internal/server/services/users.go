// Package services contains the server-side business logic of the feedback
// board. This file implements UserService, the user directory: registration,
// credential verification, lookups, listing, and transactional account
// deletion with its feedback cascade.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedbackboard/internal/common"
	"github.com/dmitrijs2005/feedbackboard/internal/dbx"
	"github.com/dmitrijs2005/feedbackboard/internal/server/credentials"
	"github.com/dmitrijs2005/feedbackboard/internal/server/models"
	"github.com/dmitrijs2005/feedbackboard/internal/server/repositories/repomanager"
)

const maxUsernameLength = 20

// dummyHash is a valid bcrypt hash of a throwaway string. Authenticate
// verifies against it when the username does not exist, so the miss path
// costs the same as a wrong-password path.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserService provides user directory operations:
// - Register: create users with hashed passwords
// - Authenticate: verify credentials
// - GetByUsername / ListAll: lookups
// - Delete: remove a user and all of their feedback atomically
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *credentials.Hasher
}

// NewUserService constructs a UserService using repositories and the
// credential hasher.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, h *credentials.Hasher) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      h,
	}
}

// Register hashes the password and persists a new user. It returns
// common.ErrDuplicateKey when the username or email is already taken; the
// uniqueness decision is made by the database constraint, not by a
// check-then-insert.
func (s *UserService) Register(ctx context.Context, username, password, email, firstName, lastName string, isAdmin bool) (*models.User, error) {
	if err := validateRegistration(username, password, email, firstName, lastName); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		IsAdmin:      isAdmin,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateKey) {
			return nil, common.ErrDuplicateKey
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate looks up the user and verifies the password against the stored
// hash. Both an unknown username and a wrong password yield
// common.ErrInvalidCredentials; the two cases are indistinguishable to the
// caller, and a dummy hash verification keeps the timing close on the miss
// path.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Verify(password, dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// GetByUsername returns the user or common.ErrNotFound.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.GetByUsername(ctx, username)
}

// Delete removes the user and every feedback note they own in a single
// transaction. Either both deletions are applied or neither is; a missing
// user yields common.ErrNotFound and leaves the database untouched.
func (s *UserService) Delete(ctx context.Context, username string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Feedback(tx).DeleteByOwner(ctx, username); err != nil {
			return fmt.Errorf("error deleting feedback for user: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, username); err != nil {
			return err
		}
		return nil
	})
}

// ListAll returns all users ordered by username. Authorization is the
// caller's responsibility, enforced through the authz guard.
func (s *UserService) ListAll(ctx context.Context) ([]*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.ListAll(ctx)
}

func validateRegistration(username, password, email, firstName, lastName string) error {
	if len(username) == 0 || len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be 1-%d characters", common.ErrValidation, maxUsernameLength)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	if firstName == "" || lastName == "" {
		return fmt.Errorf("%w: first and last name are required", common.ErrValidation)
	}
	return nil
}
