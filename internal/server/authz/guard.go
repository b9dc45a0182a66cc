// Package authz implements the authorization guard: a stateless decision
// layer consulted before every mutating or identity-scoped operation. It
// reads the ambient identity context and the user directory, and never
// mutates state. Denials are terminal for the calling handler.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedbackboard/internal/common"
	"github.com/dmitrijs2005/feedbackboard/internal/server/identity"
	"github.com/dmitrijs2005/feedbackboard/internal/server/models"
)

// UserDirectory is the read-only slice of the user service the guard needs.
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Guard decides ALLOW/DENY for the board's operations.
type Guard struct {
	users UserDirectory
}

func NewGuard(users UserDirectory) *Guard {
	return &Guard{users: users}
}

// RequireAuthenticated returns the current username, or
// common.ErrUnauthenticated when no identity is present in the context.
func (g *Guard) RequireAuthenticated(ctx context.Context) (string, error) {
	username, ok := identity.Username(ctx)
	if !ok {
		return "", common.ErrUnauthenticated
	}
	return username, nil
}

// RequireSelf allows only when the authenticated identity equals
// targetUsername.
func (g *Guard) RequireSelf(ctx context.Context, targetUsername string) error {
	username, err := g.RequireAuthenticated(ctx)
	if err != nil {
		return err
	}
	if username != targetUsername {
		return common.ErrForbidden
	}
	return nil
}

// RequireOwner allows only when the authenticated identity owns the feedback.
func (g *Guard) RequireOwner(ctx context.Context, fb *models.Feedback) error {
	username, err := g.RequireAuthenticated(ctx)
	if err != nil {
		return err
	}
	if username != fb.Username {
		return common.ErrForbidden
	}
	return nil
}

// RequireAdmin allows only when the authenticated identity equals
// targetUsername AND that user has the admin role. The two checks are
// independent: a role without the identity match denies, and an identity
// match without the role denies.
func (g *Guard) RequireAdmin(ctx context.Context, targetUsername string) error {
	username, err := g.RequireAuthenticated(ctx)
	if err != nil {
		return err
	}
	if username != targetUsername {
		return common.ErrForbidden
	}

	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrForbidden
		}
		return fmt.Errorf("error loading user for admin check: %w", err)
	}
	if !user.IsAdmin {
		return common.ErrForbidden
	}
	return nil
}
