package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/feedbackboard/internal/dbx"
	"github.com/dmitrijs2005/feedbackboard/internal/server/repositories/feedback"
	"github.com/dmitrijs2005/feedbackboard/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Feedback(db dbx.DBTX) feedback.Repository
}
