// Package feedback provides the PostgreSQL-backed repository for feedback
// notes.
package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/feedbackboard/internal/common"
	"github.com/dmitrijs2005/feedbackboard/internal/dbx"
	"github.com/dmitrijs2005/feedbackboard/internal/server/models"
)

// PostgreSQL error code for foreign key constraint violations.
const pgForeignKeyViolation = "23503"

// PostgresRepository implements feedback storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a feedback note and fills in the database-assigned id.
// A foreign key violation on username is reported as common.ErrNotFound,
// since it means the owner does not exist.
func (r *PostgresRepository) Create(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {

	query :=
		`INSERT INTO feedback (title, content, username)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, fb.Title, fb.Content, fb.Username).Scan(&fb.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return fb, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	query :=
		`SELECT id, title, content, username FROM feedback
		 WHERE id = $1
		 `

	fb := &models.Feedback{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return fb, nil
}

// Update changes title and content only; id and username are immutable.
func (r *PostgresRepository) Update(ctx context.Context, id int64, title, content string) error {
	query :=
		`UPDATE feedback SET title = $2, content = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, title, content)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM feedback
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

// DeleteByOwner removes every note owned by username. Zero affected rows is
// not an error: a user without feedback is a valid cascade source.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, username string) error {
	query :=
		`DELETE FROM feedback
		 WHERE username = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListByOwner returns the owner's notes in insertion order.
func (r *PostgresRepository) ListByOwner(ctx context.Context, username string) ([]*models.Feedback, error) {
	query :=
		`SELECT id, title, content, username FROM feedback
		 WHERE username = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	query :=
		`SELECT id, title, content, username FROM feedback
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

func scanFeedback(rows *sql.Rows) ([]*models.Feedback, error) {
	var result []*models.Feedback
	for rows.Next() {
		var item models.Feedback
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.Username); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
