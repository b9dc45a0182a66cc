package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/feedbackboard/internal/common"
	"github.com/dmitrijs2005/feedbackboard/internal/dbx"
	"github.com/dmitrijs2005/feedbackboard/internal/server/credentials"
	"github.com/dmitrijs2005/feedbackboard/internal/server/models"
	feedbackrepo "github.com/dmitrijs2005/feedbackboard/internal/server/repositories/feedback"
	usersrepo "github.com/dmitrijs2005/feedbackboard/internal/server/repositories/users"
)

// --- shared test helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testHasher() *credentials.Hasher {
	// MinCost keeps the bcrypt work cheap in tests.
	return credentials.NewHasher(bcrypt.MinCost)
}

// inMemoryUsersRepo is a map-backed users.Repository mirroring the Postgres
// behavior: unique username and email, lexicographic ListAll.
type inMemoryUsersRepo struct {
	users map[string]*models.User
}

func newInMemoryUsersRepo() *inMemoryUsersRepo {
	return &inMemoryUsersRepo{users: make(map[string]*models.User)}
}

func (f *inMemoryUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.users[u.Username]; ok {
		return nil, common.ErrDuplicateKey
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateKey
		}
	}
	cp := *u
	f.users[u.Username] = &cp
	return &cp, nil
}

func (f *inMemoryUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *inMemoryUsersRepo) Delete(ctx context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return common.ErrNotFound
	}
	delete(f.users, username)
	return nil
}

func (f *inMemoryUsersRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	names := make([]string, 0, len(f.users))
	for name := range f.users {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]*models.User, 0, len(names))
	for _, name := range names {
		result = append(result, f.users[name])
	}
	return result, nil
}

// inMemoryFeedbackRepo is a slice-backed feedback.Repository with
// auto-incremented ids and insertion-ordered listings.
type inMemoryFeedbackRepo struct {
	notes  []*models.Feedback
	nextID int64
}

func newInMemoryFeedbackRepo() *inMemoryFeedbackRepo {
	return &inMemoryFeedbackRepo{nextID: 1}
}

func (f *inMemoryFeedbackRepo) Create(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	cp := *fb
	cp.ID = f.nextID
	f.nextID++
	f.notes = append(f.notes, &cp)
	return &cp, nil
}

func (f *inMemoryFeedbackRepo) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	for _, n := range f.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *inMemoryFeedbackRepo) Update(ctx context.Context, id int64, title, content string) error {
	for _, n := range f.notes {
		if n.ID == id {
			n.Title = title
			n.Content = content
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *inMemoryFeedbackRepo) Delete(ctx context.Context, id int64) error {
	for i, n := range f.notes {
		if n.ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *inMemoryFeedbackRepo) DeleteByOwner(ctx context.Context, username string) error {
	kept := f.notes[:0]
	for _, n := range f.notes {
		if n.Username != username {
			kept = append(kept, n)
		}
	}
	f.notes = kept
	return nil
}

func (f *inMemoryFeedbackRepo) ListByOwner(ctx context.Context, username string) ([]*models.Feedback, error) {
	var result []*models.Feedback
	for _, n := range f.notes {
		if n.Username == username {
			result = append(result, n)
		}
	}
	return result, nil
}

func (f *inMemoryFeedbackRepo) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	return append([]*models.Feedback(nil), f.notes...), nil
}

// fakeRepoManager vends the in-memory repositories regardless of the DBTX,
// which is enough for service logic tests that do not exercise transactions.
type fakeRepoManager struct {
	u *inMemoryUsersRepo
	f *inMemoryFeedbackRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newInMemoryUsersRepo(), f: newInMemoryFeedbackRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository            { return m.u }
func (m *fakeRepoManager) Feedback(db dbx.DBTX) feedbackrepo.Repository      { return m.f }
