package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	sessionsrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/sessions"
	tasksrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// ---- test logger ----

type nopLogger struct{}

func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeUsersRepo struct {
	created   *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error

	updated     *models.User
	updateErr   error
	updateCalls int

	deleteErr   error
	deleteCalls int
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-1"
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) (*models.User, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = u
	return u, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	return f.deleteErr
}

type fakeSessionsRepo struct {
	tokens []string

	createErr error

	existsOut bool
	existsErr error

	deleted     [][2]string
	deleteErr   error
	deleteAlls  int
	deleteAllEr error
}

func (f *fakeSessionsRepo) Create(ctx context.Context, userID, token string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens = append(f.tokens, token)
	return nil
}

func (f *fakeSessionsRepo) Exists(ctx context.Context, userID, token string) (bool, error) {
	return f.existsOut, f.existsErr
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, userID, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, [2]string{userID, token})
	return nil
}

func (f *fakeSessionsRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	f.deleteAlls++
	return f.deleteAllEr
}

type fakeTasksRepo struct {
	created *models.Task

	getOut *models.Task
	getErr error

	lastListQuery tasksrepo.ListQuery
	listOut       []*models.Task
	listErr       error

	updated     *models.Task
	updateErr   error
	updateCalls int

	deleteOut *models.Task
	deleteErr error

	deleteAllErr   error
	deleteAllCalls int
}

func (f *fakeTasksRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.ID = "t-1"
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	f.created = task
	return task, nil
}

func (f *fakeTasksRepo) GetByOwner(ctx context.Context, ownerID, id string) (*models.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeTasksRepo) ListByOwner(ctx context.Context, ownerID string, q tasksrepo.ListQuery) ([]*models.Task, error) {
	f.lastListQuery = q
	return f.listOut, f.listErr
}

func (f *fakeTasksRepo) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = task
	return task, nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, ownerID, id string) (*models.Task, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return f.deleteOut, nil
}

func (f *fakeTasksRepo) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	f.deleteAllCalls++
	return f.deleteAllErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSessionsRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.u }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository       { return m.s }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository             { return m.t }

// ---- helpers ----

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: 7 * 24 * time.Hour,
		S3Bucket:              "avatars",
		S3Region:              "us-east-1",
	}
}

func newRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: &fakeUsersRepo{},
		s: &fakeSessionsRepo{},
		t: &fakeTasksRepo{},
	}
}
