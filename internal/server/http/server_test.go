package http

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

// ---- test logger ----

type nopLogger struct{}

func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeUserSvc struct {
	registerUser  *models.User
	registerToken string
	registerErr   error

	loginUser  *models.User
	loginToken string
	loginErr   error

	revokedToken   string
	revokeErr      error
	revokeAllCalls int

	updateOut *models.User
	updateErr error
	updates   map[string]any

	deleteErr   error
	deleteCalls int
}

func (f *fakeUserSvc) Register(ctx context.Context, name, email, password string, age *int) (*models.User, string, error) {
	return f.registerUser, f.registerToken, f.registerErr
}

func (f *fakeUserSvc) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return f.loginUser, f.loginToken, f.loginErr
}

func (f *fakeUserSvc) RevokeToken(ctx context.Context, userID, token string) error {
	f.revokedToken = token
	return f.revokeErr
}

func (f *fakeUserSvc) RevokeAllTokens(ctx context.Context, userID string) error {
	f.revokeAllCalls++
	return f.revokeErr
}

func (f *fakeUserSvc) UpdateProfile(ctx context.Context, user *models.User, updates map[string]any) (*models.User, error) {
	f.updates = updates
	return f.updateOut, f.updateErr
}

func (f *fakeUserSvc) DeleteAccount(ctx context.Context, user *models.User) error {
	f.deleteCalls++
	return f.deleteErr
}

type fakeSessionSvc struct {
	identity *services.Identity
	err      error

	lastToken string
}

func (f *fakeSessionSvc) Verify(ctx context.Context, rawToken string) (*services.Identity, error) {
	f.lastToken = rawToken
	return f.identity, f.err
}

type fakeTaskSvc struct {
	lastOpts services.ListOptions
	listOut  []*models.Task
	listErr  error

	createOut *models.Task
	createErr error

	getOut *models.Task
	getErr error

	lastUpdates map[string]any
	updateOut   *models.Task
	updateErr   error

	lastDeletedID string
	deleteOut     *models.Task
	deleteErr     error
}

func (f *fakeTaskSvc) List(ctx context.Context, ownerID string, opts services.ListOptions) ([]*models.Task, error) {
	f.lastOpts = opts
	return f.listOut, f.listErr
}

func (f *fakeTaskSvc) Create(ctx context.Context, ownerID, description string, completed bool) (*models.Task, error) {
	return f.createOut, f.createErr
}

func (f *fakeTaskSvc) Get(ctx context.Context, ownerID, id string) (*models.Task, error) {
	return f.getOut, f.getErr
}

func (f *fakeTaskSvc) Update(ctx context.Context, ownerID, id string, updates map[string]any) (*models.Task, error) {
	f.lastUpdates = updates
	return f.updateOut, f.updateErr
}

func (f *fakeTaskSvc) Delete(ctx context.Context, ownerID, id string) (*models.Task, error) {
	f.lastDeletedID = id
	return f.deleteOut, f.deleteErr
}

type fakeAvatarSvc struct {
	uploaded  []byte
	uploadErr error

	downloadOut []byte
	downloadErr error

	removeCalls int
	removeErr   error
}

func (f *fakeAvatarSvc) Upload(ctx context.Context, user *models.User, data []byte) error {
	f.uploaded = data
	return f.uploadErr
}

func (f *fakeAvatarSvc) Download(ctx context.Context, userID string) ([]byte, error) {
	return f.downloadOut, f.downloadErr
}

func (f *fakeAvatarSvc) Remove(ctx context.Context, user *models.User) error {
	f.removeCalls++
	return f.removeErr
}

// ---- helpers ----

func newTestServer(u userSvc, ss sessionSvc, ts taskSvc, av avatarSvc) *Server {
	return &Server{
		address:  "127.0.0.1:0",
		logger:   nopLogger{},
		users:    u,
		sessions: ss,
		tasks:    ts,
		avatars:  av,
	}
}

func authedIdentity() *services.Identity {
	return &services.Identity{
		User:  &models.User{ID: "u-1", Name: "Mike", Email: "mike@example.com", Age: 30},
		Token: "tok-1",
	}
}

func doRequest(s *Server, method, target, bearer string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}
