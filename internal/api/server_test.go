// internal/api/server_test.go
package api

import (
	"context"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"roi-navigator/internal/common/auth"
	"roi-navigator/internal/common/errors"
	"roi-navigator/internal/common/logger"
	"roi-navigator/internal/engine"
	"roi-navigator/internal/models"
)

// ==========================
// Fakes
// ==========================

type fakeProjectStore struct {
	projects    map[string]*models.Project
	lastPatch   map[string]interface{}
	lastOwner   string
	lastLimit   int
	createCalls int
	failWith    error
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]*models.Project)}
}

func (f *fakeProjectStore) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.createCalls++
	project.ID = fmt.Sprintf("project-%d", f.createCalls)
	f.projects[project.ID] = project
	return project, nil
}

func (f *fakeProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	project, ok := f.projects[id]
	if !ok {
		return nil, errors.NewProjectNotFoundError(id)
	}
	return project, nil
}

func (f *fakeProjectStore) List(ctx context.Context, ownerUID string, limit int) ([]*models.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.lastOwner = ownerUID
	f.lastLimit = limit

	out := make([]*models.Project, 0)
	for _, p := range f.projects {
		if ownerUID == "all" || p.OwnerUID == ownerUID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectStore) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	project, ok := f.projects[id]
	if !ok {
		return nil, errors.NewProjectNotFoundError(id)
	}
	f.lastPatch = patch
	if name, ok := patch["project_name"].(string); ok {
		project.ProjectName = name
	}
	return project, nil
}

func (f *fakeProjectStore) Delete(ctx context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.projects[id]; !ok {
		return errors.NewProjectNotFoundError(id)
	}
	delete(f.projects, id)
	return nil
}

type fakeRateSource struct {
	cfg         *models.GlobalRateConfig
	err         error
	invalidated int
}

func (f *fakeRateSource) Current(ctx context.Context) (*models.GlobalRateConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

func (f *fakeRateSource) Invalidate(ctx context.Context) error {
	f.invalidated++
	return nil
}

type fakeSettingsWriter struct {
	saved *models.GlobalRateConfig
	err   error
}

func (f *fakeSettingsWriter) PutGlobalRates(ctx context.Context, cfg *models.GlobalRateConfig) error {
	if f.err != nil {
		return f.err
	}
	f.saved = cfg
	return nil
}

type fakeIdentity struct {
	users         []auth.User
	blockedUID    string
	blockedValue  bool
	resetUID      string
	resetPassword string
	err           error
}

func (f *fakeIdentity) ListUsers(ctx context.Context, first, max int) ([]auth.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeIdentity) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Email == email {
			return &f.users[i], nil
		}
	}
	return nil, errors.NewUserNotFoundError("no user with email: " + email)
}

func (f *fakeIdentity) SetBlocked(ctx context.Context, userID string, blocked bool) (*auth.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.blockedUID = userID
	f.blockedValue = blocked
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Enabled = !blocked
			return &f.users[i], nil
		}
	}
	return nil, errors.NewUserNotFoundError("no user with id: " + userID)
}

func (f *fakeIdentity) ResetPassword(ctx context.Context, userID, tempPassword string) error {
	if f.err != nil {
		return f.err
	}
	f.resetUID = userID
	f.resetPassword = tempPassword
	return nil
}

type fakeMailer struct {
	sentTo       string
	sentPassword string
	err          error
}

func (f *fakeMailer) SendTemporaryPassword(ctx context.Context, toEmail, tempPassword string) error {
	if f.err != nil {
		return f.err
	}
	f.sentTo = toEmail
	f.sentPassword = tempPassword
	return nil
}

// ==========================
// Harness
// ==========================

type testEnv struct {
	server   *Server
	store    *fakeProjectStore
	rates    *fakeRateSource
	settings *fakeSettingsWriter
	identity *fakeIdentity
	mailer   *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:    newFakeProjectStore(),
		rates:    &fakeRateSource{cfg: engine.DefaultRateConfig()},
		settings: &fakeSettingsWriter{},
		identity: &fakeIdentity{},
		mailer:   &fakeMailer{},
	}

	env.server = NewServer(
		env.store,
		env.settings,
		env.rates,
		env.identity,
		env.mailer,
		nil,
		nil,
		logger.NewNoOpLogger(),
	)

	return env
}

func (e *testEnv) do(t *testing.T, method, uri string, body interface{}) *fasthttp.RequestCtx {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req.SetBody(payload)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)

	e.server.Handler(ctx)
	return ctx
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/health", "/api/health"},
		{"/api/projects/preview", "/api/projects/preview"},
		{"/api/projects/550e8400-e29b-41d4-a716-446655440000", "/api/projects/:id"},
		{"/api/users/uid-1/block", "/api/users/:uid/block"},
		{"/wp-admin/setup.php", "unmatched"},
		{"/api/whatever", "unmatched"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, routeLabel(tt.path), tt.path)
	}
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &out))
	return out
}

func dataField(t *testing.T, ctx *fasthttp.RequestCtx) map[string]interface{} {
	t.Helper()

	envelope := decodeEnvelope(t, ctx)
	require.Equal(t, true, envelope["success"])

	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "data field is not an object")
	return data
}
