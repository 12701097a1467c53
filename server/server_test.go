package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/existflow/folio/internal/api"
	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/model"
	"github.com/existflow/folio/internal/store"
	"github.com/existflow/folio/internal/tokenstore"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "hunter22"
)

type fixture struct {
	repo   *MemoryRepository
	srv    *Server
	http   *httptest.Server
	client *api.Client
	tokens *tokenstore.Memory
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	cfg.AdminEmail = adminEmail
	cfg.AdminPassword = adminPassword
	cfg.JWTSecret = "test-secret"
	if cfg.UploadDir == "" {
		cfg.UploadDir = t.TempDir()
	}

	repo := NewMemoryRepository(SeedProjects()...)
	srv, err := New(cfg, repo)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	tokens := tokenstore.NewMemory(tokenstore.Credentials{})
	client := api.New(ts.URL+"/api", api.WithTokenStore(tokens), api.WithTimeout(5*time.Second))

	return &fixture{repo: repo, srv: srv, http: ts, client: client, tokens: tokens}
}

func demoInput() model.ProjectInput {
	return model.ProjectInput{
		Title:        "Demo",
		Description:  "A demo project for tests",
		Technologies: []string{"Go"},
		Category:     model.CategoryWeb,
		Year:         "2024",
		Image:        "https://example.com/demo.png",
	}
}

func TestNewRequiresAdminAndSecret(t *testing.T) {
	_, err := New(Config{AdminPassword: "x", JWTSecret: "s"}, NewMemoryRepository())
	assert.Error(t, err)

	_, err = New(Config{AdminEmail: "a@b.c", AdminPassword: "x"}, NewMemoryRepository())
	assert.Error(t, err)
}

func TestListProjectsIsPublicAndNewestFirst(t *testing.T) {
	f := newFixture(t, Config{})

	projects, err := f.client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, len(SeedProjects()))

	assert.Equal(t, "Money Guard", projects[0].Title)
	for i := 1; i < len(projects); i++ {
		assert.False(t, projects[i].SortTime().After(projects[i-1].SortTime()))
	}
	for _, p := range projects {
		assert.NotEmpty(t, p.ID)
	}
}

func TestGetProject(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	projects, err := f.client.ListProjects(ctx)
	require.NoError(t, err)

	p, err := f.client.GetProject(ctx, projects[1].ID)
	require.NoError(t, err)
	assert.Equal(t, projects[1].Title, p.Title)

	_, err = f.client.GetProject(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMutationsRequireToken(t *testing.T) {
	f := newFixture(t, Config{})

	_, err := f.client.CreateProject(context.Background(), demoInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrAuth)

	_, err = f.client.GetAdminProfile(context.Background())
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newFixture(t, Config{})

	_, err := f.client.AdminLogin(context.Background(), adminEmail, "wrong-password")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrAuth)
	assert.Equal(t, "Invalid credentials", apperr.UserMessage(err))
}

func TestLoginIsRateLimited(t *testing.T) {
	f := newFixture(t, Config{LoginRate: rate.Every(time.Hour), LoginBurst: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.client.AdminLogin(ctx, adminEmail, "wrong-password")
		require.Error(t, err)
	}

	_, err := f.client.AdminLogin(ctx, adminEmail, adminPassword)
	var herr *apperr.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusTooManyRequests, herr.Status)
}

func TestSessionAndProjectStoresEndToEnd(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	session := store.NewSession(f.client, f.tokens)
	projects := store.NewProjects(f.client)
	projects.OnUnauthorized(func() { _ = session.Invalidate() })
	defer session.Close()
	defer projects.Close()

	require.NoError(t, session.Login(ctx, adminEmail, adminPassword))
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, adminEmail, session.State().Admin.Email)

	projects.Load(ctx)
	st := projects.State()
	require.Equal(t, store.PhaseReady, st.Phase)
	seeded := len(st.Projects)

	// create
	created, err := projects.Add(ctx, demoInput())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Len(t, projects.State().Projects, seeded+1)
	assert.Equal(t, created.ID, projects.State().Projects[0].ID, "newest first")

	// full replace
	in := created.Input()
	in.Title = "Demo v2"
	in.Featured = true
	updated, err := projects.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Demo v2", updated.Title)
	got, ok := projects.Get(created.ID)
	require.True(t, ok)
	assert.True(t, got.Featured)

	// delete
	require.NoError(t, projects.Remove(ctx, created.ID))
	assert.Len(t, projects.State().Projects, seeded)
	_, err = f.repo.GetProject(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// logout revokes the token server side
	token := session.State().Token
	require.NoError(t, session.Logout(ctx))
	assert.False(t, session.IsAuthenticated())

	require.NoError(t, f.tokens.Set(tokenstore.Credentials{Token: token}))
	_, err = f.client.GetAdminProfile(ctx)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestRestoreWithRevokedTokenDiscardsIt(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	res, err := f.client.AdminLogin(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	require.NoError(t, f.tokens.Set(tokenstore.Credentials{Token: res.Token}))
	require.NoError(t, f.client.AdminLogout(ctx))

	session := store.NewSession(f.client, f.tokens)
	defer session.Close()
	session.Restore(ctx)

	assert.False(t, session.IsAuthenticated())
	creds, err := f.tokens.Get()
	require.NoError(t, err)
	assert.True(t, creds.Empty())
}

func TestUpdateUnknownProject(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	res, err := f.client.AdminLogin(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	require.NoError(t, f.tokens.Set(tokenstore.Credentials{Token: res.Token}))

	_, err = f.client.UpdateProject(ctx, "does-not-exist", demoInput())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateValidatesOnServer(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	res, err := f.client.AdminLogin(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]any{"title": "x"})
	req, _ := http.NewRequest(http.MethodPost, f.http.URL+"/api/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+res.Token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var env struct {
		Status string            `json:"status"`
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Errors, "title")
	assert.Contains(t, env.Errors, "description")
}

func TestUploadImage(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, Config{UploadDir: dir, PublicURL: "http://cdn.test"})
	ctx := context.Background()

	res, err := f.client.AdminLogin(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	require.NoError(t, f.tokens.Set(tokenstore.Credentials{Token: res.Token}))

	url, err := f.client.UploadImage(ctx, "shot.png", strings.NewReader("png bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://cdn.test/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(stored))

	// unsupported type falls back to the placeholder
	url, err = f.client.UploadImage(ctx, "notes.txt", strings.NewReader("text"))
	assert.Error(t, err)
	assert.Equal(t, model.PlaceholderImage, url)
}

func TestContact(t *testing.T) {
	f := newFixture(t, Config{})

	err := f.client.SendContact(context.Background(), model.ContactMessage{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Subject:   "Hello",
		Message:   "I enjoyed your projects a lot.",
	})
	require.NoError(t, err)

	got := f.repo.Contacts()
	require.Len(t, got, 1)
	assert.Equal(t, "ada@example.com", got[0].Email)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.client.Health(context.Background()))

	resp, err := http.Get(f.http.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), "folio_http_requests_total")
}

func TestTokensRevocation(t *testing.T) {
	tk := newTokens([]byte("s"), time.Hour)

	token, _, err := tk.issue(adminEmail)
	require.NoError(t, err)

	claims, err := tk.verify(token)
	require.NoError(t, err)
	assert.Equal(t, adminEmail, claims.Email)

	tk.revoke(claims)
	_, err = tk.verify(token)
	assert.Error(t, err)

	other := newTokens([]byte("different"), time.Hour)
	_, err = other.verify(token)
	assert.Error(t, err)
}
