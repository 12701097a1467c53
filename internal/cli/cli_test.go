package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/folio/internal/config"
	"github.com/existflow/folio/internal/model"
	"github.com/existflow/folio/server"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "hunter22"
)

// newBackend starts a seeded server and points appConfig at it
func newBackend(t *testing.T) *server.MemoryRepository {
	t.Helper()
	t.Setenv("FOLIO_HOME", t.TempDir())

	repo := server.NewMemoryRepository(server.SeedProjects()...)
	srv, err := server.New(server.Config{
		AdminEmail:    testEmail,
		AdminPassword: testPassword,
		JWTSecret:     "cli-test",
		UploadDir:     t.TempDir(),
	}, repo)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	appConfig = &config.Config{
		APIURL:        ts.URL + "/api",
		Timeout:       5 * time.Second,
		TokenStore:    config.TokenStoreFile,
		ConfirmDelete: true,
	}
	t.Cleanup(func() {
		appConfig = nil
		listFeatured, listTech, listSearch, listJSON = false, "", "", false
		deleteYes, featureUndo = false, false
	})
	return repo
}

// newCmd returns a bare command wired to buffers
func newCmd(stdin string) (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetContext(context.Background())
	return cmd, &out
}

func login(t *testing.T) {
	t.Helper()
	cmd, out := newCmd(testEmail + "\n" + testPassword + "\n")
	require.NoError(t, runLogin(cmd, nil))
	require.Contains(t, out.String(), "Logged in as "+testEmail)
}

func projectID(t *testing.T, repo *server.MemoryRepository, title string) string {
	t.Helper()
	projects, err := repo.ListProjects(context.Background())
	require.NoError(t, err)
	for _, p := range projects {
		if p.Title == title {
			return p.ID
		}
	}
	t.Fatalf("no project titled %q", title)
	return ""
}

func TestListPrintsProjects(t *testing.T) {
	newBackend(t)

	cmd, out := newCmd("")
	require.NoError(t, runList(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "Money Guard")
	assert.Contains(t, text, "Focus Frame")
	assert.Contains(t, text, "5 projects, 3 featured")
	assert.Less(t, strings.Index(text, "Money Guard"), strings.Index(text, "Focus Frame"))
}

func TestListFeaturedJSON(t *testing.T) {
	newBackend(t)
	listFeatured, listJSON = true, true

	cmd, out := newCmd("")
	require.NoError(t, runList(cmd, nil))

	var projects []model.Project
	require.NoError(t, json.Unmarshal(out.Bytes(), &projects))
	require.Len(t, projects, 3)
	for _, p := range projects {
		assert.True(t, p.Featured, p.Title)
	}
}

func TestListSearchTooShortShowsNothing(t *testing.T) {
	newBackend(t)
	listSearch = "tm"

	cmd, out := newCmd("")
	require.NoError(t, runList(cmd, nil))
	assert.Contains(t, out.String(), "No projects found.")
}

func TestListWithoutBackend(t *testing.T) {
	t.Setenv("FOLIO_HOME", t.TempDir())
	appConfig = &config.Config{
		APIURL:     "http://127.0.0.1:1/api",
		Timeout:    time.Second,
		TokenStore: config.TokenStoreFile,
	}
	t.Cleanup(func() { appConfig = nil })

	cmd, out := newCmd("")
	require.NoError(t, runList(cmd, nil))
	assert.Contains(t, out.String(), "Could not load projects")
	assert.Contains(t, out.String(), "No projects found.")
}

func TestStats(t *testing.T) {
	newBackend(t)

	cmd, out := newCmd("")
	require.NoError(t, runProjectStats(cmd, nil))
	assert.Contains(t, out.String(), fmt.Sprintf("  %-14s %d\n", "Projects", 5))
	assert.Contains(t, out.String(), fmt.Sprintf("  %-14s %d\n", "Featured", 3))
}

func TestShowByPrefix(t *testing.T) {
	repo := newBackend(t)
	id := projectID(t, repo, "TMDB Clone")

	cmd, out := newCmd("")
	require.NoError(t, runProjectShow(cmd, []string{id[:8]}))
	assert.Contains(t, out.String(), "TMDB Clone")
	assert.Contains(t, out.String(), id)
}

func TestAdminCommandsRequireLogin(t *testing.T) {
	repo := newBackend(t)
	id := projectID(t, repo, "Focus Frame")

	cmd, _ := newCmd("")
	err := runFeature(cmd, []string{id})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")

	cmd, _ = newCmd("")
	assert.Error(t, runDelete(cmd, []string{id}))
}

func TestLoginWrongPassword(t *testing.T) {
	newBackend(t)

	cmd, _ := newCmd(testEmail + "\nnope\n")
	err := runLogin(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestAdminSession(t *testing.T) {
	repo := newBackend(t)
	login(t)

	cmd, out := newCmd("")
	require.NoError(t, runAuthStatus(cmd, nil))
	assert.Contains(t, out.String(), "Logged in as "+testEmail)

	// feature
	id := projectID(t, repo, "Focus Frame")
	cmd, out = newCmd("")
	require.NoError(t, runFeature(cmd, []string{id[:8]}))
	assert.Contains(t, out.String(), "Featured: \"Focus Frame\"")
	p, err := repo.GetProject(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, p.Featured)

	cmd, out = newCmd("")
	require.NoError(t, runFeature(cmd, []string{id}))
	assert.Contains(t, out.String(), "Nothing to do")

	// delete, declined then confirmed
	cmd, out = newCmd("n\n")
	require.NoError(t, runDelete(cmd, []string{id}))
	assert.Contains(t, out.String(), "Cancelled.")
	_, err = repo.GetProject(context.Background(), id)
	require.NoError(t, err)

	cmd, out = newCmd("y\n")
	require.NoError(t, runDelete(cmd, []string{id}))
	assert.Contains(t, out.String(), "Deleted: \"Focus Frame\"")
	_, err = repo.GetProject(context.Background(), id)
	assert.Error(t, err)

	// logout
	cmd, out = newCmd("")
	require.NoError(t, runLogout(cmd, nil))
	assert.Contains(t, out.String(), "Logged out successfully.")

	cmd, out = newCmd("")
	require.NoError(t, runLogout(cmd, nil))
	assert.Contains(t, out.String(), "Not logged in.")
}

func TestStatus(t *testing.T) {
	newBackend(t)

	cmd, out := newCmd("")
	require.NoError(t, runStatus(cmd, nil))
	assert.Contains(t, out.String(), "Health:  ✓ ok")
	assert.Contains(t, out.String(), "not logged in")
	assert.Contains(t, out.String(), "file store")
}

func TestStatusLeavesSavedTokenAlone(t *testing.T) {
	newBackend(t)
	login(t)

	cmd, out := newCmd("")
	require.NoError(t, runStatus(cmd, nil))
	assert.Contains(t, out.String(), "Admin:   "+testEmail)

	// backend unreachable
	live := appConfig.APIURL
	appConfig.APIURL = "http://127.0.0.1:1/api"
	appConfig.Timeout = time.Second

	cmd, out = newCmd("")
	require.NoError(t, runStatus(cmd, nil))
	assert.Contains(t, out.String(), "Health:  ✗")
	assert.Contains(t, out.String(), "not verified")

	appConfig.APIURL = live
	cmd, out = newCmd("")
	require.NoError(t, runAuthStatus(cmd, nil))
	assert.Contains(t, out.String(), "Logged in as "+testEmail)
}

func TestConfigSet(t *testing.T) {
	newBackend(t)

	cmd, out := newCmd("")
	require.NoError(t, runConfigSet(cmd, []string{"refresh_interval", "30s"}))
	assert.Contains(t, out.String(), "refresh_interval = 30s")

	saved, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, saved.RefreshInterval)
	assert.Equal(t, appConfig.APIURL, saved.APIURL)

	cmd, _ = newCmd("")
	assert.Error(t, runConfigSet(cmd, []string{"refresh_interval", "-1s"}))
	assert.Error(t, runConfigSet(cmd, []string{"theme", "dark"}))
	assert.Error(t, runConfigSet(cmd, []string{"token_store", "keychain"}))
	assert.Equal(t, 30*time.Second, appConfig.RefreshInterval)
}
