package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/existflow/folio/internal/api"
	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/config"
	"github.com/existflow/folio/internal/db"
	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/store"
	"github.com/existflow/folio/internal/tokenstore"
)

// app wires the gateway and both stores for one command invocation
type app struct {
	cfg      *config.Config
	client   *api.Client
	tokens   tokenstore.Store
	session  *store.Session
	projects *store.Projects

	database *db.DB
}

// openApp builds the gateway and stores from cfg. The token store backend
// is chosen by cfg.TokenStore.
func openApp(cfg *config.Config) (*app, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}

	a := &app{cfg: cfg}
	switch cfg.TokenStore {
	case config.TokenStoreSQLite:
		database, err := db.Open(filepath.Join(dir, "state.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.database = database
		a.tokens = db.NewTokenStore(database)
	default:
		a.tokens = tokenstore.NewFile(filepath.Join(dir, "session.json"))
	}

	a.client = api.New(cfg.APIURL,
		api.WithTimeout(cfg.Timeout),
		api.WithTokenStore(a.tokens),
	)
	a.session = store.NewSession(a.client, a.tokens)
	a.projects = store.NewProjects(a.client)

	// a token rejected mid-session ends the session
	a.projects.OnUnauthorized(func() {
		_ = a.session.Invalidate()
	})

	logger.Debug("App opened",
		logger.F("api_url", cfg.APIURL),
		logger.F("token_store", cfg.TokenStore),
	)
	return a, nil
}

// Close disposes the stores and closes the state database, if open
func (a *app) Close() {
	a.projects.Close()
	a.session.Close()
	if a.database != nil {
		_ = a.database.Close()
		logger.Debug("Database closed")
	}
}

// requireAdmin validates the persisted token, failing when there is no
// usable admin session.
func (a *app) requireAdmin(ctx context.Context) error {
	a.session.Restore(ctx)
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("not logged in: run 'folio auth login' first")
	}
	return nil
}

// resolveID expands a unique id prefix, as printed by 'projects list', to
// the full project id. Unknown ids are returned unchanged.
func (a *app) resolveID(ctx context.Context, id string) (string, error) {
	if !api.ValidID(id) {
		return id, nil
	}
	if st := a.projects.State(); st.Phase != store.PhaseReady {
		a.projects.Load(ctx)
	}

	if _, ok := a.projects.Get(id); ok {
		return id, nil
	}

	var matches []string
	for _, p := range a.projects.State().Projects {
		if strings.HasPrefix(p.ID, id) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return id, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous project id %q matches %d projects", id, len(matches))
	}
}

// describe renders err for the terminal
func describe(err error) string {
	return apperr.UserMessage(err)
}
