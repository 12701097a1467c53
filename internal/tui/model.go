package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/model"
	"github.com/existflow/folio/internal/store"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneList
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeLogin
	ModeForm
	ModeConfirmDelete
	ModeHelp
)

// Uploader uploads project images
type Uploader interface {
	UploadFile(ctx context.Context, path string) (string, error)
}

// Deps are the stores and gateway the TUI drives
type Deps struct {
	Projects *store.Projects
	Session  *store.Session
	Gateway  Uploader
}

// view is one sidebar entry: a named subset of the showcase
type view struct {
	name     string
	category model.Category
	featured bool
}

// Model is the main TUI model
type Model struct {
	deps Deps

	projectState store.ProjectState
	sessionState store.SessionState
	changes      chan struct{} // signalled by store subscriptions

	// UI state
	width      int
	height     int
	pane       Pane
	mode       Mode
	viewCursor int
	cursor     int

	// Visible projects for the selected view and filter
	projects []model.Project

	// Filter (vim-style)
	input      textinput.Model
	filterText string

	login loginForm
	form  projectForm

	// busy is set while a mutation or login is outstanding; submit keys
	// are ignored until it clears
	busy    bool
	spinner spinner.Model

	message string
	isError bool
}

// NewModel creates a new TUI model
func NewModel(deps Deps) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "search (3+ characters)"
	ti.CharLimit = 64
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	m := Model{
		deps:    deps,
		pane:    PaneList,
		mode:    ModeNormal,
		input:   ti,
		spinner: sp,
		changes: make(chan struct{}, 1), // Buffered to avoid blocking
	}

	notify := func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	}
	deps.Projects.Subscribe(func(store.ProjectState) { notify() })
	deps.Session.Subscribe(func(store.SessionState) { notify() })

	m.projectState = deps.Projects.State()
	m.sessionState = deps.Session.State()
	m.refreshVisible()
	return m
}

// views lists the sidebar entries: everything, featured, then each
// category that has projects.
func (m *Model) views() []view {
	views := []view{{name: "All projects"}, {name: "Featured", featured: true}}

	seen := make(map[model.Category]bool)
	for _, p := range m.projectState.Projects {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
		}
	}
	for _, c := range model.Categories {
		if seen[c] {
			views = append(views, view{name: string(c), category: c})
		}
	}
	return views
}

func (m *Model) currentView() view {
	views := m.views()
	if m.viewCursor >= len(views) {
		m.viewCursor = 0
	}
	return views[m.viewCursor]
}

// refreshVisible recomputes the visible list from the stores
func (m *Model) refreshVisible() {
	v := m.currentView()

	var base []model.Project
	switch {
	case len([]rune(m.filterText)) >= 3:
		base = m.deps.Projects.Search(m.filterText)
	case v.featured:
		base = m.deps.Projects.Featured()
	default:
		base = m.projectState.Projects
	}

	visible := make([]model.Project, 0, len(base))
	for _, p := range base {
		if v.featured && !p.Featured {
			continue
		}
		if v.category != "" && p.Category != v.category {
			continue
		}
		visible = append(visible, p)
	}
	m.projects = visible

	if m.cursor >= len(m.projects) {
		m.cursor = max(len(m.projects)-1, 0)
	}
}

func (m *Model) currentProject() *model.Project {
	if m.cursor < len(m.projects) {
		return &m.projects[m.cursor]
	}
	return nil
}

func (m *Model) isAdmin() bool {
	return m.sessionState.IsAuthenticated()
}

func (m *Model) setMessage(msg string) {
	m.message = msg
	m.isError = false
}

func (m *Model) setError(msg string) {
	m.message = msg
	m.isError = true
}
