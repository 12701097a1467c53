package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/model"
)

// ProjectGateway is the part of the API gateway the project store needs
type ProjectGateway interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error)
	UpdateProject(ctx context.Context, id string, in model.ProjectInput) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// Phase is where a project store is in its request lifecycle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ProjectState is an immutable snapshot of the project store. Projects is
// always sorted newest first.
type ProjectState struct {
	Phase    Phase
	Projects []model.Project
	Err      error
}

// Loading reports whether a request is outstanding
func (s ProjectState) Loading() bool {
	return s.Phase == PhaseLoading
}

// projectAction is one of the tagged actions below
type projectAction interface {
	projectAction()
}

type (
	projectsLoading struct{}
	projectsLoaded  struct{ projects []model.Project }
	projectsFailed  struct{ err error }
	projectAdded    struct{ project model.Project }
	projectUpdated  struct{ project model.Project }
	projectRemoved  struct{ id string }
	projectOpFailed struct{ err error }
)

func (projectsLoading) projectAction() {}
func (projectsLoaded) projectAction()  {}
func (projectsFailed) projectAction()  {}
func (projectAdded) projectAction()    {}
func (projectUpdated) projectAction()  {}
func (projectRemoved) projectAction()  {}
func (projectOpFailed) projectAction() {}

// reduceProjects returns the state after a. It never mutates s.Projects.
func reduceProjects(s ProjectState, a projectAction) ProjectState {
	switch a := a.(type) {
	case projectsLoading:
		s.Phase = PhaseLoading
		s.Err = nil

	case projectsLoaded:
		s.Phase = PhaseReady
		s.Projects = sortProjects(slices.Clone(a.projects))
		s.Err = nil

	case projectsFailed:
		// no stale data after a failed load
		s.Phase = PhaseError
		s.Projects = []model.Project{}
		s.Err = a.err

	case projectAdded:
		projects := make([]model.Project, 0, len(s.Projects)+1)
		projects = append(projects, s.Projects...)
		projects = append(projects, a.project)
		s.Phase = PhaseReady
		s.Projects = sortProjects(projects)
		s.Err = nil

	case projectUpdated:
		projects := slices.Clone(s.Projects)
		for i := range projects {
			if projects[i].ID == a.project.ID {
				projects[i] = a.project
				break
			}
		}
		s.Phase = PhaseReady
		s.Projects = sortProjects(projects)
		s.Err = nil

	case projectRemoved:
		projects := make([]model.Project, 0, len(s.Projects))
		for _, p := range s.Projects {
			if p.ID != a.id {
				projects = append(projects, p)
			}
		}
		s.Phase = PhaseReady
		s.Projects = projects
		s.Err = nil

	case projectOpFailed:
		s.Phase = PhaseError
		s.Err = a.err
	}

	if s.Projects == nil {
		s.Projects = []model.Project{}
	}
	return s
}

// sortProjects orders projects newest first, keeping the relative order of
// equal timestamps.
func sortProjects(projects []model.Project) []model.Project {
	slices.SortStableFunc(projects, func(a, b model.Project) int {
		return b.SortTime().Compare(a.SortTime())
	})
	return projects
}

// Projects is the client-side cache of the project collection
type Projects struct {
	gw ProjectGateway

	mu             sync.Mutex
	state          ProjectState
	closed         bool
	onUnauthorized func()

	subs  subscribers[ProjectState]
	loads singleflight.Group
}

// NewProjects creates an idle project store
func NewProjects(gw ProjectGateway) *Projects {
	return &Projects{
		gw:    gw,
		state: ProjectState{Phase: PhaseIdle, Projects: []model.Project{}},
	}
}

// OnUnauthorized registers fn to run when a mutation is rejected because
// the admin token is no longer valid.
func (s *Projects) OnUnauthorized(fn func()) {
	s.mu.Lock()
	s.onUnauthorized = fn
	s.mu.Unlock()
}

// State returns the current snapshot
func (s *Projects) State() ProjectState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Projects = slices.Clone(st.Projects)
	return st
}

// Subscribe calls fn after every state change until the returned func is
// called or the store is closed.
func (s *Projects) Subscribe(fn func(ProjectState)) func() {
	return s.subs.add(fn)
}

// Close disposes the store. Requests still in flight complete, but their
// results are dropped.
func (s *Projects) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.subs.clear()
}

func (s *Projects) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// dispatch folds a into the state and notifies subscribers
func (s *Projects) dispatch(a projectAction) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		logger.Debug("Dropping project action after close", logger.F("action", fmt.Sprintf("%T", a)))
		return
	}
	s.state = reduceProjects(s.state, a)
	snapshot := s.state
	snapshot.Projects = slices.Clone(snapshot.Projects)
	s.mu.Unlock()

	s.subs.notify(snapshot)
}

// Load replaces the collection with the backend's. A failure leaves the
// store empty in the error phase; the state carries the error. Concurrent
// calls share one request.
func (s *Projects) Load(ctx context.Context) {
	if s.isClosed() {
		return
	}

	s.loads.Do("load", func() (interface{}, error) {
		s.dispatch(projectsLoading{})

		projects, err := s.gw.ListProjects(ctx)
		if err != nil {
			logger.Warn("Failed to load projects", logger.F("error", err))
			s.dispatch(projectsFailed{err: err})
			return nil, err
		}

		logger.Debug("Loaded projects", logger.F("count", len(projects)))
		s.dispatch(projectsLoaded{projects: projects})
		return nil, nil
	})
}

// Refresh reloads the collection
func (s *Projects) Refresh(ctx context.Context) {
	s.Load(ctx)
}

// Add validates in and creates it. On success the returned project is in
// the collection.
func (s *Projects) Add(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	if s.isClosed() {
		return model.Project{}, ErrClosed
	}

	in = in.Normalize()
	if err := in.Validate(false); err != nil {
		return model.Project{}, err
	}

	s.dispatch(projectsLoading{})
	p, err := s.gw.CreateProject(ctx, in)
	if err != nil {
		s.failed("create", err)
		return model.Project{}, err
	}

	logger.Info("Project created", logger.F("id", p.ID), logger.F("title", p.Title))
	s.dispatch(projectAdded{project: p})
	return p, nil
}

// Update replaces every writable field of project id. A project the store
// does not hold is left alone locally; the backend's answer is returned.
func (s *Projects) Update(ctx context.Context, id string, in model.ProjectInput) (model.Project, error) {
	if s.isClosed() {
		return model.Project{}, ErrClosed
	}
	if strings.TrimSpace(id) == "" {
		return model.Project{}, apperr.NewValidation("project id is required")
	}

	in = in.Normalize()
	if err := in.Validate(true); err != nil {
		return model.Project{}, err
	}

	s.dispatch(projectsLoading{})
	p, err := s.gw.UpdateProject(ctx, id, in)
	if err != nil {
		s.failed("update", err)
		return model.Project{}, err
	}

	logger.Info("Project updated", logger.F("id", id))
	s.dispatch(projectUpdated{project: p})
	return p, nil
}

// Remove deletes project id. Ids that are empty or not in the collection
// are rejected without contacting the backend.
func (s *Projects) Remove(ctx context.Context, id string) error {
	if s.isClosed() {
		return ErrClosed
	}
	if strings.TrimSpace(id) == "" {
		return apperr.NewValidation("project id is required")
	}
	if _, ok := s.Get(id); !ok {
		return apperr.NewValidation("project %q not found", id)
	}

	s.dispatch(projectsLoading{})
	if err := s.gw.DeleteProject(ctx, id); err != nil {
		s.failed("delete", err)
		return err
	}

	logger.Info("Project deleted", logger.F("id", id))
	s.dispatch(projectRemoved{id: id})
	return nil
}

// failed records a mutation failure and reports rejected tokens
func (s *Projects) failed(op string, err error) {
	logger.Error("Project "+op+" failed", logger.F("error", err))
	s.dispatch(projectOpFailed{err: err})

	if errors.Is(err, apperr.ErrAuth) {
		s.mu.Lock()
		fn := s.onUnauthorized
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
}

// Featured returns the featured projects in collection order
func (s *Projects) Featured() []model.Project {
	return s.filter(func(p model.Project) bool { return p.Featured })
}

// ByTechnology returns projects using a technology whose name contains
// name, case-insensitively.
func (s *Projects) ByTechnology(name string) []model.Project {
	return s.filter(func(p model.Project) bool { return p.HasTechnology(name) })
}

// Search matches term against titles and descriptions. Terms shorter than
// three characters match nothing.
func (s *Projects) Search(term string) []model.Project {
	term = strings.ToLower(strings.TrimSpace(term))
	if len([]rune(term)) < 3 {
		return []model.Project{}
	}
	return s.filter(func(p model.Project) bool {
		return strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
	})
}

// Get returns the project with id
func (s *Projects) Get(id string) (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.state.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}

func (s *Projects) filter(keep func(model.Project) bool) []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Project{}
	for _, p := range s.state.Projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Stats summarises the collection for the admin dashboard
type Stats struct {
	Total        int
	Featured     int
	Completed    int
	InProgress   int
	Archived     int
	Technologies int
}

// Stats counts the collection
func (s *Projects) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	techs := make(map[string]struct{})
	for _, p := range s.state.Projects {
		st.Total++
		if p.Featured {
			st.Featured++
		}
		switch p.Status {
		case model.StatusPublished:
			st.Completed++
		case model.StatusDraft:
			st.InProgress++
		case model.StatusArchived:
			st.Archived++
		}
		for _, t := range p.Technologies {
			techs[strings.ToLower(t)] = struct{}{}
		}
	}
	st.Technologies = len(techs)
	return st
}
