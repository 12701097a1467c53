package server

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/model"
)

// Repository stores projects and contact messages. Missing projects are
// reported with an error wrapping apperr.ErrNotFound.
type Repository interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id string) (model.Project, error)
	CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error)
	UpdateProject(ctx context.Context, id string, in model.ProjectInput) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error
	SaveContact(ctx context.Context, msg model.ContactMessage) error
	Close() error
}

// MemoryRepository is an in-process Repository used when no database is
// configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	projects map[string]model.Project
	contacts []model.ContactMessage
	now      func() time.Time
}

// NewMemoryRepository returns a repository holding the given projects
func NewMemoryRepository(seed ...model.Project) *MemoryRepository {
	r := &MemoryRepository{
		projects: make(map[string]model.Project, len(seed)),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		r.projects[p.ID] = p
	}
	return r
}

func (r *MemoryRepository) ListProjects(ctx context.Context) ([]model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b model.Project) int {
		return b.SortTime().Compare(a.SortTime())
	})
	return out, nil
}

func (r *MemoryRepository) GetProject(ctx context.Context, id string) (model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return model.Project{}, fmt.Errorf("project %s: %w", id, apperr.ErrNotFound)
	}
	return p, nil
}

func (r *MemoryRepository) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	p := fromInput(model.Project{ID: uuid.NewString(), CreatedAt: now}, in)
	p.UpdatedAt = now
	r.projects[p.ID] = p
	return p, nil
}

func (r *MemoryRepository) UpdateProject(ctx context.Context, id string, in model.ProjectInput) (model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.projects[id]
	if !ok {
		return model.Project{}, fmt.Errorf("project %s: %w", id, apperr.ErrNotFound)
	}
	p := fromInput(current, in)
	p.UpdatedAt = r.now()
	r.projects[id] = p
	return p, nil
}

func (r *MemoryRepository) DeleteProject(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, apperr.ErrNotFound)
	}
	delete(r.projects, id)
	return nil
}

func (r *MemoryRepository) SaveContact(ctx context.Context, msg model.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = append(r.contacts, msg)
	return nil
}

// Contacts returns the messages received so far
func (r *MemoryRepository) Contacts() []model.ContactMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.contacts)
}

func (r *MemoryRepository) Close() error { return nil }

// fromInput applies the writable fields of in to p. An edit without an
// image keeps the stored one.
func fromInput(p model.Project, in model.ProjectInput) model.Project {
	p.Title = in.Title
	p.Description = in.Description
	p.Technologies = slices.Clone(in.Technologies)
	p.Category = in.Category
	p.Status = in.Status
	p.LiveURL = in.LiveURL
	p.GithubURL = in.GithubURL
	p.Featured = in.Featured
	p.Year = in.Year
	if in.Image != "" {
		p.Image = in.Image
	}
	return p
}
