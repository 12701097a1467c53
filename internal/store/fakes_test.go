package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/model"
)

// fakeBackend is an in-memory gateway for both stores
type fakeBackend struct {
	mu       sync.Mutex
	projects []model.Project
	next     int
	clock    time.Time

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	listCalls   int
	deleteCalls int
	listGate    chan struct{}

	email      string
	password   string
	token      string
	logoutErr  error
	profileErr error
	logouts    int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		email:    "admin@example.com",
		password: "secret1",
		token:    "tok-1",
	}
}

func (f *fakeBackend) ListProjects(ctx context.Context) ([]model.Project, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return []model.Project{}, f.listErr
	}
	out := make([]model.Project, len(f.projects))
	copy(out, f.projects)
	return out, nil
}

func (f *fakeBackend) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return model.Project{}, f.createErr
	}

	f.next++
	f.clock = f.clock.Add(time.Hour)
	p := fromInput(fmt.Sprintf("p%d", f.next), in)
	p.CreatedAt = f.clock
	p.UpdatedAt = f.clock
	f.projects = append(f.projects, p)
	return p, nil
}

func (f *fakeBackend) UpdateProject(ctx context.Context, id string, in model.ProjectInput) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return model.Project{}, f.updateErr
	}

	for i, p := range f.projects {
		if p.ID == id {
			updated := fromInput(id, in)
			updated.CreatedAt = p.CreatedAt
			updated.UpdatedAt = f.clock.Add(time.Minute)
			f.projects[i] = updated
			return updated, nil
		}
	}
	return model.Project{}, &apperr.HTTPError{Status: 404, Message: "Project not found"}
}

func (f *fakeBackend) DeleteProject(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}

	for i, p := range f.projects {
		if p.ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			return nil
		}
	}
	return &apperr.HTTPError{Status: 404, Message: "Project not found"}
}

func (f *fakeBackend) AdminLogin(ctx context.Context, email, password string) (model.LoginResult, error) {
	if email != f.email || password != f.password {
		return model.LoginResult{}, &apperr.HTTPError{Status: 401, Message: "Invalid credentials"}
	}
	return model.LoginResult{Token: f.token, Admin: model.AdminProfile{ID: "a1", Email: email}}, nil
}

func (f *fakeBackend) AdminLogout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return f.logoutErr
}

func (f *fakeBackend) GetAdminProfile(ctx context.Context) (model.AdminProfile, error) {
	if f.profileErr != nil {
		return model.AdminProfile{}, f.profileErr
	}
	return model.AdminProfile{ID: "a1", Email: f.email, Name: "Admin"}, nil
}

func fromInput(id string, in model.ProjectInput) model.Project {
	return model.Project{
		ID:           id,
		Title:        in.Title,
		Description:  in.Description,
		Technologies: append([]string{}, in.Technologies...),
		Category:     in.Category,
		Status:       in.Status,
		LiveURL:      in.LiveURL,
		GithubURL:    in.GithubURL,
		Featured:     in.Featured,
		Year:         in.Year,
		Image:        in.Image,
	}
}

func demoInput() model.ProjectInput {
	return model.ProjectInput{
		Title:        "Demo",
		Description:  "A demo project for testing.",
		Technologies: []string{"React"},
		Year:         "2024",
		Image:        "https://example.com/demo.png",
	}
}

var errUnreachable = &apperr.NetworkError{Op: "list projects", Err: fmt.Errorf("connection refused")}
