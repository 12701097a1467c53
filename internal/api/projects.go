package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/model"
)

// ValidID reports whether id can address a project. The literal strings
// "undefined" and "null" come from unset ids serialised by careless clients.
func ValidID(id string) bool {
	return id != "" && id != "undefined" && id != "null"
}

func guardID(op, id string) error {
	if !ValidID(id) {
		return apperr.NewValidation("%s: invalid project id %q", op, id)
	}
	return nil
}

func projectPath(id string) string {
	return "/projects/" + url.PathEscape(id)
}

// ListProjects fetches every project. It never returns a nil slice: when
// the backend cannot be read it returns an empty list together with the
// error, so callers can render an empty showcase and still report why.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	data, err := c.do(ctx, request{op: "list projects", method: http.MethodGet, path: "/projects"})
	if err == nil {
		var projects []model.Project
		projects, err = decodeProjects(data)
		if err == nil {
			return projects, nil
		}
	}

	logger.Warn("Failed to load projects, showing none", logger.F("error", err))
	return []model.Project{}, err
}

// decodeProjects accepts a bare array or an object holding "projects". A
// response with no payload at all is an error, not an empty list.
func decodeProjects(data json.RawMessage) ([]model.Project, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, fmt.Errorf("list projects: %w: empty response", apperr.ErrServer)
	}

	if trimmed[0] == '[' {
		projects := []model.Project{}
		if err := json.Unmarshal(trimmed, &projects); err != nil {
			return nil, fmt.Errorf("list projects: %w: unexpected response: %v", apperr.ErrServer, err)
		}
		return projects, nil
	}

	var wrapped struct {
		Projects *[]model.Project `json:"projects"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil || wrapped.Projects == nil {
		return nil, fmt.Errorf("list projects: %w: unexpected response shape", apperr.ErrServer)
	}
	if *wrapped.Projects == nil {
		return []model.Project{}, nil
	}
	return *wrapped.Projects, nil
}

// decodeProject accepts a bare project or an object holding "project"
func decodeProject(op string, data json.RawMessage) (model.Project, error) {
	var wrapped struct {
		Project *model.Project `json:"project"`
	}
	if err := decode(op, data, &wrapped); err != nil {
		return model.Project{}, err
	}
	if wrapped.Project != nil {
		return *wrapped.Project, nil
	}

	var p model.Project
	if err := decode(op, data, &p); err != nil {
		return model.Project{}, err
	}
	if p.ID == "" {
		return model.Project{}, fmt.Errorf("%s: %w: response has no project id", op, apperr.ErrServer)
	}
	return p, nil
}

// GetProject fetches one project. Backends without an item route are
// served by scanning the list.
func (c *Client) GetProject(ctx context.Context, id string) (model.Project, error) {
	const op = "get project"
	if err := guardID(op, id); err != nil {
		return model.Project{}, err
	}

	data, err := c.do(ctx, request{op: op, method: http.MethodGet, path: projectPath(id)})
	if err == nil {
		return decodeProject(op, data)
	}

	var herr *apperr.HTTPError
	if !errors.As(err, &herr) || (herr.Status != http.StatusNotFound && herr.Status != http.StatusMethodNotAllowed) {
		return model.Project{}, err
	}

	projects, listErr := c.ListProjects(ctx)
	if listErr != nil {
		return model.Project{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Project{}, err
}

// CreateProject creates a project. Errors propagate unchanged.
func (c *Client) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	const op = "create project"
	r, err := jsonRequest(op, http.MethodPost, "/projects", in)
	if err != nil {
		return model.Project{}, err
	}
	data, err := c.do(ctx, r)
	if err != nil {
		return model.Project{}, err
	}
	return decodeProject(op, data)
}

// UpdateProject replaces every writable field of project id
func (c *Client) UpdateProject(ctx context.Context, id string, in model.ProjectInput) (model.Project, error) {
	const op = "update project"
	if err := guardID(op, id); err != nil {
		return model.Project{}, err
	}
	r, err := jsonRequest(op, http.MethodPut, projectPath(id), in)
	if err != nil {
		return model.Project{}, err
	}
	data, err := c.do(ctx, r)
	if err != nil {
		return model.Project{}, err
	}
	return decodeProject(op, data)
}

// DeleteProject deletes project id. Invalid ids are rejected locally.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	const op = "delete project"
	if err := guardID(op, id); err != nil {
		return err
	}
	_, err := c.do(ctx, request{op: op, method: http.MethodDelete, path: projectPath(id)})
	return err
}
