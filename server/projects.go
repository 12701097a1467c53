package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/model"
)

func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.repo.ListProjects(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return respond(c, http.StatusOK, "", map[string][]model.Project{"projects": projects})
}

func (s *Server) handleGetProject(c echo.Context) error {
	p, err := s.repo.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return failErr(c, err)
	}
	return respond(c, http.StatusOK, "", map[string]model.Project{"project": p})
}

// bindInput decodes and checks a project body
func bindInput(c echo.Context, editing bool) (model.ProjectInput, error) {
	var in model.ProjectInput
	if err := c.Bind(&in); err != nil {
		return in, apperr.NewValidation("invalid request body")
	}
	in = in.Normalize()
	return in, in.Validate(editing)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	in, err := bindInput(c, false)
	if err != nil {
		return failErr(c, err)
	}

	p, err := s.repo.CreateProject(c.Request().Context(), in)
	if err != nil {
		return failErr(c, err)
	}

	projectMutations.WithLabelValues("create").Inc()
	logger.Info("Project created", logger.F("id", p.ID), logger.F("title", p.Title))
	return respond(c, http.StatusCreated, "Project created", map[string]model.Project{"project": p})
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	in, err := bindInput(c, true)
	if err != nil {
		return failErr(c, err)
	}

	p, err := s.repo.UpdateProject(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return failErr(c, err)
	}

	projectMutations.WithLabelValues("update").Inc()
	logger.Info("Project updated", logger.F("id", p.ID))
	return respond(c, http.StatusOK, "Project updated", map[string]model.Project{"project": p})
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	id := c.Param("id")
	if err := s.repo.DeleteProject(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}

	projectMutations.WithLabelValues("delete").Inc()
	logger.Info("Project deleted", logger.F("id", id))
	return respond(c, http.StatusOK, "Project deleted", nil)
}
