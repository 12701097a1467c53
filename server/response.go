package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/logger"
)

// envelope is the body of every API response
type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, envelope{Status: "success", Message: message, Data: data})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Status: "error", Message: message})
}

// failErr maps an error onto a response. Validation errors carry their
// field messages; anything unclassified is a 500 with a generic message.
func failErr(c echo.Context, err error) error {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, envelope{
			Status:  "error",
			Message: verr.Message,
			Errors:  verr.Fields,
		})
	case errors.Is(err, apperr.ErrNotFound):
		return fail(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, apperr.ErrAuth):
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}

	logger.Error("Request failed",
		logger.F("method", c.Request().Method),
		logger.F("uri", c.Request().RequestURI),
		logger.F("error", err))
	return fail(c, http.StatusInternalServerError, "internal error")
}
