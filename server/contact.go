package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/model"
)

// handleContact stores a visitor message
func (s *Server) handleContact(c echo.Context) error {
	var msg model.ContactMessage
	if err := c.Bind(&msg); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	msg = msg.Normalize()
	if err := msg.Validate(); err != nil {
		return failErr(c, err)
	}

	if err := s.repo.SaveContact(c.Request().Context(), msg); err != nil {
		return failErr(c, err)
	}

	logger.Info("Contact message received", logger.F("email", msg.Email), logger.F("subject", msg.Subject))
	return respond(c, http.StatusOK, "Message sent", nil)
}
