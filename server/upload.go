package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/model"
)

// handleUpload stores the multipart field "image" under the upload dir
func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return fail(c, http.StatusBadRequest, "image file is required")
	}

	if err := model.ValidateImageFile(fh.Filename, fh.Size, fh.Header.Get("Content-Type")); err != nil {
		return failErr(c, err)
	}

	src, err := fh.Open()
	if err != nil {
		return failErr(c, err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		return failErr(c, fmt.Errorf("failed to create upload: %w", err))
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return failErr(c, fmt.Errorf("failed to write upload: %w", err))
	}

	url := s.publicURL + "/uploads/" + name
	logger.Info("Image uploaded", logger.F("file", fh.Filename), logger.F("url", url))
	return respond(c, http.StatusCreated, "Image uploaded", map[string]string{"url": url})
}
