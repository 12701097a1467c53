package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/model"
)

// UploadImage uploads an image as the multipart field "image" and returns
// its URL. It always returns a usable image reference: on any failure the
// placeholder image is returned together with the error.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	url, err := c.uploadImage(ctx, filename, r)
	if err != nil {
		logger.Warn("Image upload failed, using placeholder",
			logger.F("file", filename),
			logger.F("error", err),
		)
		return model.PlaceholderImage, err
	}
	return url, nil
}

// UploadFile validates and uploads the image at path. A file that fails
// validation is not sent and yields an empty reference; a failed upload
// yields the placeholder like UploadImage.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := model.ValidateImageFile(path, info.Size(), ""); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return c.UploadImage(ctx, path, f)
}

// IsLocalFile reports whether ref names an existing regular file rather
// than an image URL.
func IsLocalFile(ref string) bool {
	if ref == "" {
		return false
	}
	info, err := os.Stat(ref)
	return err == nil && !info.IsDir()
}

func (c *Client) uploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	const op = "upload image"

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := model.ImageContentType(filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("%s: failed to read image: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	data, err := c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        "/upload/image",
		body:        &buf,
		contentType: w.FormDataContentType(),
	})
	if err != nil {
		return "", err
	}

	var result struct {
		URL      string `json:"url"`
		ImageURL string `json:"imageUrl"`
		Path     string `json:"path"`
	}
	if err := decode(op, data, &result); err != nil {
		return "", err
	}
	for _, u := range []string{result.URL, result.ImageURL, result.Path} {
		if u != "" {
			return u, nil
		}
	}
	return "", fmt.Errorf("%s: %w: response has no url", op, apperr.ErrServer)
}
