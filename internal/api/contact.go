package api

import (
	"context"
	"net/http"

	"github.com/existflow/folio/internal/model"
)

// SendContact submits a visitor message. The message is validated first
// and never sent when invalid.
func (c *Client) SendContact(ctx context.Context, msg model.ContactMessage) error {
	const op = "send contact"
	msg = msg.Normalize()
	if err := msg.Validate(); err != nil {
		return err
	}

	r, err := jsonRequest(op, http.MethodPost, "/mail/contact", msg)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, r)
	return err
}
