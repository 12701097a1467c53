package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/model"
)

// AdminLogin exchanges credentials for a bearer token. The token is not
// persisted here; that is the session store's job.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (model.LoginResult, error) {
	const op = "admin login"
	r, err := jsonRequest(op, http.MethodPost, "/admin/login", map[string]string{
		"email":    email,
		"username": email,
		"password": password,
	})
	if err != nil {
		return model.LoginResult{}, err
	}

	data, err := c.do(ctx, r)
	if err != nil {
		var herr *apperr.HTTPError
		if errors.As(err, &herr) {
			if herr.Message == "" {
				herr.Message = "Login failed"
			}
			if herr.Status == http.StatusBadRequest {
				return model.LoginResult{}, fmt.Errorf("%w: %w", apperr.ErrAuth, err)
			}
		}
		return model.LoginResult{}, err
	}

	var result struct {
		Token string              `json:"token"`
		Admin *model.AdminProfile `json:"admin"`
		User  *model.AdminProfile `json:"user"`
	}
	if err := decode(op, data, &result); err != nil {
		return model.LoginResult{}, err
	}
	if result.Token == "" {
		return model.LoginResult{}, fmt.Errorf("%s: %w: response has no token", op, apperr.ErrServer)
	}

	out := model.LoginResult{Token: result.Token}
	switch {
	case result.Admin != nil:
		out.Admin = *result.Admin
	case result.User != nil:
		out.Admin = *result.User
	}
	if out.Admin.Email == "" {
		out.Admin.Email = email
	}
	return out, nil
}

// AdminLogout invalidates the current token on the backend
func (c *Client) AdminLogout(ctx context.Context) error {
	_, err := c.do(ctx, request{op: "admin logout", method: http.MethodPost, path: "/admin/logout"})
	return err
}

// GetAdminProfile returns the admin the current token belongs to. It is
// how a persisted token is validated.
func (c *Client) GetAdminProfile(ctx context.Context) (model.AdminProfile, error) {
	const op = "admin profile"
	data, err := c.do(ctx, request{op: op, method: http.MethodGet, path: "/admin/profile"})
	if err != nil {
		return model.AdminProfile{}, err
	}

	var wrapped struct {
		Admin *model.AdminProfile `json:"admin"`
	}
	if err := decode(op, data, &wrapped); err != nil {
		return model.AdminProfile{}, err
	}
	if wrapped.Admin != nil {
		return *wrapped.Admin, nil
	}

	var profile model.AdminProfile
	if err := decode(op, data, &profile); err != nil {
		return model.AdminProfile{}, err
	}
	return profile, nil
}
