// Package api is the HTTP gateway to the portfolio backend. Every backend
// call made by the stores and the CLI goes through Client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/tokenstore"
)

// DefaultTimeout bounds every request unless WithTimeout or WithHTTPClient
// say otherwise.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 10 << 20

// Client is the API gateway
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     tokenstore.Store
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTokenStore sets where the bearer token is read from. Without one,
// requests are sent unauthenticated.
func WithTokenStore(s tokenstore.Store) Option {
	return func(c *Client) {
		c.tokens = s
	}
}

// New creates a gateway for the backend at baseURL, e.g.
// http://localhost:5050/api
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     tokenstore.NewMemory(tokenstore.Credentials{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request is one backend call
type request struct {
	op          string
	method      string
	path        string
	body        io.Reader
	contentType string
}

// jsonRequest builds a request with a JSON encoded body
func jsonRequest(op, method, path string, payload any) (request, error) {
	r := request{op: op, method: method, path: path}
	if payload == nil {
		return r, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return r, fmt.Errorf("%s: failed to encode request: %w", op, err)
	}
	r.body = bytes.NewReader(data)
	r.contentType = "application/json"
	return r, nil
}

// do sends r and returns the unwrapped response payload. Non-2xx responses
// become *apperr.HTTPError and transport failures *apperr.NetworkError.
func (c *Client) do(ctx context.Context, r request) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	creds, err := c.tokens.Get()
	if err != nil {
		logger.Warn("Failed to read session token", logger.F("error", err))
	} else if !creds.Empty() {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.NetworkError{Op: r.op, Err: err, Timeout: isTimeout(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &apperr.NetworkError{Op: r.op, Err: err, Timeout: isTimeout(err)}
	}

	logger.Debug("API request",
		logger.F("op", r.op),
		logger.F("method", r.method),
		logger.F("path", r.path),
		logger.F("status", resp.StatusCode),
		logger.F("duration_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.HTTPError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	data, err := unwrapEnvelope(body)
	if err != nil {
		var herr *apperr.HTTPError
		if errors.As(err, &herr) {
			herr.Status = resp.StatusCode
		}
		return nil, fmt.Errorf("%s: %w", r.op, err)
	}
	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// envelope is the {status|success, message, data} wrapper some backends use
type envelope struct {
	Status  string          `json:"status"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) failed() bool {
	return e.Status == "error" || e.Status == "fail" || (e.Success != nil && !*e.Success)
}

// isEnvelope reports whether a decoded object is a wrapper rather than a
// bare resource. A bare project also has a "status" key, so only the
// wrapper's status values count.
func isEnvelope(keys map[string]json.RawMessage, e envelope) bool {
	if _, ok := keys["data"]; ok {
		return true
	}
	if _, ok := keys["success"]; ok {
		return true
	}
	switch e.Status {
	case "success", "error", "fail", "ok":
		return true
	}
	return false
}

// unwrapEnvelope returns the payload of body: the data field of an
// envelope, or body itself when it is a bare object or array.
func unwrapEnvelope(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", apperr.ErrServer, err)
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		// status or success with an unexpected type: treat as bare
		return trimmed, nil
	}
	if !isEnvelope(keys, env) {
		return trimmed, nil
	}

	if env.failed() {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = "request failed"
		}
		return nil, &apperr.HTTPError{Status: http.StatusOK, Message: msg}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return siblingPayload(keys)
	}
	return env.Data, nil
}

// wrapperKeys are the envelope's own fields
var wrapperKeys = []string{"status", "success", "message", "error", "errors", "data"}

// siblingPayload returns what an envelope without data carries next to its
// wrapper fields, e.g. {"success":true,"projects":[...]}. It is nil when
// nothing is left, as for a bare acknowledgement.
func siblingPayload(keys map[string]json.RawMessage) (json.RawMessage, error) {
	for _, k := range wrapperKeys {
		delete(keys, k)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	rest, err := json.Marshal(keys)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", apperr.ErrServer, err)
	}
	return rest, nil
}

// maxErrorText caps a raw error body used as a message
const maxErrorText = 200

// errorMessage extracts the backend's message from an error body, falling
// back to the body text itself when it carries no message field.
func errorMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}

	text := strings.TrimSpace(string(body))
	if r := []rune(text); len(r) > maxErrorText {
		text = string(r[:maxErrorText]) + "..."
	}
	return text
}

// decode unmarshals a payload, reporting an empty one as a server error
func decode(op string, data json.RawMessage, out any) error {
	if len(data) == 0 {
		return fmt.Errorf("%s: %w: empty response", op, apperr.ErrServer)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w: unexpected response: %v", op, apperr.ErrServer, err)
	}
	return nil
}

// Health checks that the backend is up
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, request{op: "health", method: http.MethodGet, path: "/health"})
	return err
}
