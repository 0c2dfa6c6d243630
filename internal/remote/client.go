// Package remote talks to the hosted notes API. It never falls back to
// anything: every failure comes back as a *storage.RemoteFailure.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sagar5412/webNotes/internal/storage"
)

// DefaultSessionCookie is the cookie the hosted API reads its session from.
const DefaultSessionCookie = "authjs.session-token"

// Config holds remote API configuration.
type Config struct {
	BaseURL       string
	SessionToken  string
	SessionCookie string
	Timeout       time.Duration
}

// Client is the remote backing store.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a remote store client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3000/api"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = DefaultSessionCookie
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &loggingTransport{next: http.DefaultTransport, logger: logger},
		},
		logger: logger,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do issues one request. body is JSON-encoded when non-nil and the response
// is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &storage.RemoteFailure{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return &storage.RemoteFailure{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.SessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.SessionToken)
		req.AddCookie(&http.Cookie{Name: c.cfg.SessionCookie, Value: c.cfg.SessionToken})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &storage.RemoteFailure{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &storage.RemoteFailure{Op: op, Status: resp.StatusCode, Err: readError(resp)}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &storage.RemoteFailure{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func readError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var er errorResponse
	if json.Unmarshal(data, &er) == nil {
		if er.Error != "" {
			return errors.New(er.Error)
		}
		if er.Message != "" {
			return errors.New(er.Message)
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return errors.New(text)
	}
	return errors.New(http.StatusText(resp.StatusCode))
}

type sessionResponse struct {
	User json.RawMessage `json:"user"`
}

// Authenticated asks the session endpoint whether a user is signed in.
func (c *Client) Authenticated(ctx context.Context) (bool, error) {
	var s sessionResponse
	if err := c.do(ctx, "get session", http.MethodGet, "/auth/session", nil, &s); err != nil {
		if errors.Is(err, storage.ErrUnauthorized) {
			return false, nil
		}
		return false, err
	}
	user := strings.TrimSpace(string(s.User))
	return user != "" && user != "null" && user != "{}", nil
}

// Ping reports whether the API host answers at all. Any HTTP response,
// including an error status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, "ping", http.MethodGet, "/auth/session", nil, nil)
	if rf, ok := storage.AsRemoteFailure(err); ok && rf.Status != 0 {
		return nil
	}
	return err
}
