// Package api is the HTTP access layer for the movie catalog service.
// Every remote call goes through one request funnel that attaches the
// bearer token (read from the session at call time) and normalizes
// transport and HTTP failures into the domain error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mdoering/marquee/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Marquee/1.0"
)

// Client talks to the movie API. It holds no per-instance token: the
// TokenSource is consulted on every request so a rotated token is picked
// up by the next call.
type Client struct {
	baseURL    string
	tokens     domain.TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new movie API client
func NewClient(baseURL string, tokens domain.TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// newRequest builds a request against the API base URL. When authed is
// true the current bearer token is attached.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, authed bool) (*http.Request, error) {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if authed {
		req.Header.Set("Authorization", "Bearer "+c.tokens.Token())
	}

	return req, nil
}

// doRequest performs a JSON request and returns the raw response body.
// Transport failures become ErrServerUnreachable, 401 becomes
// ErrAuthFailed, 404 becomes ErrNotFound, any other non-2xx status
// becomes a *domain.RemoteError.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, authed bool) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := c.newRequest(ctx, method, path, reader, authed)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "method", method, "path", path, "error", err)
		return nil, domain.ErrServerUnreachable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if err := checkStatus(resp.StatusCode, respBody); err != nil {
		c.logger.Error("api request error", "method", method, "path", path, "status", resp.StatusCode, "body", string(respBody))
		return nil, err
	}

	return respBody, nil
}

// checkStatus translates an HTTP error status into a domain error.
func checkStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return domain.ErrAuthFailed
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return &domain.RemoteError{Status: status, Body: string(body)}
	}
}

// decode unmarshals a response body, surfacing parse failures with context.
func decode(body []byte, dest interface{}) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
