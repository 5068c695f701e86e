package api

import (
	"bytes"
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slatecli/slate/internal/errors"
	"github.com/slatecli/slate/internal/log"
)

// Config holds connection settings for the tracker API.
type Config struct {
	// BaseURL is the root of the tracker API, e.g. https://tracker.example.com/api
	BaseURL string

	// Token is the bearer token sent with every request
	Token string

	// Timeout bounds each request; zero means DefaultTimeout
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client

	// Logger receives request-level debug logging
	Logger *log.Logger
}

// DefaultTimeout bounds tracker requests when the config does not.
const DefaultTimeout = 30 * time.Second

// Client talks to the tracker's REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *log.Logger
}

// NewClient creates a tracker API client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.NewConfigNoBaseURLError()
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = log.Global()
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		token:   config.Token,
		client:  httpClient,
		logger:  logger.With("component", "api"),
	}, nil
}

// do performs one request against the tracker. A nil body sends no
// payload; a nil out discards the response body after the status
// check. Non-2xx statuses come back as coded errors, with 409 mapped
// to the attach-conflict code callers treat as success.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return errors.Wrap(errors.ErrCodeAPITimeout, fmt.Sprintf("%s %s timed out", method, path), err)
		}
		return errors.Wrap(errors.ErrCodeAPIRequest, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("tracker request",
		"method", method,
		"path", path,
		"status", httpResp.StatusCode,
		"duration", time.Since(start))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return c.statusError(method, path, httpResp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrap(errors.ErrCodeAPIDecode, fmt.Sprintf("%s %s returned an unreadable body", method, path), err)
	}

	return nil
}

// isTimeout reports whether a transport error was a timeout, which
// includes the client-level deadline firing.
func isTimeout(err error) bool {
	var netErr net.Error
	return goerrors.As(err, &netErr) && netErr.Timeout()
}

// statusError maps a non-2xx response to a coded error.
func (c *Client) statusError(method, path string, status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewUnauthorizedError()
	case http.StatusNotFound:
		return errors.New(errors.ErrCodeAPINotFound, fmt.Sprintf("%s %s: not found", method, path))
	case http.StatusConflict:
		return errors.New(errors.ErrCodeAttachConflict, fmt.Sprintf("%s %s: already exists", method, path))
	}

	// Surface the tracker's own message when it sent one.
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return errors.New(errors.ErrCodeAPIStatus, fmt.Sprintf("%s %s returned status %d: %s", method, path, status, detail.Detail))
	}
	return errors.NewAPIStatusError(method, path, status)
}
