package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"weekly-tracker/pkg/logger"
)

const (
	DefaultTimeout  = 10 * time.Second
	requestIDHeader = "X-Request-Id"
)

// Client performs JSON requests against the tracker API base URL, which
// already includes the /api prefix.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        logger.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout overrides the request timeout. It is applied to a copy of the
// HTTP client so a client passed to WithHTTPClient is left untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("remote: base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("remote: invalid base url %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		copied := *c.httpClient
		copied.Timeout = c.timeout
		c.httpClient = &copied
	}
	return c, nil
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Code   string          `json:"code"`
}

// do sends body as JSON and decodes a 2xx response into out. notFound is
// the sentinel a 404 unwraps to.
func (c *Client) do(ctx context.Context, method, path string, body, out any, notFound error) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	started := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.log.InternalError("remote.do: request failed", err, "method", method, "path", path, "request_id", requestID)
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("remote: read response: %w", err)
	}

	c.log.Debug("remote.do: response",
		"method", method,
		"path", path,
		"status", res.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started),
	)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: res.StatusCode, notFound: notFound}
		apiErr.Detail, apiErr.Code = parseErrorBody(resBody)
		if apiErr.Detail == "" {
			apiErr.Detail = http.StatusText(res.StatusCode)
		}
		return apiErr
	}

	if out == nil || res.StatusCode == http.StatusNoContent || len(resBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return fmt.Errorf("remote: decode response: %w", err)
	}
	return nil
}

// parseErrorBody reads {"detail": ...}. A non-string detail is returned as
// its raw JSON text.
func parseErrorBody(raw []byte) (string, string) {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return "", ""
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		return detail, body.Code
	}
	if string(body.Detail) == "null" {
		return "", body.Code
	}
	return string(body.Detail), body.Code
}
