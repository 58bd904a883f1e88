// Package rest is the network boundary of the library: token-authenticated
// Get/Post/Put primitives over a hosting site's JSON API, with typed errors,
// exponential-backoff retries and structured logging. Everything above this
// package is pure computation over the records it returns.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// ErrorMapper converts a non-2xx response into a typed *Error. Backends
// install their own mapper so site-specific error bodies surface readable
// messages.
type ErrorMapper func(statusCode int, body []byte) *Error

// Client is a thin HTTP client for one hosting site's REST API.
type Client struct {
	host       string
	baseURL    string
	token      string
	httpClient *http.Client
	retryConf  RetryConfig
	logger     Logger
	mapError   ErrorMapper
	headers    map[string]string
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithRetryConfig replaces the retry configuration.
func WithRetryConfig(conf RetryConfig) Option {
	return func(c *Client) { c.retryConf = conf }
}

// WithLogger installs a structured request/response logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithErrorMapper installs a site-specific error mapper.
func WithErrorMapper(m ErrorMapper) Option {
	return func(c *Client) { c.mapError = m }
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// NewClient creates a client for the given host label, API base URL and
// bearer token.
func NewClient(host, baseURL, token string, opts ...Option) *Client {
	c := &Client{
		host:       host,
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryConf:  DefaultRetryConfig(),
		headers:    map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mapError == nil {
		c.mapError = defaultErrorMapper(host)
	}
	return c
}

// Host returns the host label the client was created with.
func (c *Client) Host() string { return c.host }

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// SetBaseURL overrides the base URL (for testing).
func (c *Client) SetBaseURL(url string) { c.baseURL = url }

// Get fetches path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON to path and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put sends body as JSON to path and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch sends body as JSON to path and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE to path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	url := c.baseURL + path
	start := time.Now()

	if c.logger != nil {
		c.logger.LogRequest(ctx, RequestLog{
			Host:      c.host,
			Method:    method,
			Path:      path,
			Timestamp: start,
		})
	}

	var responseBody []byte
	var statusCode int

	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, url, reader)
		if reqErr != nil {
			return &Error{
				Type:      ErrTypeUnknown,
				Message:   reqErr.Error(),
				Retryable: false,
				Host:      c.host,
			}
		}

		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}

		resp, callErr := c.httpClient.Do(req)
		if callErr != nil {
			// Could be a timeout or network error
			return &Error{
				Type:      ErrTypeTimeout,
				Message:   callErr.Error(),
				Retryable: true,
				Host:      c.host,
			}
		}
		defer resp.Body.Close()

		statusCode = resp.StatusCode

		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return &Error{
				Type:       ErrTypeUnknown,
				Message:    fmt.Sprintf("HTTP %d (failed to read response: %v)", resp.StatusCode, readErr),
				StatusCode: resp.StatusCode,
				Retryable:  resp.StatusCode >= 500,
				Host:       c.host,
			}
		}

		if resp.StatusCode >= 400 {
			return c.mapError(resp.StatusCode, bodyBytes)
		}

		responseBody = bodyBytes
		return nil
	}, c.retryConf)

	if err != nil {
		if c.logger != nil {
			retryable := false
			var apiErr *Error
			if errors.As(err, &apiErr) {
				retryable = apiErr.Retryable
				statusCode = apiErr.StatusCode
			}
			c.logger.LogError(ctx, ErrorLog{
				Host:       c.host,
				Method:     method,
				Path:       path,
				Timestamp:  time.Now(),
				Duration:   time.Since(start),
				Error:      err,
				StatusCode: statusCode,
				Retryable:  retryable,
			})
		}
		return err
	}

	if c.logger != nil {
		c.logger.LogResponse(ctx, ResponseLog{
			Host:       c.host,
			Method:     method,
			Path:       path,
			Timestamp:  time.Now(),
			Duration:   time.Since(start),
			StatusCode: statusCode,
		})
	}

	if out == nil || len(responseBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// defaultErrorMapper classifies responses by status code alone.
func defaultErrorMapper(host string) ErrorMapper {
	return func(statusCode int, body []byte) *Error {
		message := fmt.Sprintf("HTTP %d", statusCode)
		if len(body) > 0 {
			preview := string(body)
			if len(preview) > 100 {
				preview = preview[:100] + "..."
			}
			message = fmt.Sprintf("HTTP %d: %s", statusCode, preview)
		}

		switch {
		case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
			return &Error{Type: ErrTypeAuthentication, Message: message, StatusCode: statusCode, Host: host}
		case statusCode == http.StatusTooManyRequests:
			return &Error{Type: ErrTypeRateLimit, Message: message, StatusCode: statusCode, Retryable: true, Host: host}
		case statusCode == http.StatusNotFound:
			return &Error{Type: ErrTypeNotFound, Message: message, StatusCode: statusCode, Host: host}
		case statusCode >= 500:
			return &Error{Type: ErrTypeServiceUnavailable, Message: message, StatusCode: statusCode, Retryable: true, Host: host}
		case statusCode >= 400:
			return &Error{Type: ErrTypeInvalidRequest, Message: message, StatusCode: statusCode, Host: host}
		default:
			return &Error{Type: ErrTypeUnknown, Message: message, StatusCode: statusCode, Host: host}
		}
	}
}
