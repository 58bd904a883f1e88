package github_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etcher-be/igit/internal/adapter/github"
	"github.com/etcher-be/igit/internal/adapter/rest"
)

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		body          string
		wantType      rest.ErrorType
		wantRetryable bool
		wantContains  string
	}{
		{
			name:          "401 bad credentials",
			statusCode:    http.StatusUnauthorized,
			body:          `{"message": "Bad credentials"}`,
			wantType:      rest.ErrTypeAuthentication,
			wantRetryable: false,
			wantContains:  "Bad credentials",
		},
		{
			name:          "403 forbidden",
			statusCode:    http.StatusForbidden,
			body:          `{"message": "Resource not accessible by integration"}`,
			wantType:      rest.ErrTypeAuthentication,
			wantRetryable: false,
			wantContains:  "Resource not accessible",
		},
		{
			name:          "429 rate limited",
			statusCode:    http.StatusTooManyRequests,
			body:          `{"message": "API rate limit exceeded"}`,
			wantType:      rest.ErrTypeRateLimit,
			wantRetryable: true,
			wantContains:  "rate limit",
		},
		{
			name:          "404 not found",
			statusCode:    http.StatusNotFound,
			body:          `{"message": "Not Found"}`,
			wantType:      rest.ErrTypeNotFound,
			wantRetryable: false,
			wantContains:  "Not Found",
		},
		{
			name:          "422 with validation details",
			statusCode:    http.StatusUnprocessableEntity,
			body:          `{"message": "Validation Failed", "errors": [{"resource": "CommitComment", "field": "position", "code": "invalid"}]}`,
			wantType:      rest.ErrTypeInvalidRequest,
			wantRetryable: false,
			wantContains:  "position: invalid",
		},
		{
			name:          "503 service unavailable",
			statusCode:    http.StatusServiceUnavailable,
			body:          `{"message": "Service Unavailable"}`,
			wantType:      rest.ErrTypeServiceUnavailable,
			wantRetryable: true,
			wantContains:  "Service Unavailable",
		},
		{
			name:          "non-JSON body falls back to preview",
			statusCode:    http.StatusBadGateway,
			body:          "upstream timed out",
			wantType:      rest.ErrTypeServiceUnavailable,
			wantRetryable: true,
			wantContains:  "upstream timed out",
		},
		{
			name:          "empty body",
			statusCode:    http.StatusTeapot,
			body:          "",
			wantType:      rest.ErrTypeUnknown,
			wantRetryable: false,
			wantContains:  "HTTP 418",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := github.MapHTTPError(tt.statusCode, []byte(tt.body))
			require.NotNil(t, err)

			assert.Equal(t, tt.wantType, err.Type)
			assert.Equal(t, tt.statusCode, err.StatusCode)
			assert.Equal(t, tt.wantRetryable, err.Retryable)
			assert.Equal(t, "github", err.Host)
			assert.Contains(t, err.Message, tt.wantContains)
		})
	}
}
