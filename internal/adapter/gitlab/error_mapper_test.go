package gitlab_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etcher-be/igit/internal/adapter/gitlab"
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
			name:          "401 unauthorized",
			statusCode:    http.StatusUnauthorized,
			body:          `{"message": "401 Unauthorized"}`,
			wantType:      rest.ErrTypeAuthentication,
			wantRetryable: false,
			wantContains:  "401 Unauthorized",
		},
		{
			name:          "404 project not found",
			statusCode:    http.StatusNotFound,
			body:          `{"message": "404 Project Not Found"}`,
			wantType:      rest.ErrTypeNotFound,
			wantRetryable: false,
			wantContains:  "Project Not Found",
		},
		{
			name:          "400 with structured message object",
			statusCode:    http.StatusBadRequest,
			body:          `{"message": {"line_code": ["can't be blank"]}}`,
			wantType:      rest.ErrTypeInvalidRequest,
			wantRetryable: false,
			wantContains:  "line_code",
		},
		{
			name:          "409 bare error field",
			statusCode:    http.StatusConflict,
			body:          `{"error": "state_event does not have a valid value"}`,
			wantType:      rest.ErrTypeInvalidRequest,
			wantRetryable: false,
			wantContains:  "state_event",
		},
		{
			name:          "429 rate limited",
			statusCode:    http.StatusTooManyRequests,
			body:          `{"message": "Retry later"}`,
			wantType:      rest.ErrTypeRateLimit,
			wantRetryable: true,
			wantContains:  "Retry later",
		},
		{
			name:          "503 service unavailable with non-JSON body",
			statusCode:    http.StatusServiceUnavailable,
			body:          "upstream unavailable",
			wantType:      rest.ErrTypeServiceUnavailable,
			wantRetryable: true,
			wantContains:  "upstream unavailable",
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
			err := gitlab.MapHTTPError(tt.statusCode, []byte(tt.body))
			require.NotNil(t, err)

			assert.Equal(t, tt.wantType, err.Type)
			assert.Equal(t, tt.statusCode, err.StatusCode)
			assert.Equal(t, tt.wantRetryable, err.Retryable)
			assert.Equal(t, "gitlab", err.Host)
			assert.Contains(t, err.Message, tt.wantContains)
		})
	}
}
