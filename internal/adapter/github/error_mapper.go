package github

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/etcher-be/igit/internal/adapter/rest"
)

const providerName = "github"

// MapHTTPError maps GitHub API HTTP status codes to typed rest errors so
// the shared retry logic can tell transient failures from permanent ones.
func MapHTTPError(statusCode int, body []byte) *rest.Error {
	message := parseErrorMessage(statusCode, body)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &rest.Error{
			Type:       rest.ErrTypeAuthentication,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Host:       providerName,
		}

	case http.StatusTooManyRequests:
		return &rest.Error{
			Type:       rest.ErrTypeRateLimit,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  true,
			Host:       providerName,
		}

	case http.StatusNotFound:
		return &rest.Error{
			Type:       rest.ErrTypeNotFound,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Host:       providerName,
		}

	case http.StatusUnprocessableEntity:
		return &rest.Error{
			Type:       rest.ErrTypeInvalidRequest,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Host:       providerName,
		}

	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable:
		return &rest.Error{
			Type:       rest.ErrTypeServiceUnavailable,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  true,
			Host:       providerName,
		}

	default:
		return &rest.Error{
			Type:       rest.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Host:       providerName,
		}
	}
}

// parseErrorMessage extracts a user-friendly error message from GitHub's response.
func parseErrorMessage(statusCode int, body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 100 {
			bodyPreview = bodyPreview[:100] + "..."
		}
		if bodyPreview == "" {
			return fmt.Sprintf("HTTP %d", statusCode)
		}
		return fmt.Sprintf("HTTP %d: %s", statusCode, bodyPreview)
	}

	if errResp.Message == "" {
		return fmt.Sprintf("HTTP %d", statusCode)
	}

	if len(errResp.Errors) > 0 {
		var details []string
		for _, e := range errResp.Errors {
			if e.Message != "" {
				details = append(details, e.Message)
			} else if e.Field != "" {
				details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Code))
			}
		}
		if len(details) > 0 {
			return fmt.Sprintf("%s: %s", errResp.Message, strings.Join(details, "; "))
		}
	}

	return errResp.Message
}
