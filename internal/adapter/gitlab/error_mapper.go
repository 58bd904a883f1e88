package gitlab

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/etcher-be/igit/internal/adapter/rest"
)

const providerName = "gitlab"

// MapHTTPError maps GitLab API HTTP status codes to typed rest errors so
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

	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
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

// parseErrorMessage extracts a user-friendly error message from GitLab's
// response. GitLab sends either {"message": ...} where message may be a
// string or a validation object, or {"error": "..."}.
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

	switch msg := errResp.Message.(type) {
	case string:
		if msg != "" {
			return msg
		}
	case map[string]any:
		if raw, err := json.Marshal(msg); err == nil {
			return string(raw)
		}
	}
	if errResp.Error != "" {
		return errResp.Error
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}
