package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/yashpandey06/E-Commerce-Application/internal/errors"
)

// backendErrorBody matches the error payloads the commerce backend emits.
// Newer endpoints use {"detail": ...}; the legacy surface uses {"message": ...}.
type backendErrorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError preserving the server-provided message for display.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, operation string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", operation, resp.StatusCode, err)
	}

	message := ""
	var body backendErrorBody
	if json.Unmarshal(bodyBytes, &body) == nil {
		if body.Detail != "" {
			message = body.Detail
		} else {
			message = body.Message
		}
	}
	if message == "" {
		message = fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode)
	}

	return mapStatusError(resp.StatusCode, message, operation)
}

// mapStatusError translates an HTTP status code into the client error taxonomy.
func mapStatusError(status int, message, operation string) error {
	switch {
	case status == http.StatusUnauthorized:
		return apperrors.Unauthenticated(message)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(message)
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusUnprocessableEntity:
		return apperrors.PaymentFailed(message)
	case status >= 500:
		return apperrors.Transient(message, fmt.Errorf("%s server error %d", operation, status))
	default:
		return &apperrors.AppError{
			Code:    "INVALID_INPUT",
			Message: message,
			Status:  status,
			Err:     apperrors.ErrInvalidInput,
		}
	}
}
