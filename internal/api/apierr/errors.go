package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/kmapgame/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeDailyChallengeNotFound = "DAILY_CHALLENGE_NOT_FOUND"
	CodeDailyResultNotFound    = "DAILY_RESULT_NOT_FOUND"
	CodeSessionRejected        = "SESSION_REJECTED"
	CodeInternalError          = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

func badRequest(message string) *httpError {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return badRequest(validationMessage(ve))
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUsernameRequired):
		return badRequest("Username is required")
	case errors.Is(err, model.ErrNotTimedChallenge):
		return badRequest("Invalid request for timed challenge")
	case errors.Is(err, model.ErrElapsedRequired):
		return badRequest("Elapsed time is required")
	case errors.Is(err, model.ErrInvalidElapsed):
		return badRequest("Invalid elapsed_seconds format")
	case errors.Is(err, model.ErrInvalidTier),
		errors.Is(err, model.ErrInvalidTimeAttackTier),
		errors.Is(err, model.ErrNegativeScore),
		errors.Is(err, model.ErrInvalidResult):
		return badRequest(upperFirst(err.Error()))
	case errors.Is(err, model.ErrDailyChallengeNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeDailyChallengeNotFound, "Daily challenge not available"}}
	case errors.Is(err, model.ErrDailyResultNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeDailyResultNotFound, "Daily challenge result not found"}}
	case errors.Is(err, model.ErrSessionRejected):
		return &httpError{http.StatusForbidden, APIError{CodeSessionRejected, "Session rejected"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

func validationMessage(ve validator.ValidationErrors) string {
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(parts, "; ")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return badRequest(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
