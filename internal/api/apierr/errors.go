package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/blockdrop/internal/model"
	"github.com/mcoot/blockdrop/internal/services/auth"
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
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeNotGameOwner       = "NOT_GAME_OWNER"
	CodeGameAbandoned      = "GAME_ABANDONED"
	CodeGameNotLive        = "GAME_NOT_LIVE"
	CodeUnknownCommand     = "UNKNOWN_COMMAND"
	CodeInvalidElapsed     = "INVALID_ELAPSED"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidUsername    = "INVALID_USERNAME"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
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

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrNotGameOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotGameOwner, "Game belongs to another player"}}
	case errors.Is(err, model.ErrGameAbandoned):
		return &httpError{http.StatusGone, APIError{CodeGameAbandoned, "Game has been abandoned"}}
	case errors.Is(err, model.ErrGameNotLive):
		return &httpError{http.StatusConflict, APIError{CodeGameNotLive, "Game is not running on this server"}}
	case errors.Is(err, model.ErrUnknownCommand):
		// Keep the wrapped detail so the client sees which command was rejected
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownCommand, err.Error()}}
	case errors.Is(err, model.ErrInvalidElapsed):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidElapsed, "Elapsed time must be a non-negative number of milliseconds within range"}}

	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, auth.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidUsername, auth.ErrInvalidUsername.Error()}}
	case errors.Is(err, auth.ErrPasswordTooShort):
		return &httpError{http.StatusBadRequest, APIError{CodePasswordTooShort, "Password is too short"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
