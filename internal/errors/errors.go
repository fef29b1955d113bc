// internal/errors/errors.go
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Domain error taxonomy. Services return these (possibly wrapped) and the
// HTTP layer maps them to status codes via Write.
var (
	ErrNotFound         = errors.New("not found")
	ErrAccountBlocked   = errors.New("account is blocked")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrDuplicateActor   = errors.New("cannot act on yourself")
	ErrEmptyContent     = errors.New("message content must not be empty")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// InvalidArgument wraps ErrInvalidArgument with a human-readable detail.
// Use this in handlers/services for bad input validation.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// Status converts repo/infra/domain errors into an HTTP status code.
// Keeps service layer clean by centralizing error mapping.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrDuplicateActor),
		errors.Is(err, ErrEmptyContent):
		return http.StatusBadRequest

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrAccountBlocked):
		return http.StatusForbidden

	case errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrUsernameTaken):
		return http.StatusConflict

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return 499 // client closed request

	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// Write renders err as a JSON error response with the mapped status code.
func Write(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
