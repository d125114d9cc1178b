package records

import (
	"errors"
	"net/http"
)

// Domain errors for record queries.
var (
	ErrNotFound   = errors.New("record not found")
	ErrInvalidID  = errors.New("invalid record id")
	ErrBadRequest = errors.New("invalid query request")
)

// MapHTTPStatus maps record domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidID) || errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
