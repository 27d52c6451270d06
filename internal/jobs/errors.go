package jobs

import (
	"errors"
	"net/http"
)

// Domain errors for job operations.
var (
	ErrNotFound      = errors.New("job not found")
	ErrDuplicate     = errors.New("job already exists")
	ErrInvalidJob    = errors.New("invalid job")
	ErrInvalidStatus = errors.New("invalid status")
	ErrQueueEmpty    = errors.New("no job waiting")
	ErrLogNotFound   = errors.New("job has no log file")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrInvalidFile   = errors.New("invalid file")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrLogNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidJob), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrQueueEmpty):
		return http.StatusNoContent
	}
	return http.StatusInternalServerError
}
