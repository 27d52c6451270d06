package runners

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/job-broker/internal/jobs"
)

var ErrInvalidUpdate = errors.New("invalid job update")

// MapHTTPStatus converts runner and job errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidUpdate) {
		return http.StatusBadRequest
	}
	return jobs.MapHTTPStatus(err)
}
