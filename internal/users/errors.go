package users

import (
	"errors"
	"net/http"
)

var ErrNotFound = errors.New("user has no jobs")

func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
