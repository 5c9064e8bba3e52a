package update

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-inplace/pkg/model"
)

// HTTPError is implemented by errors that carry their own status code.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pairs an error with an HTTP status.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// statusFor maps handler failures onto response codes.
func statusFor(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		return httpErr.StatusCode()
	}
	if errors.Is(err, model.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
