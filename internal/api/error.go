package api

import (
	"errors"
	"fmt"
)

// HTTPError is a non-2xx reply from the server.
type HTTPError struct {
	StatusCode int
	Status     string // status line, e.g. "500 Internal Server Error"
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("http error: %s", e.Status)
}

// StatusText is the short reason shown to users: the HTTP status line for
// server replies, the error text for everything else.
func StatusText(err error) string {
	if err == nil {
		return ""
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return err.Error()
}

// IsNotFound reports whether err is a 404 reply.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == 404
}
