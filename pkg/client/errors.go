package client

import (
	"errors"
	"fmt"
)

// ErrFetchFailed matches every *FetchFailedError through errors.Is
var ErrFetchFailed = errors.New("fetch failed")

// FetchFailedError reports a non-2xx response
type FetchFailedError struct {
	Op         string
	StatusCode int
	// Code is the server's error code when the body carried one
	Code    string
	Message string
}

func (e *FetchFailedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %d: %s", e.Op, e.StatusCode, e.Message)
}

// Is reports whether target is ErrFetchFailed
func (e *FetchFailedError) Is(target error) bool {
	return target == ErrFetchFailed
}

// StatusCode returns the HTTP status of a failed fetch, or 0 for any other error
func StatusCode(err error) int {
	var fe *FetchFailedError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}
