// ABOUTME: Fully buffered podman responses
// ABOUTME: Status checks with call-site success codes and text access for plain bodies

package podman

import (
	"net/http"
	"slices"
	"unicode/utf8"
)

// BufferedResponse is a response whose body has been read completely.
type BufferedResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status is in the 2xx range.
func (r *BufferedResponse) Success() bool {
	return isSuccess(r.StatusCode)
}

// Check returns nil when the status is 2xx or one of extraOK, such as 304
// for init-style calls. Any other status goes through Disambiguate.
func (r *BufferedResponse) Check(extraOK ...int) error {
	if r.Success() || slices.Contains(extraOK, r.StatusCode) {
		return nil
	}
	return Disambiguate(r)
}

// Text returns the body as a string after checking the status.
func (r *BufferedResponse) Text() (string, error) {
	if err := r.Check(); err != nil {
		return "", err
	}
	if !utf8.Valid(r.Body) {
		return "", &CodecError{Err: ErrInvalidUTF8}
	}
	return string(r.Body), nil
}
