// ABOUTME: Error taxonomy for calls against the podman service
// ABOUTME: Transport, codec, daemon envelope and plain request errors form one closed set

package podman

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind identifies which of the four error categories an Error belongs to.
type ErrorKind int

const (
	// KindTransport covers dial, send and mid-body read failures.
	KindTransport ErrorKind = iota + 1
	// KindCodec covers bodies that could not be decoded into the expected shape.
	KindCodec
	// KindDaemon covers structured error envelopes returned by the daemon.
	KindDaemon
	// KindRequest covers plain-text errors for requests the daemon could not route.
	KindRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindCodec:
		return "codec"
	case KindDaemon:
		return "daemon"
	case KindRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Error is implemented only by the error types of this package, so a switch
// over Kind() is exhaustive.
type Error interface {
	error
	Kind() ErrorKind
	podmanError()
}

var (
	// ErrNotFound matches daemon and request errors carrying a 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict matches daemon and request errors carrying a 409.
	ErrConflict = errors.New("conflict")

	// ErrInvalidUTF8 is wrapped by a CodecError when a body that must be text is not.
	ErrInvalidUTF8 = errors.New("body is not valid utf-8")

	// ErrBodyConflict is returned when a Call sets both Body and Upload.
	ErrBodyConflict = errors.New("call sets both a json body and an upload")

	// ErrStreamClosed is returned by Next after Close was called.
	ErrStreamClosed = errors.New("stream closed")
)

// TransportError reports a failure to exchange bytes with the daemon.
type TransportError struct {
	Op  string // "encode", "dial", "send" or "read"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("podman transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error   { return e.Err }
func (e *TransportError) Kind() ErrorKind { return KindTransport }
func (*TransportError) podmanError()      {}

// CodecError reports a body that could not be decoded. Field and Offset locate
// the failure when the decoder knows it.
type CodecError struct {
	Field  string
	Offset int64
	Err    error
}

func (e *CodecError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("podman decode: field %q (offset %d): %v", e.Field, e.Offset, e.Err)
	case e.Offset > 0:
		return fmt.Sprintf("podman decode: offset %d: %v", e.Offset, e.Err)
	default:
		return fmt.Sprintf("podman decode: %v", e.Err)
	}
}

func (e *CodecError) Unwrap() error   { return e.Err }
func (e *CodecError) Kind() ErrorKind { return KindCodec }
func (*CodecError) podmanError()      {}

// DaemonError is the daemon's structured error envelope: the request was
// understood and rejected for a domain reason.
type DaemonError struct {
	Cause        string `json:"cause"`
	Message      string `json:"message"`
	ResponseCode int    `json:"response"`

	// StatusCode is the transport status, which can differ from ResponseCode.
	StatusCode int `json:"-"`
}

func (e *DaemonError) Error() string {
	return fmt.Sprintf("podman returned [%d] cause: %s, message: %s", e.ResponseCode, e.Cause, e.Message)
}

// Is matches ErrNotFound and ErrConflict against the envelope's response code.
func (e *DaemonError) Is(target error) bool {
	return matchStatus(target, e.ResponseCode)
}

func (e *DaemonError) Kind() ErrorKind { return KindDaemon }
func (*DaemonError) podmanError()      {}

// RequestError carries the raw text the daemon answered to a request it could
// not handle, such as a wrong method or unknown route.
type RequestError struct {
	Message    string
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("podman request failed [%d]: %s", e.StatusCode, e.Message)
}

func (e *RequestError) Is(target error) bool {
	return matchStatus(target, e.StatusCode)
}

func (e *RequestError) Kind() ErrorKind { return KindRequest }
func (*RequestError) podmanError()      {}

func matchStatus(target error, code int) bool {
	switch target {
	case ErrNotFound:
		return code == http.StatusNotFound
	case ErrConflict:
		return code == http.StatusConflict
	}
	return false
}

// KindOf reports the category of the first podman Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var pe Error
	if errors.As(err, &pe) {
		return pe.Kind(), true
	}
	return 0, false
}
