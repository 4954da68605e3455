// ABOUTME: Call describes one interaction with the podman REST API
// ABOUTME: Method, versioned path, query, header overrides and an optional body or upload

package podman

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Call is one endpoint invocation. Path is relative to the API version
// prefix, e.g. "/libpod/containers/json". Query must already be encoded.
type Call struct {
	Method string
	Path   string
	Query  string
	Header http.Header

	// Body is sent as application/json.
	Body string

	// Upload is streamed as application/x-tar.
	Upload io.Reader
}

// Get builds a GET call.
func Get(path string) Call {
	return Call{Method: http.MethodGet, Path: path}
}

// Post builds a POST call.
func Post(path string) Call {
	return Call{Method: http.MethodPost, Path: path}
}

// Put builds a PUT call.
func Put(path string) Call {
	return Call{Method: http.MethodPut, Path: path}
}

// Delete builds a DELETE call.
func Delete(path string) Call {
	return Call{Method: http.MethodDelete, Path: path}
}

// WithQuery returns a copy of c with the encoded query string set.
func (c Call) WithQuery(query string) Call {
	c.Query = query
	return c
}

// WithHeader returns a copy of c with an extra header. The header map is
// cloned so the original call is never mutated.
func (c Call) WithHeader(key, value string) Call {
	h := c.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	h.Set(key, value)
	c.Header = h
	return c
}

// WithJSON returns a copy of c carrying v marshaled as its JSON body.
func (c Call) WithJSON(v any) (Call, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return c, &TransportError{Op: "encode", Err: fmt.Errorf("marshaling request body: %w", err)}
	}
	c.Body = string(data)
	return c, nil
}

// WithUpload returns a copy of c that streams r as a tar archive.
func (c Call) WithUpload(r io.Reader) Call {
	c.Upload = r
	return c
}

// Target is the request path with the version prefix and query applied.
func (c Call) Target(version string) string {
	target := "/" + version + c.Path
	if c.Query != "" {
		target += "?" + c.Query
	}
	return target
}
