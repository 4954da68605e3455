// ABOUTME: One HTTP exchange over the podman socket
// ABOUTME: Returns status and headers as soon as they arrive, leaving the body unread

package podman

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	contentTypeJSON = "application/json"
	contentTypeTar  = "application/x-tar"

	// The host is ignored by the daemon; the socket decides where bytes go.
	baseURL = "http://d"
)

// rawResponse is an unconsumed response. It never leaves this package and is
// handed to exactly one materializer, which owns and closes the body.
type rawResponse struct {
	status int
	header http.Header
	body   io.ReadCloser
}

func (r *rawResponse) success() bool {
	return isSuccess(r.status)
}

// buffer drains and closes the body.
func (r *rawResponse) buffer() (*BufferedResponse, error) {
	defer r.body.Close()

	data, err := io.ReadAll(r.body)
	if err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}
	return &BufferedResponse{
		StatusCode: r.status,
		Header:     r.header,
		Body:       data,
	}, nil
}

// send performs the exchange. No retries happen here.
func (c *Client) send(ctx context.Context, call Call) (*rawResponse, error) {
	req, err := c.newRequest(ctx, call)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "method", call.Method, "path", call.Path)
	logger.Debug("sending podman request", "query", call.Query)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		op := "send"
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			op = "dial"
		}
		logger.Debug("podman request failed", "op", op, "error", err)
		return nil, &TransportError{Op: op, Err: err}
	}

	elapsed := time.Since(start)
	c.metrics.observeRequest(call.Method, resp.StatusCode, elapsed)
	logger.Debug("podman response headers received",
		"status", resp.StatusCode,
		"duration", elapsed,
	)

	return &rawResponse{
		status: resp.StatusCode,
		header: resp.Header,
		body:   resp.Body,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, call Call) (*http.Request, error) {
	if call.Body != "" && call.Upload != nil {
		return nil, &TransportError{Op: "encode", Err: ErrBodyConflict}
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case call.Upload != nil:
		body = call.Upload
		contentType = contentTypeTar
	case call.Body != "":
		body = strings.NewReader(call.Body)
		contentType = contentTypeJSON
	}

	method := call.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+call.Target(c.version), body)
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: fmt.Errorf("creating request: %w", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, values := range call.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
