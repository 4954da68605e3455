// ABOUTME: Client for the podman REST API over a Unix domain socket
// ABOUTME: Holds the shared http.Client, API version prefix, logger and metrics

package podman

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

// DefaultAPIVersion is the libpod API version prefixed to every request path.
const DefaultAPIVersion = "v4.2.0"

// Client issues calls to one podman service socket. It is safe for
// concurrent use; every call owns its own response body.
type Client struct {
	socketPath string
	version    string
	timeout    time.Duration
	http       *http.Client
	logger     *slog.Logger
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	version      string
	timeout      time.Duration
	maxIdleConns int
	logger       *slog.Logger
	metrics      *Metrics
}

// WithAPIVersion overrides DefaultAPIVersion, e.g. "v5.0.0".
func WithAPIVersion(version string) Option {
	return func(o *clientOptions) { o.version = version }
}

// WithTimeout bounds buffered calls. Streams are never given a deadline by
// the client; pass a context for that.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithMaxIdleConns sets how many idle socket connections are kept for reuse.
func WithMaxIdleConns(n int) Option {
	return func(o *clientOptions) { o.maxIdleConns = n }
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithMetrics records request and error counts into m.
func WithMetrics(m *Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// New creates a client for the podman service listening on socketPath.
func New(socketPath string, opts ...Option) *Client {
	o := clientOptions{
		version:      DefaultAPIVersion,
		maxIdleConns: 10,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	dialer := &net.Dialer{}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, "unix", socketPath)
		},
		MaxIdleConns:        o.maxIdleConns,
		MaxIdleConnsPerHost: o.maxIdleConns,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		socketPath: socketPath,
		version:    o.version,
		timeout:    o.timeout,
		http:       &http.Client{Transport: transport},
		logger:     o.logger.With("socket", socketPath),
		metrics:    o.metrics,
	}
}

// SocketPath returns the socket the client dials.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// APIVersion returns the version prefix used for request paths.
func (c *Client) APIVersion() string {
	return c.version
}

// SocketExists reports whether the socket path is present on disk.
func (c *Client) SocketExists() bool {
	_, err := os.Stat(c.socketPath)
	return err == nil
}

// Close drops idle connections. In-flight streams are unaffected.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Do performs call and buffers the whole body. The response is returned
// whatever its status; use Decode or Check to interpret it.
func (c *Client) Do(ctx context.Context, call Call) (*BufferedResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.send(ctx, call)
	if err != nil {
		c.metrics.observeError(err)
		return nil, err
	}
	resp, err := raw.buffer()
	if err != nil {
		c.metrics.observeError(err)
		return nil, err
	}
	return resp, nil
}

// Fetch performs call and decodes the body into T, falling back to the
// error disambiguation rules when T does not fit.
func Fetch[T any](ctx context.Context, c *Client, call Call) (T, error) {
	resp, err := c.Do(ctx, call)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := Decode[T](resp)
	if err != nil {
		c.noteFailure(call, err)
	}
	return v, err
}

// Exec performs a call whose only outcome is its status code. Statuses in
// extraOK count as success alongside 2xx.
func (c *Client) Exec(ctx context.Context, call Call, extraOK ...int) error {
	resp, err := c.Do(ctx, call)
	if err != nil {
		return err
	}
	if err := resp.Check(extraOK...); err != nil {
		c.noteFailure(call, err)
		return err
	}
	return nil
}

// noteFailure logs and counts a classified failure.
func (c *Client) noteFailure(call Call, err error) {
	c.metrics.observeError(err)
	c.logger.Warn("podman call failed",
		"method", call.Method,
		"path", call.Path,
		"error", err,
	)
}
