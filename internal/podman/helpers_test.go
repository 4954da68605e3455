// ABOUTME: Test helpers for the podman package
// ABOUTME: Serves an httptest handler on a Unix socket and points a Client at it

package podman

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// shortTempDir keeps socket paths under the sun_path length limit, which
// t.TempDir paths for long test names can exceed.
func shortTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "pm")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// newTestDaemon starts handler on a fresh Unix socket and returns a client for it.
func newTestDaemon(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()

	socketPath := filepath.Join(shortTempDir(t), "podman.sock")
	ln, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(handler)
	srv.Listener.Close()
	srv.Listener = ln
	srv.Start()
	t.Cleanup(srv.Close)

	client := New(socketPath, opts...)
	t.Cleanup(client.Close)
	return client
}

// respond writes a fixed status and body.
func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// streamed writes each frame and flushes it separately.
func streamed(status int, frames ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		flusher, _ := w.(http.Flusher)
		for _, f := range frames {
			_, _ = w.Write([]byte(f))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
