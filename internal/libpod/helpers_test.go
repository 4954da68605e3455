// ABOUTME: Test helpers for the libpod bindings
// ABOUTME: Serves a ServeMux on a Unix socket and builds a Service pointed at it

package libpod

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2389/podman-client/internal/podman"
)

const prefix = "/" + podman.DefaultAPIVersion

func newTestService(t *testing.T, mux *http.ServeMux) *Service {
	t.Helper()

	dir, err := os.MkdirTemp("", "lp")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	socketPath := filepath.Join(dir, "podman.sock")
	ln, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(mux)
	srv.Listener.Close()
	srv.Listener = ln
	srv.Start()
	t.Cleanup(srv.Close)

	client := podman.New(socketPath)
	t.Cleanup(client.Close)
	return New(client)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

const notFound = `{"cause":"no such container","message":"no such container","response":404}`
