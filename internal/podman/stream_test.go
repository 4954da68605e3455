// ABOUTME: Tests for JSON, line and chunk response streams
// ABOUTME: Verifies status gating, ordering, terminal errors and connection release

package podman

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progress struct {
	Stream string `json:"stream,omitempty"`
	Error  string `json:"error,omitempty"`
}

func TestJSONStream_YieldsItemsInOrder(t *testing.T) {
	client := newTestDaemon(t, streamed(http.StatusOK,
		`{"stream":"one"}`+"\n",
		`{"stream":"two"}`+"\n",
		`{"stream":"three"}`+"\n",
	))

	s := JSONStream[progress](context.Background(), client, Post("/libpod/images/pull"))
	defer s.Close()

	var got []string
	for {
		item, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, item.Stream)
	}

	assert.Equal(t, []string{"one", "two", "three"}, got)
	assert.Equal(t, StreamStateComplete, s.State())
	assert.Equal(t, http.StatusOK, s.StatusCode())
}

func TestJSONStream_ValuesSplitAcrossWrites(t *testing.T) {
	client := newTestDaemon(t, streamed(http.StatusOK,
		`{"stream":"fi`, `rst"}{"stream"`, `:"second"}`, "\n",
	))

	items, err := JSONStream[progress](context.Background(), client, Get("/libpod/events")).Collect()

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Stream)
	assert.Equal(t, "second", items[1].Stream)
}

func TestStreams_NonSuccessYieldsSingleError(t *testing.T) {
	envelope := `{"cause":"no such image","message":"image not known","response":500}`

	tests := []struct {
		name string
		open func(*Client) (int, []error)
	}{
		{"json", func(c *Client) (int, []error) {
			return drain(JSONStream[progress](context.Background(), c, Get("/x")))
		}},
		{"lines", func(c *Client) (int, []error) {
			return drain(LineStream(context.Background(), c, Get("/x")))
		}},
		{"chunks", func(c *Client) (int, []error) {
			return drain(ChunkStream(context.Background(), c, Get("/x")))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The body is itself a decodable item for every mode; none may leak through.
			client := newTestDaemon(t, respond(http.StatusInternalServerError, envelope))

			items, errs := tt.open(client)

			assert.Zero(t, items)
			require.Len(t, errs, 1)
			var de *DaemonError
			require.ErrorAs(t, errs[0], &de)
			assert.Equal(t, "no such image", de.Cause)
			assert.Equal(t, 500, de.ResponseCode)
		})
	}
}

// drain consumes s and reports how many data items and which errors it yielded.
func drain[T any](s *Stream[T]) (int, []error) {
	items := 0
	var errs []error
	for _, err := range s.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items++
	}
	return items, errs
}

func TestJSONStream_PlainTextFailure(t *testing.T) {
	client := newTestDaemon(t, respond(http.StatusMethodNotAllowed, "Method Not Allowed"))

	s := JSONStream[progress](context.Background(), client, Post("/libpod/events"))
	_, err := s.Next()

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Method Not Allowed", re.Message)
	assert.Equal(t, StreamStateError, s.State())

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestJSONStream_DecodeFailureEndsStream(t *testing.T) {
	client := newTestDaemon(t, streamed(http.StatusOK,
		`{"stream":"ok"}`+"\n",
		`{"stream":42}`+"\n",
		`{"stream":"never"}`+"\n",
	))

	items, err := JSONStream[progress](context.Background(), client, Get("/libpod/events")).Collect()

	require.Len(t, items, 1)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "stream", ce.Field)
}

func TestJSONStream_TruncatedValueIsCodecError(t *testing.T) {
	client := newTestDaemon(t, streamed(http.StatusOK, `{"stream":"ok"}`, `{"stream":`))

	items, err := JSONStream[progress](context.Background(), client, Get("/libpod/events")).Collect()

	require.Len(t, items, 1)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindCodec, kind)
}

func TestLineStream_SplitsLines(t *testing.T) {
	client := newTestDaemon(t, streamed(http.StatusOK, "first\nsec", "ond\r\n", "\nlast"))

	lines, err := LineStream(context.Background(), client, Get("/libpod/containers/web/logs")).Collect()

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "", "last"}, lines)
}

func TestLineStream_InvalidUTF8(t *testing.T) {
	client := newTestDaemon(t, streamed(http.StatusOK, "ok\n", "\xff\xfe\n"))

	lines, err := LineStream(context.Background(), client, Get("/libpod/containers/web/logs")).Collect()

	assert.Equal(t, []string{"ok"}, lines)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestChunkStream_ReassemblesBody(t *testing.T) {
	payload := bytes.Repeat([]byte("layer-data-"), 20000)
	client := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/x-tar")
		_, _ = w.Write(payload)
	}))

	s := ChunkStream(context.Background(), client, Get("/libpod/containers/web/export"))
	var buf bytes.Buffer
	for chunk, err := range s.All() {
		require.NoError(t, err)
		buf.Write(chunk)
	}

	assert.Equal(t, payload, buf.Bytes())
	assert.Equal(t, "application/x-tar", s.Header().Get("Content-Type"))
}

func TestChunkStream_DroppedConnectionIsTransportError(t *testing.T) {
	client := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial archive"))
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler)
	}))

	chunks, err := ChunkStream(context.Background(), client, Get("/libpod/images/alpine/get")).Collect()

	assert.Equal(t, "partial archive", string(bytes.Join(chunks, nil)))
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "read", te.Op)
}

func TestStream_DialFailureYieldsSingleError(t *testing.T) {
	client := New(filepath.Join(shortTempDir(t), "missing.sock"))

	items, errs := drain(LineStream(context.Background(), client, Get("/libpod/containers/web/logs")))

	assert.Zero(t, items)
	require.Len(t, errs, 1)
	var te *TransportError
	require.ErrorAs(t, errs[0], &te)
	assert.Equal(t, "dial", te.Op)
}

func TestStream_CloseReleasesConnection(t *testing.T) {
	handlerDone := make(chan struct{})
	client := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(handlerDone)
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		for {
			if _, err := w.Write([]byte(`{"stream":"tick"}` + "\n")); err != nil {
				return
			}
			flusher.Flush()
			select {
			case <-r.Context().Done():
				return
			default:
			}
		}
	}))

	s := JSONStream[progress](context.Background(), client, Get("/libpod/containers/stats"))
	item, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "tick", item.Stream)

	require.NoError(t, s.Close())
	assert.Equal(t, StreamStateClosed, s.State())

	_, err = s.Next()
	assert.ErrorIs(t, err, ErrStreamClosed)

	<-handlerDone
}

func TestStream_BreakFromAllCloses(t *testing.T) {
	client := newTestDaemon(t, streamed(http.StatusOK, strings.Repeat("line\n", 100)))

	s := LineStream(context.Background(), client, Get("/libpod/containers/web/logs"))
	seen := 0
	for _, err := range s.All() {
		require.NoError(t, err)
		seen++
		if seen == 3 {
			break
		}
	}

	assert.Equal(t, 3, seen)
	assert.Equal(t, StreamStateClosed, s.State())
}

func TestStream_ContextCancelStopsRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := newTestDaemon(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("first\n"))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))

	s := LineStream(ctx, client, Get("/libpod/containers/web/logs"))
	line, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	cancel()
	_, err = s.Next()
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "read", te.Op)
}

func TestFailedStream_YieldsErrorOnce(t *testing.T) {
	boom := &TransportError{Op: "encode", Err: ErrBodyConflict}
	s := FailedStream[progress](boom)

	_, err := s.Next()
	assert.Same(t, boom, err)
	assert.Equal(t, StreamStateError, s.State())
	assert.Same(t, boom, s.Err())

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, s.Close())
}
