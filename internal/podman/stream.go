// ABOUTME: Incremental decoding of streamed podman response bodies
// ABOUTME: JSON value, text line and raw chunk streams gated on the response status

package podman

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"iter"
	"net/http"
	"strings"
	"unicode/utf8"
)

// chunkSize bounds a single item of a ChunkStream.
const chunkSize = 32 * 1024

// StreamState indicates where a Stream is in its lifecycle.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // At least one item delivered.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned a terminal error.
	StreamStateClosed                       // Close() called before a terminal state.
)

func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream is a pull-based sequence of items decoded from one response body.
//
// Next returns items in the order their framing completed on the wire, then
// io.EOF. A failure is returned once as a terminal error; later calls return
// io.EOF. A stream whose call failed (transport error or non-2xx status)
// yields exactly one error and no items. Close must be called if the stream
// is abandoned early; it releases the connection. Streams are not restartable.
type Stream[T any] struct {
	mode    string
	status  int
	header  http.Header
	body    io.ReadCloser
	next    func() (T, error)
	pending error
	err     error
	state   StreamState
	metrics *Metrics
}

// JSONStream performs call and decodes the body as a sequence of JSON values.
// Used for pull progress, stats ticks, streamed top output and events.
func JSONStream[T any](ctx context.Context, c *Client, call Call) *Stream[T] {
	return openStream(ctx, c, call, "json", jsonFrames[T])
}

// LineStream performs call and yields the body line by line. Used for logs.
func LineStream(ctx context.Context, c *Client, call Call) *Stream[string] {
	return openStream(ctx, c, call, "lines", lineFrames)
}

// ChunkStream performs call and yields the body as opaque byte chunks. Used
// for exports and checkpoint archives.
func ChunkStream(ctx context.Context, c *Client, call Call) *Stream[[]byte] {
	return openStream(ctx, c, call, "chunks", chunkFrames)
}

// FailedStream returns a stream that yields err once and then io.EOF. It is
// for calls that fail before anything is sent, such as parameter encoding.
func FailedStream[T any](err error) *Stream[T] {
	return &Stream[T]{mode: "failed", pending: err}
}

func openStream[T any](ctx context.Context, c *Client, call Call, mode string, frames func(*readTracker) func() (T, error)) *Stream[T] {
	s := &Stream[T]{mode: mode, metrics: c.metrics}

	raw, err := c.send(ctx, call)
	if err != nil {
		c.metrics.observeError(err)
		s.pending = err
		return s
	}
	s.status = raw.status
	s.header = raw.header

	if !raw.success() {
		resp, err := raw.buffer()
		if err != nil {
			s.pending = err
		} else {
			s.pending = Disambiguate(resp)
		}
		c.noteFailure(call, s.pending)
		return s
	}

	s.body = raw.body
	s.next = frames(&readTracker{r: raw.body})
	return s
}

// Next returns the next item, io.EOF at the end, or a terminal error.
func (s *Stream[T]) Next() (T, error) {
	var zero T

	switch s.state {
	case StreamStateClosed:
		return zero, ErrStreamClosed
	case StreamStateComplete, StreamStateError:
		return zero, io.EOF
	}

	if s.pending != nil {
		s.fail(s.pending)
		return zero, s.pending
	}

	v, err := s.next()
	if err == io.EOF {
		s.state = StreamStateComplete
		s.release()
		return zero, io.EOF
	}
	if err != nil {
		s.metrics.observeError(err)
		s.fail(err)
		return zero, err
	}

	s.state = StreamStateStreaming
	s.metrics.observeStreamItem(s.mode)
	return v, nil
}

// All adapts the stream to a range-over-func sequence. The terminal error,
// if any, is yielded as the last pair. Breaking out of the loop closes the
// stream.
func (s *Stream[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer s.Close()
		for {
			v, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains the stream into a slice.
func (s *Stream[T]) Collect() ([]T, error) {
	var items []T
	for v, err := range s.All() {
		if err != nil {
			return items, err
		}
		items = append(items, v)
	}
	return items, nil
}

// Err returns the terminal error, if one was delivered.
func (s *Stream[T]) Err() error {
	return s.err
}

// State returns the current StreamState.
func (s *Stream[T]) State() StreamState {
	return s.state
}

// StatusCode returns the response status, or 0 when no response arrived.
func (s *Stream[T]) StatusCode() int {
	return s.status
}

// Header returns the response headers, or nil when no response arrived.
func (s *Stream[T]) Header() http.Header {
	return s.header
}

// Close releases the connection. It is safe to call more than once.
func (s *Stream[T]) Close() error {
	if s.state == StreamStateNew || s.state == StreamStateStreaming {
		s.state = StreamStateClosed
	}
	return s.release()
}

func (s *Stream[T]) fail(err error) {
	s.err = err
	s.state = StreamStateError
	s.release()
}

func (s *Stream[T]) release() error {
	if s.body == nil {
		return nil
	}
	err := s.body.Close()
	s.body = nil
	return err
}

// readTracker remembers the first read failure so decoders can tell a
// dropped connection apart from malformed content.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

func (t *readTracker) readError() error {
	if t.err == nil {
		return nil
	}
	return &TransportError{Op: "read", Err: t.err}
}

func jsonFrames[T any](t *readTracker) func() (T, error) {
	dec := json.NewDecoder(t)
	return func() (T, error) {
		var v T
		err := dec.Decode(&v)
		if err == nil {
			return v, nil
		}
		if rerr := t.readError(); rerr != nil {
			return v, rerr
		}
		if err == io.EOF {
			return v, io.EOF
		}
		return v, codecError(err)
	}
}

func lineFrames(t *readTracker) func() (string, error) {
	br := bufio.NewReader(t)
	return func() (string, error) {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", t.readError()
		}
		if err == io.EOF && line == "" {
			return "", io.EOF
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if !utf8.ValidString(line) {
			return "", &CodecError{Err: ErrInvalidUTF8}
		}
		return line, nil
	}
}

func chunkFrames(t *readTracker) func() ([]byte, error) {
	buf := make([]byte, chunkSize)
	return func() ([]byte, error) {
		for {
			if rerr := t.readError(); rerr != nil {
				return nil, rerr
			}
			n, err := t.Read(buf)
			if n > 0 {
				// A read error arriving with data surfaces on the next call.
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				return chunk, nil
			}
			if err == io.EOF {
				return nil, io.EOF
			}
			if err != nil {
				return nil, t.readError()
			}
		}
	}
}
