// ABOUTME: Tests for the podman error taxonomy
// ABOUTME: Kind classification, status sentinels and unwrapping through fmt.Errorf chains

package podman

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{&TransportError{Op: "dial", Err: io.EOF}, KindTransport},
		{&CodecError{Err: ErrInvalidUTF8}, KindCodec},
		{&DaemonError{Cause: "c", Message: "m", ResponseCode: 500}, KindDaemon},
		{&RequestError{Message: "bad", StatusCode: 400}, KindRequest},
		{fmt.Errorf("inspecting container: %w", &DaemonError{ResponseCode: 404}), KindDaemon},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			kind, ok := KindOf(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.want, kind)
		})
	}

	_, ok := KindOf(errors.New("unrelated"))
	assert.False(t, ok)
}

func TestStatusSentinels(t *testing.T) {
	notFound := fmt.Errorf("wrapped: %w", &DaemonError{ResponseCode: http.StatusNotFound, StatusCode: http.StatusOK})
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.NotErrorIs(t, notFound, ErrConflict)

	conflict := &RequestError{StatusCode: http.StatusConflict}
	assert.ErrorIs(t, conflict, ErrConflict)
	assert.NotErrorIs(t, conflict, ErrNotFound)
}

func TestTransportError_Unwrap(t *testing.T) {
	err := &TransportError{Op: "read", Err: io.ErrUnexpectedEOF}

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "read")
}

func TestCodecError_Message(t *testing.T) {
	withField := &CodecError{Field: "State.Status", Offset: 42, Err: errors.New("cannot unmarshal number")}
	assert.Equal(t, `podman decode: field "State.Status" (offset 42): cannot unmarshal number`, withField.Error())

	bare := &CodecError{Err: ErrInvalidUTF8}
	assert.Equal(t, "podman decode: body is not valid utf-8", bare.Error())
}

func TestDaemonError_Message(t *testing.T) {
	err := &DaemonError{Cause: "no such pod", Message: "pod web: no such pod", ResponseCode: 404}

	assert.Equal(t, "podman returned [404] cause: no such pod, message: pod web: no such pod", err.Error())
}
