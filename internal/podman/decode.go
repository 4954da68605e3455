// ABOUTME: Decoding of buffered responses and error disambiguation
// ABOUTME: Tries the expected shape first, then consults the status code and the error envelope

package podman

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Decode interprets resp as a T.
//
// The expected shape is tried before the status code is consulted, because
// the daemon answers some calls (409 on delete, for one) with the success
// schema and a non-2xx status. The first attempt rejects unknown fields.
// When it fails, a body that is a complete error envelope is a DaemonError
// whatever the status, so a 2xx envelope is reported as a failure even if T
// could absorb it. Otherwise the body is decoded again tolerating unknown
// fields. A non-2xx body that still does not fit goes to Disambiguate; a 2xx
// body that does not fit is a CodecError.
func Decode[T any](resp *BufferedResponse) (T, error) {
	var zero T

	v, err := decodeStrict[T](resp.Body)
	if err == nil {
		return v, nil
	}
	if envelope, ok := parseEnvelope(resp); ok {
		return zero, envelope
	}

	if !resp.Success() {
		// Text and bare scalars are never a report.
		if isStructured(resp.Body) {
			if v, err := decodeLenient[T](resp.Body); err == nil {
				return v, nil
			}
		}
		return zero, Disambiguate(resp)
	}

	v, err = decodeLenient[T](resp.Body)
	if err != nil {
		return zero, codecError(err)
	}
	return v, nil
}

func isStructured(body []byte) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	doc := gjson.ParseBytes(body)
	return doc.IsObject() || doc.IsArray()
}

// Disambiguate turns a failed response into a DaemonError when the body is
// the daemon's error envelope, or a RequestError carrying the body text
// otherwise. A body that is not text at all yields a CodecError.
func Disambiguate(resp *BufferedResponse) error {
	if envelope, ok := parseEnvelope(resp); ok {
		return envelope
	}
	if !utf8.Valid(resp.Body) {
		return &CodecError{Err: ErrInvalidUTF8}
	}
	return &RequestError{
		Message:    string(resp.Body),
		StatusCode: resp.StatusCode,
	}
}

// parseEnvelope accepts only a JSON object with string cause, string message
// and numeric response fields. encoding/json alone would accept any object.
func parseEnvelope(resp *BufferedResponse) (*DaemonError, bool) {
	if !gjson.ValidBytes(resp.Body) {
		return nil, false
	}
	doc := gjson.ParseBytes(resp.Body)
	if !doc.IsObject() ||
		doc.Get("cause").Type != gjson.String ||
		doc.Get("message").Type != gjson.String ||
		doc.Get("response").Type != gjson.Number {
		return nil, false
	}

	envelope := &DaemonError{
		Cause:        doc.Get("cause").String(),
		Message:      doc.Get("message").String(),
		ResponseCode: int(doc.Get("response").Int()),
		StatusCode:   resp.StatusCode,
	}
	return envelope, true
}

// decodeStrict rejects unknown fields and trailing data.
func decodeStrict[T any](body []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return v, fmt.Errorf("trailing data after json value")
	}
	return v, nil
}

func decodeLenient[T any](body []byte) (T, error) {
	var v T
	err := json.Unmarshal(body, &v)
	return v, err
}

// codecError locates a json failure when the decoder reports where it happened.
func codecError(err error) *CodecError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &CodecError{Field: typeErr.Field, Offset: typeErr.Offset, Err: err}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &CodecError{Offset: syntaxErr.Offset, Err: err}
	}
	return &CodecError{Err: err}
}
