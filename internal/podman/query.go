// ABOUTME: Query string encoding for typed call parameters
// ABOUTME: Struct tags via go-querystring plus the JSON filters format the daemon expects

package podman

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// Filters is the map[string][]string filter argument accepted by list, prune
// and events endpoints. It is sent as one JSON-encoded query value.
type Filters map[string][]string

// EncodeValues implements query.Encoder.
func (f Filters) EncodeValues(key string, v *url.Values) error {
	if len(f) == 0 {
		return nil
	}
	data, err := json.Marshal(map[string][]string(f))
	if err != nil {
		return fmt.Errorf("encoding filters: %w", err)
	}
	v.Set(key, string(data))
	return nil
}

// EncodeQuery serializes a parameter struct whose fields carry `url` tags.
// Slice fields become repeated keys, e.g. containers=a&containers=b.
func EncodeQuery(params any) (string, error) {
	if params == nil {
		return "", nil
	}
	values, err := query.Values(params)
	if err != nil {
		return "", &TransportError{Op: "encode", Err: fmt.Errorf("encoding query: %w", err)}
	}
	return values.Encode(), nil
}

// WithParams returns a copy of c with params encoded as its query string.
func (c Call) WithParams(params any) (Call, error) {
	q, err := EncodeQuery(params)
	if err != nil {
		return c, err
	}
	c.Query = q
	return c, nil
}
