package model

import (
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// Count wraps an integer count with a lossless json conversion:
// the hand-maintained release files carry counts both as numbers
// and as number strings.
type Count int64

// MarshalJSON implements json.Marshaller
func (c Count) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(int64(c))
}

// UnmarshalJSON implements json.Unmarshaller
func (c *Count) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := jsoniter.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*c = Count(int64(v))
	case string:
		res, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", v, err)
		}
		*c = Count(res)
	default:
		return fmt.Errorf("invalid count: expected number or string, got %T", raw)
	}
	return nil
}

// ReleaseManifest is the DID file for a data release: a mapping from
// container name to the expected number of datasets in that container.
type ReleaseManifest map[string]Count

// UnmarshalManifest reads a release manifest from a JSON document
func UnmarshalManifest(r io.Reader) (ReleaseManifest, error) {
	var m ReleaseManifest
	if err := jsoniter.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("malformed release manifest: %w", err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("empty release manifest")
	}
	return m, nil
}

// Has tells whether a container name is part of the release.
// Container keys may be stored fully qualified ("scope:name") or bare.
func (m ReleaseManifest) Has(name string) bool {
	if _, ok := m[name]; ok {
		return true
	}
	for key := range m {
		if did, err := ParseDID(key); err == nil && did.Name == name {
			return true
		}
	}
	return false
}
