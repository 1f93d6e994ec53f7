package model

import (
	"fmt"
	"io"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

// Flag wraps a boolean with a lossless json conversion: the documented
// IDAC files carry flags both as JSON booleans and as the strings
// "true" / "false".
type Flag bool

// MarshalJSON implements json.Marshaller
func (f Flag) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(bool(f))
}

// UnmarshalJSON implements json.Unmarshaller
func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := jsoniter.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*f = Flag(v)
	case string:
		switch v {
		case "true":
			*f = true
		case "false":
			*f = false
		default:
			return fmt.Errorf("invalid flag %q: expected true or false", v)
		}
	default:
		return fmt.Errorf("invalid flag: expected boolean or string, got %T", raw)
	}
	return nil
}

// IDACConfig is the release configuration for one IDAC: the target RSE
// and the containers selected for replication there.
type IDACConfig struct {
	RSE        string          `json:"rse" yaml:"rse"`
	Containers map[string]Flag `json:"containers" yaml:"containers"`
}

// UnmarshalIDACConfig reads an IDAC release configuration from a JSON document
func UnmarshalIDACConfig(r io.Reader) (IDACConfig, error) {
	var cfg IDACConfig
	if err := jsoniter.NewDecoder(r).Decode(&cfg); err != nil {
		return IDACConfig{}, fmt.Errorf("malformed IDAC configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration against the RSE passed on the
// command line and verifies every container parses as a DID.
func (c IDACConfig) Validate(rse string) error {
	if c.RSE == "" {
		return fmt.Errorf("empty field: IDAC configuration has no RSE")
	}
	if rse != "" && c.RSE != rse {
		return fmt.Errorf("RSE mismatch: configuration is for %q, requested %q", c.RSE, rse)
	}
	if len(c.Containers) == 0 {
		return fmt.Errorf("empty field: IDAC configuration has no containers")
	}
	for container := range c.Containers {
		if _, err := ParseDID(container); err != nil {
			return fmt.Errorf("invalid container: %w", err)
		}
	}
	return nil
}

// CrossCheck verifies that every container referenced by this
// configuration is a known container of the release manifest.
func (c IDACConfig) CrossCheck(manifest ReleaseManifest) error {
	for container := range c.Containers {
		did, err := ParseDID(container)
		if err != nil {
			return fmt.Errorf("invalid container: %w", err)
		}
		if !manifest.Has(did.Name) {
			return fmt.Errorf("unknown container: %s is not part of the release manifest", container)
		}
	}
	return nil
}

// Enabled returns the containers flagged for replication, as sorted DIDs
func (c IDACConfig) Enabled() DIDs {
	dids := make(DIDs, 0, len(c.Containers))
	for container, enabled := range c.Containers {
		if !bool(enabled) {
			continue
		}
		did, err := ParseDID(container)
		if err != nil {
			continue
		}
		dids = append(dids, did)
	}
	sort.Sort(dids)
	return dids
}

// Disabled returns the containers flagged out of the release, as sorted DIDs
func (c IDACConfig) Disabled() DIDs {
	dids := make(DIDs, 0, len(c.Containers))
	for container, enabled := range c.Containers {
		if bool(enabled) {
			continue
		}
		did, err := ParseDID(container)
		if err != nil {
			continue
		}
		dids = append(dids, did)
	}
	sort.Sort(dids)
	return dids
}
