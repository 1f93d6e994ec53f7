package model

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// Meta is the checksum triple attached to a file DID by the data
// management service.
type Meta struct {
	Adler32 string `json:"adler32" yaml:"adler32"`
	MD5     string `json:"md5" yaml:"md5"`
	Bytes   int64  `json:"bytes" yaml:"bytes"`
}

// Equal compares two metadata triples
func (m Meta) Equal(other Meta) bool {
	return m.Adler32 == other.Adler32 && m.MD5 == other.MD5 && m.Bytes == other.Bytes
}

// DiffFields names the fields that differ from another triple
func (m Meta) DiffFields(other Meta) []string {
	var fields []string
	if m.Adler32 != other.Adler32 {
		fields = append(fields, "adler32")
	}
	if m.MD5 != other.MD5 {
		fields = append(fields, "md5")
	}
	if m.Bytes != other.Bytes {
		fields = append(fields, "bytes")
	}
	return fields
}

// Correction is a fixity correction record for one file DID: the
// corrected checksum triple plus the values currently registered
// by the service.
type Correction struct {
	Scope   string `json:"scope" yaml:"scope"`
	Name    string `json:"name" yaml:"name"`
	Adler32 string `json:"adler32" yaml:"adler32"`
	MD5     string `json:"md5" yaml:"md5"`
	Bytes   int64  `json:"bytes" yaml:"bytes"`
	Old     Meta   `json:"old" yaml:"old"`
}

// DID of the corrected file
func (c Correction) DID() DID {
	return DID{Scope: c.Scope, Name: c.Name}
}

// New returns the corrected metadata triple
func (c Correction) New() Meta {
	return Meta{Adler32: c.Adler32, MD5: c.MD5, Bytes: c.Bytes}
}

// Validate verifies a correction record names a valid DID and carries
// both triples
func (c Correction) Validate() error {
	if err := c.DID().Validate(); err != nil {
		return err
	}
	if c.Adler32 == "" || c.MD5 == "" {
		return fmt.Errorf("incomplete correction for %s: missing checksum", c.DID())
	}
	return nil
}

// Corrections is a list of fixity correction records
type Corrections []Correction

// UnmarshalCorrections reads fixity corrections from a JSON document
func UnmarshalCorrections(r io.Reader) (Corrections, error) {
	var c Corrections
	if err := jsoniter.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("malformed corrections file: %w", err)
	}
	return c, nil
}

// Marshal writes fixity corrections as an indented JSON document
func (c Corrections) Marshal(w io.Writer) error {
	enc := jsoniter.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}
