package model

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
)

// maxScopeLength is the scope length limit enforced by the data
// management service.
const maxScopeLength = 25

// DID is a data identifier, qualifying a file, dataset or container
// by scope and name.
type DID struct {
	Scope string `json:"scope" yaml:"scope"`
	Name  string `json:"name" yaml:"name"`
}

// ParseDID parses a fully qualified "scope:name" identifier
func ParseDID(did string) (DID, error) {
	parts := strings.SplitN(did, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return DID{}, fmt.Errorf("invalid DID: expected scope:name, got %q", did)
	}
	if strings.Contains(parts[1], ":") {
		return DID{}, fmt.Errorf("invalid DID: name %q contains a colon", parts[1])
	}
	d := DID{Scope: parts[0], Name: parts[1]}
	if err := d.Validate(); err != nil {
		return DID{}, err
	}
	return d, nil
}

func (d DID) String() string {
	return d.Scope + ":" + d.Name
}

// Validate verifies the scope and name obey the naming constraints of
// the data management service
func (d DID) Validate() error {
	if d.Scope == "" {
		return fmt.Errorf("empty field: DID scope is empty")
	}
	if d.Name == "" {
		return fmt.Errorf("empty field: DID name is empty")
	}
	if len(d.Scope) > maxScopeLength {
		return fmt.Errorf("invalid scope: %q exceeds %d characters", d.Scope, maxScopeLength)
	}
	for i, c := range d.Scope {
		if !unicode.IsDigit(c) && !unicode.IsLetter(c) && c != '.' && c != '_' && c != '-' {
			return fmt.Errorf("invalid scope: %q contains unsupported character %q",
				d.Scope, string([]rune(d.Scope)[i]))
		}
	}
	for i, c := range d.Name {
		if !unicode.IsPrint(c) || unicode.IsSpace(c) {
			return fmt.Errorf("invalid name: %q contains unsupported character %q",
				d.Name, string([]rune(d.Name)[i]))
		}
	}
	return nil
}

// DIDs is a sortable collection of data identifiers
type DIDs []DID

func (d DIDs) Len() int      { return len(d) }
func (d DIDs) Swap(i, j int) { d[i], d[j] = d[j], d[i] }
func (d DIDs) Less(i, j int) bool {
	if d[i].Scope != d[j].Scope {
		return d[i].Scope < d[j].Scope
	}
	return d[i].Name < d[j].Name
}

// UnmarshalDIDs reads a JSON array of fully qualified "scope:name"
// identifiers
func UnmarshalDIDs(r io.Reader) (DIDs, error) {
	var raw []string
	if err := jsoniter.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed DIDs file: %w", err)
	}
	dids := make(DIDs, 0, len(raw))
	for _, entry := range raw {
		did, err := ParseDID(entry)
		if err != nil {
			return nil, err
		}
		dids = append(dids, did)
	}
	return dids, nil
}
