package rucio

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/lsst-dm/curation-tools/pkg/model"
	jsoniter "github.com/json-iterator/go"
)

// DID types understood by the search endpoint
const (
	DIDTypeDataset   = "dataset"
	DIDTypeContainer = "container"
	DIDTypeFile      = "file"
)

// DatasetStatuses carries the status attributes set at dataset creation
type DatasetStatuses struct {
	Monotonic bool `json:"monotonic,omitempty"`
}

// ListDIDs searches a scope for DIDs matching a name pattern. The
// usual shell wildcard `*` is translated to the service convention.
func (c *Client) ListDIDs(ctx context.Context, scope, namePattern, didType string) ([]string, error) {
	endpoint := c.endpoint("dids", scope, "dids", "search")
	q := url.Values{}
	q.Set("name", strings.ReplaceAll(namePattern, "*", "%"))
	if didType != "" {
		q.Set("type", didType)
	}
	endpoint += "?" + q.Encode()

	var names []string
	err := c.stream(ctx, http.MethodGet, endpoint, nil, func(line []byte) error {
		var name string
		if err := jsoniter.Unmarshal(line, &name); err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	return names, err
}

// GetMetadata returns the checksum metadata of a file DID
func (c *Client) GetMetadata(ctx context.Context, did model.DID) (model.Meta, error) {
	var meta model.Meta
	err := c.call(ctx, http.MethodGet, c.endpoint("dids", did.Scope, did.Name, "meta"), nil, &meta)
	return meta, err
}

// SetMetadata sets a single metadata key on a DID
func (c *Client) SetMetadata(ctx context.Context, did model.DID, key string, value interface{}) error {
	body := struct {
		Value interface{} `json:"value"`
	}{Value: value}
	return c.call(ctx, http.MethodPost, c.endpoint("dids", did.Scope, did.Name, "meta", key), body, nil)
}

// SetMetadataBulk sets several metadata keys on a DID in one call
func (c *Client) SetMetadataBulk(ctx context.Context, did model.DID, meta map[string]interface{}) error {
	body := struct {
		Meta map[string]interface{} `json:"meta"`
	}{Meta: meta}
	return c.call(ctx, http.MethodPost, c.endpoint("dids", did.Scope, did.Name, "meta"), body, nil)
}

// AddDataset registers a new dataset DID at an RSE
func (c *Client) AddDataset(ctx context.Context, did model.DID, statuses DatasetStatuses, rse string) error {
	body := struct {
		Type     string          `json:"type"`
		Statuses DatasetStatuses `json:"statuses"`
		RSE      string          `json:"rse,omitempty"`
	}{Type: "DATASET", Statuses: statuses, RSE: rse}
	return c.call(ctx, http.MethodPost, c.endpoint("dids", did.Scope, did.Name), body, nil)
}

// AttachDIDs attaches file entries to a parent dataset
func (c *Client) AttachDIDs(ctx context.Context, parent model.DID, entries model.FileEntries, rse string) error {
	body := struct {
		DIDs model.FileEntries `json:"dids"`
		RSE  string            `json:"rse,omitempty"`
	}{DIDs: entries, RSE: rse}
	return c.callRetry(ctx, http.MethodPost, c.endpoint("dids", parent.Scope, parent.Name, "dids"), body, nil)
}

// ListContent returns the child DIDs attached to a dataset or container
func (c *Client) ListContent(ctx context.Context, did model.DID) (model.DIDs, error) {
	var children model.DIDs
	err := c.stream(ctx, http.MethodGet, c.endpoint("dids", did.Scope, did.Name, "dids"), nil, func(line []byte) error {
		var child model.DID
		if err := jsoniter.Unmarshal(line, &child); err != nil {
			return err
		}
		children = append(children, child)
		return nil
	})
	return children, err
}

// CloseDID closes a dataset or container so no more children may be attached
func (c *Client) CloseDID(ctx context.Context, did model.DID) error {
	body := struct {
		Open bool `json:"open"`
	}{Open: false}
	return c.call(ctx, http.MethodPut, c.endpoint("dids", did.Scope, did.Name, "status"), body, nil)
}
