package rucio

import (
	"context"
	"net/http"

	"github.com/lsst-dm/curation-tools/pkg/model"
	jsoniter "github.com/json-iterator/go"
)

// AddReplicas registers file replicas at an RSE
func (c *Client) AddReplicas(ctx context.Context, rse string, files model.FileEntries) error {
	body := struct {
		RSE   string            `json:"rse"`
		Files model.FileEntries `json:"files"`
	}{RSE: rse, Files: files}
	return c.callRetry(ctx, http.MethodPost, c.endpoint("replicas")+"/", body, nil)
}

// ListReplicas returns the names of the given DIDs which already have
// a replica matching the RSE expression
func (c *Client) ListReplicas(ctx context.Context, dids model.DIDs, rseExpression string) (map[string]struct{}, error) {
	body := struct {
		DIDs          model.DIDs `json:"dids"`
		RSEExpression string     `json:"rse_expression,omitempty"`
	}{DIDs: dids, RSEExpression: rseExpression}

	present := make(map[string]struct{}, len(dids))
	err := c.stream(ctx, http.MethodPost, c.endpoint("replicas", "list"), body, func(line []byte) error {
		var replica struct {
			Name string `json:"name"`
		}
		if err := jsoniter.Unmarshal(line, &replica); err != nil {
			return err
		}
		if replica.Name != "" {
			present[replica.Name] = struct{}{}
		}
		return nil
	})
	return present, err
}
