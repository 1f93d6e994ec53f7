package rucio

import (
	"context"
	"net/http"

	"github.com/lsst-dm/curation-tools/pkg/model"
	jsoniter "github.com/json-iterator/go"
)

// RuleRequest describes a replication rule to be created
type RuleRequest struct {
	DIDs          model.DIDs `json:"dids"`
	RSEExpression string     `json:"rse_expression"`
	Copies        int        `json:"copies"`
	Asynchronous  bool       `json:"asynchronous"`
	Comment       string     `json:"comment,omitempty"`
}

// RuleOptions carries the mutable attributes of an existing rule
type RuleOptions struct {
	Boost bool `json:"boost_rule,omitempty"`
}

// ListDIDRules returns the replication rules locking a dataset or
// container DID
func (c *Client) ListDIDRules(ctx context.Context, did model.DID) ([]model.Rule, error) {
	return c.streamRules(ctx, c.endpoint("dids", did.Scope, did.Name, "rules"))
}

// ListAssociatedRules returns the rules locking a file DID, including
// rules held on its parent datasets and containers
func (c *Client) ListAssociatedRules(ctx context.Context, did model.DID) ([]model.Rule, error) {
	return c.streamRules(ctx, c.endpoint("dids", did.Scope, did.Name, "associated_rules"))
}

func (c *Client) streamRules(ctx context.Context, endpoint string) ([]model.Rule, error) {
	var rules []model.Rule
	err := c.stream(ctx, http.MethodGet, endpoint, nil, func(line []byte) error {
		var rule model.Rule
		if err := jsoniter.Unmarshal(line, &rule); err != nil {
			return err
		}
		rules = append(rules, rule)
		return nil
	})
	return rules, err
}

// AddReplicationRule submits one replication rule request and returns
// the created rule identifiers
func (c *Client) AddReplicationRule(ctx context.Context, req RuleRequest) ([]string, error) {
	var ids []string
	err := c.call(ctx, http.MethodPost, c.endpoint("rules")+"/", req, &ids)
	return ids, err
}

// UpdateReplicationRule mutates an existing rule (e.g. re-boosting a
// stuck one)
func (c *Client) UpdateReplicationRule(ctx context.Context, id string, opts RuleOptions) error {
	body := struct {
		Options RuleOptions `json:"options"`
	}{Options: opts}
	return c.call(ctx, http.MethodPut, c.endpoint("rules", id), body, nil)
}

// DeleteReplicationRule removes a rule. With purge set, the replicas
// locked by the rule are deleted as soon as the rule goes.
func (c *Client) DeleteReplicationRule(ctx context.Context, id string, purge bool) error {
	body := struct {
		PurgeReplicas bool `json:"purge_replicas"`
	}{PurgeReplicas: purge}
	return c.call(ctx, http.MethodDelete, c.endpoint("rules", id), body, nil)
}
