package rucio

import (
	"context"
	"net/http"
)

// AccountInfo describes the account the client authenticated as
type AccountInfo struct {
	Account     string `json:"account"`
	AccountType string `json:"account_type,omitempty"`
	Email       string `json:"email,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Whoami resolves the identity of the authenticated account
func (c *Client) Whoami(ctx context.Context) (AccountInfo, error) {
	var info AccountInfo
	err := c.call(ctx, http.MethodGet, c.endpoint("accounts", "whoami"), nil, &info)
	return info, err
}
