package rucio

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures the rucio client
type Option func(*Client)

// WithAccount sets the service account the client acts as
func WithAccount(account string) Option {
	return func(c *Client) {
		c.account = account
	}
}

// WithToken sets a pre-acquired auth token, skipping the userpass exchange
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithUserPass sets credentials for the userpass auth exchange
func WithUserPass(user, pass string) Option {
	return func(c *Client) {
		c.user = user
		c.pass = pass
	}
}

// WithTimeout overrides the default request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithLogger sets a logger for the client. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.l = l
		}
	}
}

// WithHTTPClient overrides the underlying http client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRetry sets the maximum number of replays of a call upon
// transient failures. The default is no retry.
func WithRetry(max int) Option {
	return func(c *Client) {
		if max >= 0 {
			c.maxRetries = max
		}
	}
}

// WithUserAgent overrides the User-Agent header presented to the service
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent != "" {
			c.userAgent = agent
		}
	}
}
