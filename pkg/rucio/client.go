// Package rucio implements a minimal REST client for the Rucio data
// management service, covering the calls the curation tools need:
// rules, DIDs, metadata and replicas.
package rucio

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/errors"
	"github.com/lsst-dm/curation-tools/pkg/rucio/status"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const (
	authTokenHeader = "X-Rucio-Auth-Token"

	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "curation-tools"

	// randomized backoff window between retries of transient failures
	minBackoff = 2 * time.Second
	maxBackoff = 10 * time.Second
)

// Client talks to the data management service over its REST API.
//
// All calls take a context first and return typed results. The client
// is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	account    string
	user       string
	pass       string
	maxRetries int
	userAgent  string
	l          *zap.Logger
	http       *http.Client

	tokenMu sync.Mutex
	token   string
}

// New builds a Client for the service at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid service URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid service URL %q: missing scheme or host", baseURL)
	}
	c := &Client{
		baseURL:   u,
		userAgent: defaultUserAgent,
		l:         zap.NewNop(),
		http:      &http.Client{Timeout: defaultTimeout},
	}
	for _, apply := range opts {
		apply(c)
	}
	return c, nil
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, part := range parts {
		escaped = append(escaped, url.PathEscape(part))
	}
	// paths are pre-escaped: DID names legitimately contain slashes
	return strings.TrimSuffix(c.baseURL.String(), "/") + "/" + strings.Join(escaped, "/")
}

// authenticate exchanges the userpass credentials for an auth token
func (c *Client) authenticate(ctx context.Context) error {
	if c.user == "" {
		return status.ErrUnauthorized.WrapMessage(nil, "no token and no credentials configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("auth", "userpass"), http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("X-Rucio-Account", c.account)
	req.Header.Set("X-Rucio-Username", c.user)
	req.Header.Set("X-Rucio-Password", c.pass)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return status.ErrUnauthorized.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return status.ErrUnauthorized.Wrap(newAPIError(resp, body))
	}
	token := resp.Header.Get(authTokenHeader)
	if token == "" {
		return status.ErrUnauthorized.WrapMessage(nil, "no token returned by auth endpoint")
	}
	c.token = token
	c.l.Debug("authenticated with service", zap.String("account", c.account))
	return nil
}

func (c *Client) authToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if c.token == "" {
		if err := c.authenticate(ctx); err != nil {
			return "", err
		}
	}
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.tokenMu.Lock()
	c.token = ""
	c.tokenMu.Unlock()
}

// do performs one request with auth headers. On a 401 response the
// token is refreshed once and the request replayed.
func (c *Client) do(ctx context.Context, method, endpoint string, requestBody interface{}) (*http.Response, error) {
	var payload []byte
	if requestBody != nil {
		var err error
		payload, err = jsoniter.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
	}

	refreshed := false
	for {
		token, err := c.authToken(ctx)
		if err != nil {
			return nil, err
		}

		var body io.Reader = http.NoBody
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set(authTokenHeader, token)
		req.Header.Set("User-Agent", c.userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, status.ErrAPI.Wrap(err)
		}
		if resp.StatusCode == http.StatusUnauthorized && !refreshed {
			_ = resp.Body.Close()
			c.invalidateToken()
			refreshed = true
			continue
		}
		return resp, nil
	}
}

// call performs a request and decodes a JSON response body into out
// (when out is not nil)
func (c *Client) call(ctx context.Context, method, endpoint string, requestBody, out interface{}) error {
	resp, err := c.do(ctx, method, endpoint, requestBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return status.ErrAPI.Wrap(err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp, body)
	}
	if out != nil && len(body) > 0 {
		if err := jsoniter.Unmarshal(body, out); err != nil {
			return status.ErrAPI.WrapMessage(err, "decoding response from "+endpoint)
		}
	}
	return nil
}

// stream performs a request against a newline-delimited JSON endpoint
// and applies a function to every decoded line.
func (c *Client) stream(ctx context.Context, method, endpoint string, requestBody interface{}, apply func([]byte) error) error {
	resp, err := c.do(ctx, method, endpoint, requestBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return newAPIError(resp, body)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := apply(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return status.ErrAPI.WrapMessage(err, "reading stream from "+endpoint)
	}
	return nil
}

// callRetry replays a failed call on transient failures, with a
// randomized pause between attempts
func (c *Client) callRetry(ctx context.Context, method, endpoint string, requestBody, out interface{}) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = c.call(ctx, method, endpoint, requestBody, out)
		if err == nil || attempt >= c.maxRetries || !retriable(err) {
			return err
		}
		c.l.Warn("transient service failure, retrying",
			zap.String("endpoint", endpoint),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		pause := minBackoff + time.Duration(rand.Int63n(int64(maxBackoff-minBackoff))) // #nosec
		select {
		case <-time.After(pause):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func asError(err error, target **Error) bool {
	return errors.As(err, target)
}
