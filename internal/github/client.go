// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/linkctl/internal/cacheutil"
	"github.com/staranto/linkctl/internal/differ"
)

const (
	// DefaultAPIHost is used when GH_API_HOST is not set.
	DefaultAPIHost = "https://api.github.com"
	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "linkctl"
	// DefaultCacheTTL is how long a response is served from cache.
	DefaultCacheTTL = time.Hour

	// cacheNamespace prefixes request URLs to form cache identifiers.
	cacheNamespace = "ghresponse."
)

// Client issues authenticated GET requests against the GitHub API. Responses
// are memoized in a cacheutil.Cache keyed by request URL.
type Client struct {
	apiHost   string
	token     string
	userAgent string
	cacheTTL  time.Duration
	http      *http.Client
	cache     *cacheutil.Cache
	sleep     func(context.Context, time.Duration) error
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithCacheTTL overrides DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) { c.cacheTTL = ttl }
}

// WithSleeper replaces the throttle sleep. Tests use it to record delays.
func WithSleeper(fn func(context.Context, time.Duration) error) ClientOption {
	return func(c *Client) { c.sleep = fn }
}

// NewClient returns a Client for apiHost (DefaultAPIHost when empty). A
// missing token is ErrMissingToken.
func NewClient(apiHost, token string, cache *cacheutil.Cache, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if apiHost == "" {
		apiHost = DefaultAPIHost
	}

	c := &Client{
		apiHost:   strings.TrimRight(apiHost, "/"),
		token:     token,
		userAgent: DefaultUserAgent,
		cacheTTL:  DefaultCacheTTL,
		http:      &http.Client{Timeout: 30 * time.Second}, //nolint:mnd
		cache:     cache,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL builds the request URL for path and query.
func (c *Client) URL(path string, query url.Values) string {
	u := c.apiHost + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Fetch returns the decoded document at path. A cached response younger than
// the cache TTL is used when available. Otherwise the request is made and,
// when it succeeds, the call sleeps for throttle before returning. Every
// failure is a *FetchError.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values, throttle time.Duration) (Record, error) {
	u := c.URL(path, query)

	data, err := c.cache.GetOrCompute(ctx, cacheNamespace+u, func(ctx context.Context) ([]byte, error) {
		return c.hit(ctx, u, throttle)
	}, c.cacheTTL)
	if err != nil {
		return Record{}, &FetchError{URL: u, Err: err}
	}

	record, err := ParseRecord(data)
	if err != nil {
		return Record{}, &FetchError{URL: u, Err: err}
	}
	return record, nil
}

// Repository fetches the repository resource for repo.
func (c *Client) Repository(ctx context.Context, repo Repo, throttle time.Duration) (Record, error) {
	return c.Fetch(ctx, repo.APIPath(), nil, throttle)
}

// hit performs the uncached request.
func (c *Client) hit(ctx context.Context, u string, throttle time.Duration) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	log.Debugf("GET %s", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if throttle > 0 {
		log.Debugf("throttling for %s", throttle)
		if err := c.sleep(ctx, throttle); err != nil {
			return nil, err
		}
	}

	return body, nil
}

// LogRefresh is a cacheutil refresh hook that logs which fields of a cached
// response changed upstream.
func LogRefresh(identifier string, previous, current []byte) {
	changes, err := differ.Summarize(previous, current)
	if err != nil {
		log.WithError(err).Debugf("could not diff refreshed %s", identifier)
		return
	}
	if len(changes) == 0 {
		return
	}
	log.WithField("changes", strings.Join(changes, "; ")).
		Debugf("upstream changed: %s", strings.TrimPrefix(identifier, cacheNamespace))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
