// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed is a rate-limited, caching client for the NCBI PubMed
// E-utilities API. All outbound calls go through a single request path that
// spaces requests at least MinInterval apart, caches successful response
// bodies for CacheTTL keyed by a fingerprint of the effective parameters,
// and surfaces failures as typed errors without retrying.
package pubmed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/askalan/pubnote/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	esearchURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
	elinkURL   = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/elink.fcgi"
)

const (
	toolName          = "pubnote"
	defaultMaxResults = 10
	defaultCacheTTL   = 24 * time.Hour

	// Three requests per second, the NCBI limit without an API key.
	defaultMinInterval = 340 * time.Millisecond
)

// cacheEntry is a stored response body with its store time. Entries expire
// lazily on read; nothing evicts them.
type cacheEntry struct {
	body     []byte
	storedAt time.Time
}

// Client mediates all calls to the E-utilities API for one logical consumer.
// It is safe for concurrent use. The rate gate is per-instance, so multiple
// independent clients in one process do not falsely rate-limit each other.
type Client struct {
	httpc       *http.Client
	email       string
	apiKey      string
	userAgent   string
	maxResults  int
	expanded    bool
	cacheTTL    time.Duration
	minInterval time.Duration

	// gateMu serializes access to nextSend. Each outbound call reserves the
	// next send slot under the lock and sleeps outside it, so concurrent
	// callers never both observe a stale "elapsed enough" reading.
	gateMu   sync.Mutex
	nextSend time.Time

	// cacheMu guards the response cache. Two callers that miss the same
	// fingerprint concurrently may both issue the request; the second store
	// wins. That duplicate is accepted rather than deduplicated.
	cacheMu sync.RWMutex
	cache   map[string]cacheEntry

	// now is replaceable in tests.
	now func() time.Time
}

// NewClient builds a Client from cfg. The contact email is required by NCBI
// usage policy and is attached to every request; an API key, when present,
// raises the allowed request rate.
func NewClient(cfg types.PubmedConfig, httpc *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.Email) == "" {
		return nil, &ValidationError{Field: "email", Reason: "a contact email is required for E-utilities requests"}
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		httpc:       httpc,
		email:       strings.TrimSpace(cfg.Email),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		userAgent:   cfg.UserAgent,
		maxResults:  cfg.MaxResults,
		expanded:    cfg.Expanded,
		cacheTTL:    cfg.CacheTTL,
		minInterval: cfg.MinInterval,
		cache:       make(map[string]cacheEntry),
		now:         time.Now,
	}
	if c.maxResults <= 0 {
		c.maxResults = defaultMaxResults
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = defaultCacheTTL
	}
	if c.minInterval <= 0 {
		c.minInterval = defaultMinInterval
	}
	return c, nil
}

// Search runs an esearch query built from req, fetches the matching records,
// and returns them in upstream order. An invalid request fails with a
// ValidationError before any network call; upstream failures surface as
// UpstreamError and are never cached.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]Article, error) {
	term, err := req.Term()
	if err != nil {
		return nil, err
	}

	max := req.MaxResults
	if max <= 0 {
		max = c.maxResults
	}

	params := url.Values{
		"db":         {"pubmed"},
		"term":       {term},
		"retmax":     {strconv.Itoa(max)},
		"sort":       {req.SortParam()},
		"usehistory": {"y"},
	}

	body, err := c.do(ctx, "esearch", esearchURL, params)
	if err != nil {
		return nil, err
	}

	ids, err := parseIDs(body)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return c.fetchDetails(ctx, ids)
}

// fetchDetails retrieves full records for the given PMIDs via efetch.
func (c *Client) fetchDetails(ctx context.Context, pmids []string) ([]Article, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
	}

	body, err := c.do(ctx, "efetch", efetchURL, params)
	if err != nil {
		return nil, err
	}
	return parseArticles(body)
}

// do issues one E-utilities request through the cache and rate gate. It fills
// the policy parameters (tool, email, api_key), checks the cache, waits for
// the rate-limit slot, performs the GET, and caches the body on success.
func (c *Client) do(ctx context.Context, endpoint, baseURL string, params url.Values) ([]byte, error) {
	params.Set("tool", toolName)
	params.Set("email", c.email)
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	key := fingerprint(baseURL, params)
	if body, ok := c.cached(key); ok {
		return body, nil
	}

	if err := c.waitTurn(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Err: fmt.Errorf("reading response body: %w", err)}
	}

	c.cacheMu.Lock()
	c.cache[key] = cacheEntry{body: body, storedAt: c.now()}
	c.cacheMu.Unlock()

	return body, nil
}

// cached returns the stored body for key if it exists and has not expired.
// Expired entries are treated as misses; expiry is lazy, nothing sweeps them.
func (c *Client) cached(key string) ([]byte, bool) {
	c.cacheMu.RLock()
	entry, ok := c.cache[key]
	c.cacheMu.RUnlock()
	if !ok || c.now().Sub(entry.storedAt) > c.cacheTTL {
		return nil, false
	}
	return entry.body, true
}

// waitTurn reserves this caller's send slot and sleeps until it arrives.
// Slots are handed out under the gate lock at least minInterval apart, so
// outbound requests from this instance are spaced correctly regardless of
// caller concurrency. The wait itself happens outside the lock and respects
// context cancellation.
func (c *Client) waitTurn(ctx context.Context) error {
	c.gateMu.Lock()
	now := time.Now()
	sendAt := c.nextSend
	if sendAt.Before(now) {
		sendAt = now
	}
	c.nextSend = sendAt.Add(c.minInterval)
	c.gateMu.Unlock()

	wait := time.Until(sendAt)
	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// fingerprint derives the cache key for a request: a pure, order-independent
// function of the endpoint and the effective (post-default-fill) parameter
// set. Keys are sorted and values trimmed before hashing, so two requests
// that differ only in parameter order or surrounding whitespace collide.
func fingerprint(baseURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := xxhash.New()
	h.WriteString(baseURL)
	for _, k := range keys {
		for _, v := range params[k] {
			h.WriteString("\x00" + k + "=" + strings.TrimSpace(v))
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
