package articles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	headerEmbeddingTokens = "X-Embedding-Tokens"
	maxErrorBody          = 64 << 10
)

// Client is the articles API entry point. Safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	obs       *observer
}

// New creates a Client for the API served at baseURL (e.g. http://localhost:8000).
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout, userAgent: "articles-go-sdk"}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("articles: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("articles: base url must be http(s), got %q", baseURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: u, http: hc, userAgent: cfg.userAgent, obs: obs}, nil
}

// List returns stored articles in creation order.
func (c *Client) List(ctx context.Context) (items []Article, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list", start, err) }()

	_, err = c.do(ctx, http.MethodGet, "/articles", nil, nil, &items)
	return items, err
}

// Get returns a single article.
func (c *Client) Get(ctx context.Context, id string) (a Article, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	_, err = c.do(ctx, http.MethodGet, articlePath(id), nil, nil, &a)
	return a, err
}

// Create stores a new article and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, in CreateInput) (a Article, err error) {
	start := time.Now()
	defer func() { c.obs.observe("create", start, err) }()

	_, err = c.do(ctx, http.MethodPost, "/articles", nil, in, &a)
	return a, err
}

// Update applies a partial update and returns the updated article.
func (c *Client) Update(ctx context.Context, id string, in UpdateInput) (a Article, err error) {
	start := time.Now()
	defer func() { c.obs.observe("update", start, err) }()

	_, err = c.do(ctx, http.MethodPut, articlePath(id), nil, in, &a)
	return a, err
}

// Delete removes an article.
func (c *Client) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	_, err = c.do(ctx, http.MethodDelete, articlePath(id), nil, nil, nil)
	return err
}

// Search returns up to limit articles ranked by semantic similarity to query.
// limit <= 0 uses the server default.
func (c *Client) Search(ctx context.Context, query string, limit int) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	q := url.Values{"query": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	hdr, err := c.do(ctx, http.MethodGet, "/articles/search", q, nil, &res.Items)
	if err != nil {
		return SearchResult{}, err
	}
	res.Tokens = tokensFrom(hdr)
	return res, nil
}

// Summarize generates, stores and returns a summary of the article content.
func (c *Client) Summarize(ctx context.Context, id string) (summary string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("summarize", start, err) }()

	var body summaryBody
	_, err = c.do(ctx, http.MethodPost, articlePath(id)+"/summarize", nil, nil, &body)
	return body.Summary, err
}

// Embed stores the article content in the vector index.
func (c *Client) Embed(ctx context.Context, id string) (res EmbedResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("embed", start, err) }()

	var body messageBody
	hdr, err := c.do(ctx, http.MethodPost, articlePath(id)+"/embed", nil, nil, &body)
	if err != nil {
		return EmbedResult{}, err
	}
	return EmbedResult{Message: body.Message, Tokens: tokensFrom(hdr)}, nil
}

// Health reports server health. A 503 still decodes into HealthStatus.
func (c *Client) Health(ctx context.Context) (hs HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	_, err = c.do(ctx, http.MethodGet, "/health", nil, nil, &hs)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable && hs.Status != "" {
		return hs, nil
	}
	return hs, err
}

func (c *Client) do(
	ctx context.Context, method, path string, query url.Values, in, out any,
) (http.Header, error) {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader = http.NoBody
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("articles: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("articles: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("articles: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.Header, decodeError(resp, out)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.Header, fmt.Errorf("articles: decode response: %w", err)
	}
	return resp.Header, nil
}

// decodeError builds an APIError. The health endpoint answers 503 with a regular body,
// which is decoded into out as well.
func decodeError(resp *http.Response, out any) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Code != "" {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Message
		return apiErr
	}

	if out != nil {
		_ = json.Unmarshal(raw, out)
	}
	apiErr.Code = "http_" + strconv.Itoa(resp.StatusCode)
	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}

func articlePath(id string) string {
	return "/articles/" + url.PathEscape(id)
}

func tokensFrom(h http.Header) int {
	n, _ := strconv.Atoi(h.Get(headerEmbeddingTokens))
	return n
}
