package g2b

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/me/narabid/pkg/model"
)

// DefaultBaseURL is the production data.go.kr procurement API root.
const DefaultBaseURL = "https://apis.data.go.kr/1230000"

// StatusTransportFailure is the synthetic status reported when no HTTP
// response was received (timeout, DNS, connection reset).
const StatusTransportFailure = 999

// DefaultTimeout bounds each individual upstream call.
const DefaultTimeout = 12 * time.Second

const (
	maxBodyBytes    = 10 * 1024 * 1024
	maxDetailBytes  = 300
	userAgent       = "narabid/1.0 (+procurement aggregation proxy)"
	acceptMediaType = "application/json, text/plain;q=0.5, */*;q=0.1"
)

// UpstreamError describes a failed upstream page call. Format is set when a
// response arrived but could not be decoded as JSON.
type UpstreamError struct {
	Status int
	URL    string // credential redacted
	Body   string // truncated
	Format bool
	Err    error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Format:
		return fmt.Sprintf("upstream returned non-JSON body (HTTP %d)", e.Status)
	case e.Status == StatusTransportFailure:
		return fmt.Sprintf("upstream unreachable: %v", e.Err)
	default:
		return fmt.Sprintf("upstream HTTP %d", e.Status)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// CallRecorder receives one entry per upstream call.
type CallRecorder interface {
	RecordCall(ctx context.Context, entry *model.FetchLogEntry) error
}

// ClientConfig holds upstream service configuration.
type ClientConfig struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration
}

// DefaultClientConfig returns configuration pointing to the production endpoint.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Client fetches procurement pages from the upstream open-data service.
type Client struct {
	baseURL    string
	serviceKey string
	timeout    time.Duration
	http       *http.Client
	recorder   CallRecorder
	logger     *slog.Logger
}

// Option configures optional Client dependencies.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRecorder attaches a recorder notified of every upstream call.
func WithRecorder(r CallRecorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// NewClient creates a client for the configured base URL.
func NewClient(cfg ClientConfig, logger *slog.Logger, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    cfg.BaseURL,
		serviceKey: cfg.ServiceKey,
		timeout:    cfg.Timeout,
		http:       &http.Client{},
		logger:     logger.With("component", "g2b"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchResult holds every envelope retrieved by FetchPages.
type FetchResult struct {
	Envelopes    []any
	TotalCount   int
	PagesFetched int
	FirstURL     string // credential redacted
}

// PagesToFetch decides how many pages to request given the first page's
// total-count hint. An unknown count (<= 0) spends the whole budget.
func PagesToFetch(totalCount, rowsPerPage, startPage, maxPages int) int {
	if totalCount <= 0 || rowsPerPage <= 0 {
		return maxPages
	}
	totalPages := (totalCount + rowsPerPage - 1) / rowsPerPage
	remaining := totalPages - (startPage - 1)
	n := min(maxPages, remaining)
	if n < 1 {
		n = 1
	}
	return n
}

// FetchPages retrieves the first page, sizes the page budget from its
// total-count hint and fetches the remaining pages one after another. Any
// failed page aborts the whole call; no partial result is returned.
func (c *Client) FetchPages(ctx context.Context, req PageRequest, maxPages int) (*FetchResult, error) {
	if c.serviceKey == "" {
		return nil, ErrMissingCredential
	}

	first, firstURL, err := c.fetchPage(ctx, req)
	if err != nil {
		return nil, err
	}

	total := TotalCount(first)
	pages := PagesToFetch(total, req.NumOfRows, req.PageNo, maxPages)
	c.logger.Debug("page plan", "kind", req.Kind, "total_count", total, "pages", pages)

	result := &FetchResult{
		Envelopes:    []any{first},
		TotalCount:   total,
		PagesFetched: 1,
		FirstURL:     firstURL,
	}

	startPage := req.PageNo
	for p := startPage + 1; p < startPage+pages; p++ {
		next := req
		next.PageNo = p
		env, _, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		result.Envelopes = append(result.Envelopes, env)
		result.PagesFetched++
	}
	return result, nil
}

// fetchPage performs one bounded-time GET and decodes the body.
func (c *Client) fetchPage(ctx context.Context, req PageRequest) (any, string, error) {
	rawURL, err := BuildURL(c.baseURL, req, c.serviceKey)
	if err != nil {
		return nil, "", err
	}
	redacted := RedactURL(rawURL)

	start := time.Now()
	env, status, err := c.get(ctx, rawURL, redacted)
	elapsed := time.Since(start)

	entry := &model.FetchLogEntry{
		Kind:       req.Kind,
		PageNo:     req.PageNo,
		URL:        redacted,
		Status:     status,
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  start.UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
		c.logger.Warn("upstream call failed", "kind", req.Kind, "page", req.PageNo, "status", status, "error", err)
	} else {
		entry.Items = len(ExtractItems(env))
		c.logger.Debug("upstream call", "kind", req.Kind, "page", req.PageNo, "status", status, "items", entry.Items, "duration", elapsed.String())
	}
	c.record(ctx, entry)

	if err != nil {
		return nil, redacted, err
	}
	return env, redacted, nil
}

func (c *Client) get(ctx context.Context, rawURL, redacted string) (any, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, StatusTransportFailure, &UpstreamError{Status: StatusTransportFailure, URL: redacted, Err: err}
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", acceptMediaType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redacted
		}
		return nil, StatusTransportFailure, &UpstreamError{Status: StatusTransportFailure, URL: redacted, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, StatusTransportFailure, &UpstreamError{Status: StatusTransportFailure, URL: redacted, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, &UpstreamError{Status: resp.StatusCode, URL: redacted, Body: truncate(body)}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var env any
	if err := dec.Decode(&env); err != nil {
		return nil, resp.StatusCode, &UpstreamError{Status: resp.StatusCode, URL: redacted, Body: truncate(body), Format: true, Err: err}
	}
	return env, resp.StatusCode, nil
}

func (c *Client) record(ctx context.Context, entry *model.FetchLogEntry) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordCall(ctx, entry); err != nil {
		c.logger.Warn("record upstream call", "error", err)
	}
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxDetailBytes {
		return s
	}
	// Cut on a rune boundary.
	cut := maxDetailBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
