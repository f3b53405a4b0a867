// Package providers contains the concrete search backend adapters. Every
// adapter implements search.Provider: it owns its own transport and parsing
// strategy, never fails the caller, and returns nil on any error.
package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

type options struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// Option configures a provider adapter.
type Option func(*options)

// WithHTTPClient overrides the HTTP client used for fetches.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(raw string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(raw, "/") }
}

// WithLogger sets the logger used for search outcomes.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// httpClient pairs a transport with the endpoint it targets.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func defaultOptions() options {
	return options{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}
}

// fetch performs a GET with browser-like headers and returns the body.
func fetch(ctx context.Context, client *http.Client, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

// stripHTML flattens an HTML fragment (e.g. an RSS description) to its text.
func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
