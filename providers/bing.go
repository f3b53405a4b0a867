package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pcrawfurd/metasearch/search"
)

const bingBaseURL = "https://www.bing.com"

// Bing searches via the Bing RSS endpoints for web and news results.
type Bing struct {
	http *httpClient
	log  zerolog.Logger
}

// NewBing creates the Bing adapter.
func NewBing(opts ...Option) *Bing {
	o := defaultOptions()
	o.baseURL = bingBaseURL
	for _, opt := range opts {
		opt(&o)
	}
	return &Bing{
		http: &httpClient{client: o.httpClient, baseURL: o.baseURL},
		log:  o.logger.With().Str("provider", "bing").Logger(),
	}
}

// Name implements search.Provider.
func (b *Bing) Name() string { return "bing" }

// Search implements search.Provider.
func (b *Bing) Search(ctx context.Context, query string, limit int, news bool) []search.Result {
	q := url.QueryEscape(query)
	var searchURL string
	if news {
		searchURL = fmt.Sprintf("%s/news/search?q=%s&format=rss", b.http.baseURL, q)
	} else {
		searchURL = fmt.Sprintf("%s/search?q=%s&format=rss", b.http.baseURL, q)
	}

	body, err := fetch(ctx, b.http.client, searchURL, nil)
	if err != nil {
		b.log.Error().Err(err).Msg("search failed")
		return nil
	}

	items, err := parseRSS(body)
	if err != nil {
		b.log.Error().Err(err).Msg("failed to parse results")
		return nil
	}

	var results []search.Result
	for _, item := range items {
		if len(results) >= limit {
			break
		}
		r := search.Result{
			Title:    strings.TrimSpace(item.Title),
			Link:     strings.TrimSpace(item.Link),
			Snippet:  stripHTML(item.Description),
			Provider: b.Name(),
		}
		if news {
			r.Date = strings.TrimSpace(item.PubDate)
			r.Source = strings.TrimSpace(item.Source)
		}
		results = append(results, r)
	}

	b.log.Info().Int("count", len(results)).Msg("search successful")
	return results
}
