package providers

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/pcrawfurd/metasearch/search"
)

const (
	googleWebBaseURL  = "https://www.google.com"
	googleNewsBaseURL = "https://news.google.com"
)

// Google searches the Google News RSS feed for news queries and scrapes the
// result page for web queries. The page scraping is best effort: Google
// changes its markup regularly, so extraction uses fallback selectors and
// simply yields fewer results when the shape moves again.
type Google struct {
	http     *httpClient
	newsBase string
	log      zerolog.Logger
}

// NewGoogle creates the Google adapter. WithBaseURL overrides both the web
// and the news endpoint.
func NewGoogle(opts ...Option) *Google {
	o := defaultOptions()
	o.baseURL = ""
	for _, opt := range opts {
		opt(&o)
	}

	webBase, newsBase := googleWebBaseURL, googleNewsBaseURL
	if o.baseURL != "" {
		webBase, newsBase = o.baseURL, o.baseURL
	}
	return &Google{
		http:     &httpClient{client: o.httpClient, baseURL: webBase},
		newsBase: newsBase,
		log:      o.logger.With().Str("provider", "google").Logger(),
	}
}

// Name implements search.Provider.
func (g *Google) Name() string { return "google" }

// Search implements search.Provider.
func (g *Google) Search(ctx context.Context, query string, limit int, news bool) []search.Result {
	if news {
		return g.searchNews(ctx, query, limit)
	}
	return g.searchWeb(ctx, query, limit)
}

func (g *Google) searchNews(ctx context.Context, query string, limit int) []search.Result {
	searchURL := fmt.Sprintf("%s/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		g.newsBase, url.QueryEscape(query))

	body, err := fetch(ctx, g.http.client, searchURL, nil)
	if err != nil {
		g.log.Error().Err(err).Msg("search failed")
		return nil
	}

	items, err := parseRSS(body)
	if err != nil {
		g.log.Error().Err(err).Msg("failed to parse results")
		return nil
	}

	var results []search.Result
	for _, item := range items {
		if len(results) >= limit {
			break
		}
		source := strings.TrimSpace(item.Source)
		if source == "" {
			source = "Google News"
		}
		results = append(results, search.Result{
			Title:    strings.TrimSpace(item.Title),
			Link:     strings.TrimSpace(item.Link),
			Snippet:  stripHTML(item.Description),
			Provider: g.Name(),
			Date:     strings.TrimSpace(item.PubDate),
			Source:   source,
		})
	}

	g.log.Info().Int("count", len(results)).Msg("news search successful")
	return results
}

func (g *Google) searchWeb(ctx context.Context, query string, limit int) []search.Result {
	searchURL := fmt.Sprintf("%s/search?q=%s&num=%d",
		g.http.baseURL, url.QueryEscape(query), limit)

	body, err := fetch(ctx, g.http.client, searchURL, nil)
	if err != nil {
		g.log.Error().Err(err).Msg("search failed")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		g.log.Error().Err(err).Msg("failed to parse results")
		return nil
	}

	var results []search.Result
	doc.Find("div.g").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if len(results) >= limit {
			return false
		}

		title := strings.TrimSpace(item.Find("h3").First().Text())
		link, _ := item.Find("a").First().Attr("href")
		snippet := strings.TrimSpace(item.Find("div.VwiC3b").First().Text())
		if snippet == "" {
			snippet = strings.TrimSpace(item.Find("div.s").First().Text())
		}

		if title != "" && link != "" {
			results = append(results, search.Result{
				Title:    title,
				Link:     link,
				Snippet:  snippet,
				Provider: g.Name(),
			})
		}
		return true
	})

	g.log.Info().Int("count", len(results)).Msg("search successful")
	return results
}
