package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pcrawfurd/metasearch/search"
)

const duckduckgoBaseURL = "https://api.duckduckgo.com"

// DuckDuckGo searches via the DuckDuckGo instant-answer JSON API.
type DuckDuckGo struct {
	http *httpClient
	log  zerolog.Logger
}

// NewDuckDuckGo creates the DuckDuckGo adapter.
func NewDuckDuckGo(opts ...Option) *DuckDuckGo {
	o := defaultOptions()
	o.baseURL = duckduckgoBaseURL
	for _, opt := range opts {
		opt(&o)
	}
	return &DuckDuckGo{
		http: &httpClient{client: o.httpClient, baseURL: o.baseURL},
		log:  o.logger.With().Str("provider", "duckduckgo").Logger(),
	}
}

// Name implements search.Provider.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	Heading       string     `json:"Heading"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

// Search implements search.Provider. The unauthenticated API has no news
// vertical, so news queries go through the same endpoint and hits are
// tagged with the provider as their source.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int, news bool) []search.Result {
	apiURL := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		d.http.baseURL, url.QueryEscape(query))

	body, err := fetch(ctx, d.http.client, apiURL, nil)
	if err != nil {
		d.log.Error().Err(err).Msg("search failed")
		return nil
	}

	var payload ddgResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		d.log.Error().Err(err).Msg("failed to parse results")
		return nil
	}

	var results []search.Result
	if payload.AbstractText != "" && payload.AbstractURL != "" {
		results = append(results, d.result(payload.Heading, payload.AbstractURL, payload.AbstractText, news))
	}

	var appendTopic func(topic ddgTopic)
	appendTopic = func(topic ddgTopic) {
		if len(results) >= limit {
			return
		}
		if topic.Text != "" && topic.FirstURL != "" {
			title, snippet := splitTopicText(topic.Text)
			results = append(results, d.result(title, topic.FirstURL, snippet, news))
		}
		for _, child := range topic.Topics {
			appendTopic(child)
		}
	}
	for _, topic := range payload.RelatedTopics {
		appendTopic(topic)
	}

	if len(results) > limit {
		results = results[:limit]
	}
	d.log.Info().Int("count", len(results)).Msg("search successful")
	return results
}

func (d *DuckDuckGo) result(title, link, snippet string, news bool) search.Result {
	r := search.Result{
		Title:    title,
		Link:     link,
		Snippet:  snippet,
		Provider: d.Name(),
	}
	if news {
		r.Source = "DuckDuckGo"
	}
	return r
}

// splitTopicText splits an instant-answer topic of the form
// "Title - snippet" into its parts.
func splitTopicText(text string) (title string, snippet string) {
	parts := strings.SplitN(text, " - ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(text), ""
}
