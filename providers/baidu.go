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

const baiduBaseURL = "https://www.baidu.com"

// Baidu scrapes the Baidu result page. Baidu has shipped several result
// layouts, so extraction walks a chain of fallback selectors, and result
// links are redirect URLs that get unwrapped from the item's mu attribute.
type Baidu struct {
	http *httpClient
	log  zerolog.Logger
}

// NewBaidu creates the Baidu adapter.
func NewBaidu(opts ...Option) *Baidu {
	o := defaultOptions()
	o.baseURL = baiduBaseURL
	for _, opt := range opts {
		opt(&o)
	}
	return &Baidu{
		http: &httpClient{client: o.httpClient, baseURL: o.baseURL},
		log:  o.logger.With().Str("provider", "baidu").Logger(),
	}
}

// Name implements search.Provider.
func (b *Baidu) Name() string { return "baidu" }

// Search implements search.Provider.
func (b *Baidu) Search(ctx context.Context, query string, limit int, news bool) []search.Result {
	q := url.QueryEscape(query)
	var searchURL string
	if news {
		searchURL = fmt.Sprintf("%s/s?tn=news&rtt=1&bsst=1&wd=%s", b.http.baseURL, q)
	} else {
		searchURL = fmt.Sprintf("%s/s?wd=%s&rn=%d", b.http.baseURL, q, limit)
	}

	headers := map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
		"Referer":         b.http.baseURL + "/",
	}
	body, err := fetch(ctx, b.http.client, searchURL, headers)
	if err != nil {
		b.log.Error().Err(err).Msg("search failed")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		b.log.Error().Err(err).Msg("failed to parse results")
		return nil
	}

	items := doc.Find("div.result")
	if items.Length() == 0 {
		items = doc.Find("div.c-container")
	}
	if items.Length() == 0 {
		items = doc.Find("div[mu]")
	}

	var results []search.Result
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if len(results) >= limit {
			return false
		}

		titleElem := item.Find("h3").First()
		if titleElem.Length() == 0 {
			titleElem = item.Find("a.c-title").First()
		}
		title := strings.TrimSpace(titleElem.Text())
		link, _ := item.Find("a").First().Attr("href")

		if title == "" || link == "" {
			return true
		}

		r := search.Result{
			Title:    title,
			Link:     b.normalizeLink(item, link),
			Snippet:  b.snippet(item),
			Provider: b.Name(),
		}
		if news {
			r.Date = strings.TrimSpace(item.Find("span.c-color-gray2").First().Text())
			r.Source = strings.TrimSpace(item.Find("span.c-gap-right").First().Text())
			if r.Source == "" {
				r.Source = "Baidu"
			}
		}
		results = append(results, r)
		return true
	})

	b.log.Info().Int("count", len(results)).Msg("search successful")
	return results
}

func (b *Baidu) snippet(item *goquery.Selection) string {
	for _, selector := range []string{"div.c-abstract", "div.c-span9", "div.c-span-last"} {
		if text := strings.TrimSpace(item.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return "No description available"
}

// normalizeLink unwraps Baidu's redirect links to the real destination when
// the item carries one in its mu attribute, and gives scheme-less links a
// usable URL.
func (b *Baidu) normalizeLink(item *goquery.Selection, link string) string {
	if strings.HasPrefix(link, "http://www.baidu.com/link?url=") ||
		strings.HasPrefix(link, "https://www.baidu.com/link?url=") {
		if real, ok := item.Attr("mu"); ok && real != "" {
			if !strings.HasPrefix(real, "http") {
				real = "http://" + real
			}
			return real
		}
		return link
	}
	if !strings.HasPrefix(link, "http") {
		if strings.HasPrefix(link, "/") {
			return b.http.baseURL + link
		}
		return "https://" + link
	}
	return link
}
