package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const ddgFixture = `{
	"Heading": "Go (programming language)",
	"AbstractText": "Go is a statically typed language.",
	"AbstractURL": "https://en.wikipedia.org/wiki/Go_(programming_language)",
	"RelatedTopics": [
		{"Text": "Gopher - The Go mascot.", "FirstURL": "https://go.dev/blog/gopher"},
		{"Topics": [
			{"Text": "Go modules - Dependency management.", "FirstURL": "https://go.dev/ref/mod"}
		]}
	]
}`

func TestDuckDuckGoParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "golang", r.URL.Query().Get("q"))
		require.Equal(t, "json", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(ddgFixture))
	}))
	defer srv.Close()

	p := NewDuckDuckGo(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	results := p.Search(context.Background(), "golang", 10, false)

	require.Len(t, results, 3)
	require.Equal(t, "Go (programming language)", results[0].Title)
	require.Equal(t, "https://en.wikipedia.org/wiki/Go_(programming_language)", results[0].Link)
	require.Equal(t, "Gopher", results[1].Title)
	require.Equal(t, "The Go mascot.", results[1].Snippet)
	require.Equal(t, "Go modules", results[2].Title, "nested topics are flattened")
	for _, r := range results {
		require.Equal(t, "duckduckgo", r.Provider)
	}
}

func TestDuckDuckGoRespectsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ddgFixture))
	}))
	defer srv.Close()

	p := NewDuckDuckGo(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	results := p.Search(context.Background(), "golang", 2, false)
	require.Len(t, results, 2)
}

func TestDuckDuckGoServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewDuckDuckGo(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.Nil(t, p.Search(context.Background(), "golang", 10, false))
}

func TestDuckDuckGoUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := NewDuckDuckGo(WithBaseURL(srv.URL))
	require.Nil(t, p.Search(context.Background(), "golang", 10, false))
}

const bingRSSFixture = `<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0">
<channel>
<title>golang - Bing</title>
<item>
<title>The Go Programming Language</title>
<link>https://go.dev/</link>
<description>Go is an &lt;b&gt;open source&lt;/b&gt; programming language.</description>
<pubDate>Mon, 10 Aug 2026 08:00:00 GMT</pubDate>
<source url="https://go.dev">go.dev</source>
</item>
<item>
<title>Go Packages</title>
<link>https://pkg.go.dev/</link>
<description>Discover packages.</description>
<pubDate>Tue, 11 Aug 2026 09:00:00 GMT</pubDate>
<source url="https://pkg.go.dev">pkg.go.dev</source>
</item>
</channel>
</rss>`

func TestBingParsesRSS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "rss", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(bingRSSFixture))
	}))
	defer srv.Close()

	p := NewBing(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	results := p.Search(context.Background(), "golang", 10, false)

	require.Len(t, results, 2)
	require.Equal(t, "The Go Programming Language", results[0].Title)
	require.Equal(t, "https://go.dev/", results[0].Link)
	require.Equal(t, "Go is an open source programming language.", results[0].Snippet, "description HTML is stripped")
	require.Equal(t, "bing", results[0].Provider)
	require.Empty(t, results[0].Date, "web results carry no date")
}

func TestBingNewsUsesNewsEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/news/search", r.URL.Path)
		_, _ = w.Write([]byte(bingRSSFixture))
	}))
	defer srv.Close()

	p := NewBing(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	results := p.Search(context.Background(), "golang", 10, true)

	require.Len(t, results, 2)
	require.Equal(t, "Mon, 10 Aug 2026 08:00:00 GMT", results[0].Date)
	require.Equal(t, "go.dev", results[0].Source)
}

func TestBingMalformedFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not xml at all <"))
	}))
	defer srv.Close()

	p := NewBing(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.Nil(t, p.Search(context.Background(), "golang", 10, false))
}

func TestGoogleNewsRSS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rss/search", r.URL.Path)
		_, _ = w.Write([]byte(bingRSSFixture))
	}))
	defer srv.Close()

	p := NewGoogle(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	results := p.Search(context.Background(), "golang", 1, true)

	require.Len(t, results, 1, "limit applies")
	require.Equal(t, "go.dev", results[0].Source)
	require.Equal(t, "google", results[0].Provider)
}

const googleHTMLFixture = `<!doctype html>
<html><body>
<div class="g">
  <a href="https://go.dev/"><h3>The Go Programming Language</h3></a>
  <div class="VwiC3b">Build simple, secure, scalable systems.</div>
</div>
<div class="g">
  <a href="https://pkg.go.dev/"><h3>Go Packages</h3></a>
  <div class="s">Search and discover Go packages.</div>
</div>
<div class="g">
  <a href="https://go.dev/tour/"></a>
</div>
</body></html>`

func TestGoogleWebParsesHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		_, _ = w.Write([]byte(googleHTMLFixture))
	}))
	defer srv.Close()

	p := NewGoogle(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	results := p.Search(context.Background(), "golang", 10, false)

	require.Len(t, results, 2, "item without a title is skipped")
	require.Equal(t, "The Go Programming Language", results[0].Title)
	require.Equal(t, "Build simple, secure, scalable systems.", results[0].Snippet)
	require.Equal(t, "Search and discover Go packages.", results[1].Snippet, "fallback snippet selector")
}

const baiduHTMLFixture = `<!doctype html>
<html><body>
<div class="result" mu="https://go.dev/">
  <h3><a href="https://www.baidu.com/link?url=abc123">Go语言官网</a></h3>
  <div class="c-abstract">Go 是一种开源编程语言。</div>
</div>
<div class="result">
  <h3><a href="/s?wd=more">更多结果</a></h3>
  <div class="c-span9">摘要二</div>
</div>
</body></html>`

func TestBaiduParsesHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/s", r.URL.Path)
		_, _ = w.Write([]byte(baiduHTMLFixture))
	}))
	defer srv.Close()

	p := NewBaidu(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	results := p.Search(context.Background(), "golang", 10, false)

	require.Len(t, results, 2)
	require.Equal(t, "Go语言官网", results[0].Title)
	require.Equal(t, "https://go.dev/", results[0].Link, "redirect link unwrapped from mu attribute")
	require.Equal(t, "Go 是一种开源编程语言。", results[0].Snippet)
	require.Equal(t, srv.URL+"/s?wd=more", results[1].Link, "relative link gets the base URL")
	require.Equal(t, "摘要二", results[1].Snippet, "fallback snippet selector")
}

const baiduNewLayoutFixture = `<!doctype html>
<html><body>
<div class="c-container">
  <h3><a href="https://go.dev/blog/">Go Blog</a></h3>
</div>
</body></html>`

func TestBaiduFallbackSelectors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(baiduNewLayoutFixture))
	}))
	defer srv.Close()

	p := NewBaidu(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	results := p.Search(context.Background(), "golang", 10, false)

	require.Len(t, results, 1)
	require.Equal(t, "Go Blog", results[0].Title)
	require.Equal(t, "No description available", results[0].Snippet)
}

func TestProviderNames(t *testing.T) {
	require.Equal(t, "duckduckgo", NewDuckDuckGo().Name())
	require.Equal(t, "bing", NewBing().Name())
	require.Equal(t, "google", NewGoogle().Name())
	require.Equal(t, "baidu", NewBaidu().Name())
}
