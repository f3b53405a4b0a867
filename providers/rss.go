package providers

import (
	"encoding/xml"
	"fmt"
)

// rssItem is one <item> of an RSS 2.0 feed. The <source> element carries
// the publication name as character data.
type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Source      string `xml:"source"`
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

// parseRSS decodes an RSS document into its items. RSS is strict XML, so
// this uses encoding/xml rather than an HTML parser, which would mangle the
// void <link> element.
func parseRSS(body []byte) ([]rssItem, error) {
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed.Channel.Items, nil
}
