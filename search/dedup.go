package search

import "strings"

// Deduplicate removes results that refer to the same underlying item,
// detected by normalized URL or lowercased title equality. The pass is a
// single order-preserving walk: the first occurrence of a duplicate wins,
// and running the pass on its own output changes nothing.
func Deduplicate(results []Result) []Result {
	seenURLs := make(map[string]struct{}, len(results))
	seenTitles := make(map[string]struct{}, len(results))
	unique := make([]Result, 0, len(results))

	for _, r := range results {
		url := normalizeURL(r.Link)
		title := strings.ToLower(strings.TrimSpace(r.Title))

		if url == "" {
			continue
		}
		if _, ok := seenURLs[url]; ok {
			continue
		}
		if _, ok := seenTitles[title]; ok {
			continue
		}

		seenURLs[url] = struct{}{}
		seenTitles[title] = struct{}{}
		unique = append(unique, r)
	}

	return unique
}

// normalizeURL strips the query string and any trailing slash so that
// tracking-parameter variants of the same page compare equal.
func normalizeURL(raw string) string {
	url := strings.TrimSpace(raw)
	if i := strings.Index(url, "?"); i >= 0 {
		url = url[:i]
	}
	return strings.TrimRight(url, "/")
}
