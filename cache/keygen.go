package cache

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
)

// Key builds a stable cache key from a provider name, a query and the
// request options. Option order never matters: options are serialized in
// sorted key order, so two logically identical requests always map to the
// same key.
func Key(provider, query string, opts map[string]any) string {
	parts := make([]string, 0, len(opts))
	for k, v := range opts {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(parts)

	data := provider + ":" + query + ":" + strings.Join(parts, "&")
	return fmt.Sprintf("%x", md5.Sum([]byte(data)))
}
