package cache

import (
	"net/url"
	"sort"
	"strings"
)

// BuildKey renders "<prefix>:?k1=v1&k2=v2" with keys sorted and values
// query-escaped. Empty values are left out; with nothing left the key is
// just "<prefix>:".
func BuildKey(prefix string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return prefix + ":"
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(":?")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

// QueryParams flattens url.Values, keeping the first value of each key.
func QueryParams(values url.Values) map[string]string {
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

// RequestKey is the default response-cache key: method, path and the
// sorted query string.
func RequestKey(method, path string, query url.Values) string {
	return BuildKey(method+":"+path, QueryParams(query))
}
