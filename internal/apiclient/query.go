package apiclient

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query builds optional query parameters. Empty values are skipped so that
// unset filters are never sent.
type Query url.Values

func NewQuery() Query {
	return Query{}
}

func (q Query) Add(key, value string) Query {
	if value != "" {
		url.Values(q).Set(key, value)
	}
	return q
}

// AddInt adds n when it is positive.
func (q Query) AddInt(key string, n int) Query {
	if n > 0 {
		url.Values(q).Set(key, strconv.Itoa(n))
	}
	return q
}

// AddTime adds t in RFC 3339 when it is not the zero time.
func (q Query) AddTime(key string, t time.Time) Query {
	if !t.IsZero() {
		url.Values(q).Set(key, t.UTC().Format(time.RFC3339))
	}
	return q
}

// AddBool adds b when it is not nil.
func (q Query) AddBool(key string, b *bool) Query {
	if b != nil {
		url.Values(q).Set(key, strconv.FormatBool(*b))
	}
	return q
}

func (q Query) Encode() string {
	return url.Values(q).Encode()
}

// PathOf joins escaped path segments, e.g. PathOf("budgets", id).
func PathOf(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}
