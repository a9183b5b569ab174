// Package tracking appends attribution parameters to outbound links.
package tracking

import (
	"net/url"
	"strings"
)

// Param is one query field appended to a link
type Param struct {
	Key   string
	Value string
}

// Augment returns link with params appended after any query it already has.
// Links that do not parse as absolute URLs get the parameters concatenated
// as a raw query string, joined with '?' or '&' depending on whether the
// link already contains a '?'.
func Augment(link string, params []Param) string {
	if len(params) == 0 {
		return link
	}

	u, err := url.Parse(link)
	if err != nil || !u.IsAbs() {
		return appendRaw(link, params)
	}

	query := encode(params)
	if u.RawQuery != "" {
		u.RawQuery += "&" + query
	} else {
		u.RawQuery = query
	}
	// Keep a bare trailing '?' from turning into "?&"
	u.ForceQuery = false
	return u.String()
}

func appendRaw(link string, params []Param) string {
	sep := "?"
	if strings.Contains(link, "?") {
		sep = "&"
	}
	return link + sep + encode(params)
}

// encode keeps params in the given order; url.Values would sort them
func encode(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
