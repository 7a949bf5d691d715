package enrich

import (
	"net/url"
	"strings"
)

// ProfileSlug extracts the profile identifier from a LinkedIn URL, the path
// segment immediately following "/in/" (e.g. "jane-doe" from
// https://linkedin.com/in/jane-doe/). Returns "" when the URL cannot be
// parsed or has no such segment. The slug is used only to decide whether a
// lookup is worth attempting; the match call keys on the full URL.
func ProfileSlug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for i, p := range parts {
		if p == "in" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
