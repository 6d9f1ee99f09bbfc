package util

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseSourceURL parses a raw URL string and checks it targets something
// yt-dlp can fetch. A missing scheme is retried as https. It returns the
// parsed URL or an error with a clear message.
func ParseSourceURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		if u2, e2 := url.Parse("https://" + raw); e2 == nil {
			u = u2
		}
	}
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL %q: only http(s) sources are supported", raw)
	}
	return u, nil
}

// IsURL reports whether raw looks like a fetchable URL rather than a
// local file path.
func IsURL(raw string) bool {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return true
	}
	// Bare "youtube.com/..." style inputs count too.
	if strings.Contains(raw, "://") {
		return false
	}
	host, _, _ := strings.Cut(raw, "/")
	return strings.HasSuffix(strings.ToLower(host), "youtube.com") ||
		strings.EqualFold(host, "youtu.be")
}

// VideoID extracts the YouTube video ID from watch, shorts, embed, live
// and youtu.be URL forms. It returns "" when the URL does not carry a
// recognizable 11-character ID, which disables SponsorBlock lookups for
// non-YouTube sources.
func VideoID(raw string) string {
	u, err := ParseSourceURL(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		return validID(firstPathPart(u.Path))
	case "youtube.com", "youtube-nocookie.com":
		if u.Path == "/watch" {
			return validID(u.Query().Get("v"))
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/", "/v/"} {
			if strings.HasPrefix(u.Path, prefix) {
				return validID(firstPathPart(u.Path[len(prefix):]))
			}
		}
	}
	return ""
}

func firstPathPart(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}

// validID filters extraction results down to well-formed video IDs.
func validID(s string) string {
	if len(s) != 11 {
		return ""
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return ""
		}
	}
	return s
}
