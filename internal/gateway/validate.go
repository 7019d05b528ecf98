package gateway

import (
	"net/url"
	"strings"
)

// allowedHosts are the video-platform hostnames accepted as input, compared
// exactly after lowercasing and stripping a leading "www.".
var allowedHosts = map[string]struct{}{
	"youtube.com":       {},
	"youtu.be":          {},
	"music.youtube.com": {},
}

// ValidateSourceURL checks that raw points at one of the allowed hosts.
// The scheme is optional and defaults to https. The URL is fully parsed and
// the host compared exactly, so an allowed host embedded in the path or a
// lookalike prefix does not pass.
func ValidateSourceURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return InputError("missing url")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return InputError("invalid url")
	}
	if u.Scheme == "" {
		// Schemeless input like "youtube.com/watch?v=x" parses as a bare
		// path; re-parse with the default scheme so the host is populated.
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return InputError("invalid url")
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return InputError("invalid url or disallowed host")
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if _, ok := allowedHosts[host]; !ok {
		return InputError("invalid url or disallowed host")
	}
	return nil
}
