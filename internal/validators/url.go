package validators

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// hostProfile maps internationalized hostnames to their ASCII form. It is
// lenient about label characters (underscores are common in real hosts).
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
)

// URLResult is the outcome of validating a user-supplied URL.
// NormalizedURL is set only when IsValid is true, Error only when it is false.
type URLResult struct {
	IsValid       bool   `json:"is_valid"`
	NormalizedURL string `json:"normalized_url,omitempty"`
	Error         string `json:"error,omitempty"`

	err error
}

// Err returns the sentinel error behind an invalid result, or nil
func (r URLResult) Err() error {
	if r.IsValid {
		return nil
	}
	return r.err
}

// ValidateAndNormalizeURL checks that raw is an http(s) URL with a plausible
// host and returns its canonical serialization. No network access is made.
func ValidateAndNormalizeURL(raw string) URLResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return invalidURL(ErrURLRequired)
	}

	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		return invalidURL(ErrURLScheme)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return invalidURL(ErrURLFormat)
	}

	host, err := canonicalHost(parsed.Hostname())
	if err != nil {
		return invalidURL(ErrURLFormat)
	}

	if host == "" {
		return invalidURL(ErrURLMissingHost)
	}

	if !strings.Contains(host, ".") && host != localhost {
		return invalidURL(ErrURLHostDomain)
	}

	normalized, err := canonicalize(parsed, host)
	if err != nil {
		return invalidURL(ErrURLFormat)
	}

	return URLResult{
		IsValid:       true,
		NormalizedURL: normalized,
	}
}

// IsValidURL reports whether raw passes ValidateAndNormalizeURL
func IsValidURL(raw string) bool {
	return ValidateAndNormalizeURL(raw).IsValid
}

func invalidURL(err error) URLResult {
	return URLResult{
		IsValid: false,
		Error:   err.Error(),
		err:     err,
	}
}

// canonicalHost lowercases host and converts internationalized names to
// punycode. IP literals are returned unchanged.
func canonicalHost(host string) (string, error) {
	host = strings.ToLower(host)
	if host == "" || net.ParseIP(host) != nil || isASCII(host) {
		return host, nil
	}
	return hostProfile.ToASCII(host)
}

// canonicalize re-serializes u with the given host, dropping default ports,
// resolving dot segments (including percent-encoded ones), escaping the query
// and giving an empty path a single slash.
func canonicalize(u *url.URL, host string) (string, error) {
	scheme := strings.ToLower(u.Scheme)

	port := u.Port()
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 0 || n > 65535 {
			return "", ErrURLFormat
		}
		port = strconv.Itoa(n)
		if port == defaultPorts[scheme] {
			port = ""
		}
	}

	hostport := host
	switch {
	case port != "":
		hostport = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		hostport = "[" + host + "]"
	}

	base := *u
	base.Scheme = scheme
	base.Host = hostport
	if base.RawPath != "" {
		base.RawPath = decodeDotSegments(base.RawPath)
	}

	out := base.ResolveReference(&url.URL{})
	out.ForceQuery = u.ForceQuery
	out.RawQuery = escapeQuery(out.RawQuery)
	if out.Path == "" {
		out.Path = "/"
		out.RawPath = ""
	}

	return out.String(), nil
}

// decodeDotSegments turns "%2e" segments into "." and the ".%2e", "%2e."
// and "%2e%2e" spellings into "..", so they resolve like literal dots.
func decodeDotSegments(escaped string) string {
	segments := strings.Split(escaped, "/")
	for i, seg := range segments {
		switch strings.ToLower(seg) {
		case "%2e":
			segments[i] = "."
		case ".%2e", "%2e.", "%2e%2e":
			segments[i] = ".."
		}
	}
	return strings.Join(segments, "/")
}

// escapeQuery percent-encodes the bytes of the http(s) query encode set:
// controls, space, `"`, `#`, `'`, `<`, `>` and non-ASCII. Existing escapes are kept.
func escapeQuery(raw string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c <= ' ', c >= 0x7f, c == '"', c == '#', c == '\'', c == '<', c == '>':
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
