package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strings"
)

// Fingerprint computes the stable content fingerprint for an article:
// SHA-1 over the normalized title plus source host, or over the full text
// when the title is absent. It is a pure function of (title, host, text), so
// re-ingesting unchanged content always reproduces the same hash.
func Fingerprint(title, host, text string) string {
	title = normalizeTitle(title)
	if title != "" {
		return sha1Hex(title + "|" + strings.ToLower(host))
	}
	return sha1Hex(text)
}

// HostOf extracts the lowercased host from a URL for fingerprinting.
func HostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return strings.ToLower(u.Hostname()), nil
}

// normalizeTitle lowercases and collapses internal whitespace.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
