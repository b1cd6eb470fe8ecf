// Package fileproxy serves downloadable files hosted on the CMS through
// the site's own origin.
package fileproxy

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrMissingURL     = errors.New("missing url query parameter")
	ErrInvalidURL     = errors.New("invalid URL")
	ErrHostNotAllowed = errors.New("target host not allowed")
	ErrNoAllowedHost  = errors.New("no allowed host configured")
)

var (
	apiSuffix    = regexp.MustCompile(`(?i)/(?:graphql|wp-json)/?$`)
	hostPrefixes = regexp.MustCompile(`(?i)^(www\.|cms\.)`)
	imageExt     = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp|gif)$`)
)

// Message returns the client-facing text for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingURL):
		return "Missing url query parameter"
	case errors.Is(err, ErrInvalidURL):
		return "Invalid URL"
	case errors.Is(err, ErrHostNotAllowed):
		return "Target host not allowed"
	case errors.Is(err, ErrNoAllowedHost):
		return "No allowed host configured"
	default:
		return err.Error()
	}
}

// AllowList holds the single host files may be fetched from.
type AllowList struct {
	host string
}

// AllowListFromCMS derives the allowed host from the CMS endpoint, ignoring
// a trailing /graphql or /wp-json path.
func AllowListFromCMS(endpoint string) AllowList {
	raw := strings.TrimSpace(endpoint)
	if raw == "" {
		return AllowList{}
	}
	cleaned := strings.TrimRight(apiSuffix.ReplaceAllString(raw, ""), "/")
	u, err := url.Parse(cleaned)
	if err != nil || u.Host == "" {
		return AllowList{}
	}
	return AllowList{host: strings.ToLower(u.Host)}
}

// Host returns the allowed host, or "" when none is configured.
func (a AllowList) Host() string { return a.host }

// ParseTarget decodes and validates the url query value.
func ParseTarget(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingURL
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}
	u, err := url.Parse(decoded)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// AllowStream applies the strict rule used when bytes are relayed: the
// host must match exactly.
func (a AllowList) AllowStream(u *url.URL) error {
	if a.host == "" {
		return localOnly(u)
	}
	if strings.ToLower(u.Host) != a.host {
		return ErrHostNotAllowed
	}
	return nil
}

// AllowCheck applies the loose rule used for availability checks: hosts
// match when equal after dropping a leading www. or cms.
func (a AllowList) AllowCheck(u *url.URL) error {
	if a.host == "" {
		return localOnly(u)
	}
	if !HostsMatchLoosely(a.host, u.Host) {
		return ErrHostNotAllowed
	}
	return nil
}

// HostsMatchLoosely compares hosts case-insensitively, ignoring www./cms.
func HostsMatchLoosely(allowed, target string) bool {
	if allowed == "" || target == "" {
		return false
	}
	a, t := strings.ToLower(allowed), strings.ToLower(target)
	if a == t {
		return true
	}
	return hostPrefixes.ReplaceAllString(a, "") == hostPrefixes.ReplaceAllString(t, "")
}

func localOnly(u *url.URL) error {
	h := strings.ToLower(u.Hostname())
	if h == "localhost" || h == "127.0.0.1" || strings.HasSuffix(h, ".local") {
		return nil
	}
	return ErrNoAllowedHost
}

// PDFCandidate returns the .pdf sibling of an image URL, or "" when the
// URL does not end in an image extension.
func PDFCandidate(u *url.URL) string {
	src := u.String()
	candidate := imageExt.ReplaceAllString(src, ".pdf")
	if candidate == src {
		return ""
	}
	return candidate
}

// AttachmentName derives the download filename from a URL path. It always
// ends in .pdf and never contains quotes.
func AttachmentName(u *url.URL) string {
	name := u.Path
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "download"
	}
	name = imageExt.ReplaceAllString(name, "")
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return strings.ReplaceAll(name, `"`, "")
}
