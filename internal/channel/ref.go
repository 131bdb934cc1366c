package channel

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotChannelURL signals input that does not identify a channel, such as
// a single-video link.
var ErrNotChannelURL = errors.New("URL does not identify a YouTube channel")

// Ref is a parsed channel identifier. Exactly one of Handle, ID, or
// Username is set for addressable channels; legacy /c/ custom URLs carry
// only a display name.
type Ref struct {
	Handle   string
	ID       string
	Username string

	// Custom holds the path segment of a legacy /c/ URL, which the Data
	// API cannot look up directly.
	Custom string

	rawURL string
}

// URL returns the original channel URL.
func (r *Ref) URL() string { return r.rawURL }

// DisplayName derives a channel name from the identifier itself, used when
// no Data API key is configured.
func (r *Ref) DisplayName() string {
	switch {
	case r.Handle != "":
		return strings.TrimPrefix(r.Handle, "@")
	case r.Username != "":
		return r.Username
	case r.Custom != "":
		return r.Custom
	case r.ID != "":
		return r.ID
	}
	return "YouTube Channel"
}

// Addressable reports whether the ref can be looked up through the Data API.
func (r *Ref) Addressable() bool {
	return r.Handle != "" || r.ID != "" || r.Username != ""
}

// Parse validates a channel URL or bare @handle and extracts its
// identifier. Video links (watch, shorts, youtu.be) are rejected: the
// scrape needs a channel, not a single item.
func Parse(raw string) (*Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("channel URL cannot be empty")
	}

	if strings.HasPrefix(raw, "@") {
		return &Ref{Handle: raw, rawURL: "https://www.youtube.com/" + raw}, nil
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid channel URL: %w", err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "youtu.be" {
		return nil, fmt.Errorf("%w: %s is a video link", ErrNotChannelURL, raw)
	}
	if host != "youtube.com" && host != "m.youtube.com" {
		return nil, fmt.Errorf("%w: unexpected host %q", ErrNotChannelURL, u.Hostname())
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return nil, fmt.Errorf("%w: missing channel path", ErrNotChannelURL)
	}

	ref := &Ref{rawURL: raw}
	switch first := segments[0]; {
	case strings.HasPrefix(first, "@"):
		ref.Handle = first
	case first == "channel" && len(segments) > 1:
		ref.ID = segments[1]
	case first == "user" && len(segments) > 1:
		ref.Username = segments[1]
	case first == "c" && len(segments) > 1:
		ref.Custom = segments[1]
	case first == "watch", first == "shorts", first == "embed", first == "live":
		return nil, fmt.Errorf("%w: %s is a video link", ErrNotChannelURL, raw)
	default:
		return nil, fmt.Errorf("%w: unrecognized path %q", ErrNotChannelURL, u.Path)
	}

	return ref, nil
}
