package proxy

import (
	"fmt"
	"net/url"
	"strings"
)

// Reason classifies why a subscription line produced no entry.
type Reason string

const (
	ReasonBadURI         Reason = "invalid uri"
	ReasonUnsupported    Reason = "unsupported protocol"
	ReasonBadCredentials Reason = "invalid credentials"
	ReasonMissingHost    Reason = "missing host"
	ReasonMissingPort    Reason = "missing port"
	ReasonBadPort        Reason = "invalid port"
)

// SkipError is returned for a line that is dropped without failing the run.
type SkipError struct {
	Reason Reason
	Err    error
}

func (e *SkipError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *SkipError) Unwrap() error { return e.Err }

func skip(reason Reason, err error) error {
	return &SkipError{Reason: reason, Err: err}
}

// Parse decodes one subscription line into an Entry.
// Everything before '#' is percent-decoded as a whole before it is split into
// URI components. The name after '#' is decoded once, and a stray '%' in it
// is kept literally.
func Parse(line string) (Entry, error) {
	raw := FixIllegalURL(line)

	body, name, hasName := strings.Cut(raw, "#")
	decoded, err := url.PathUnescape(body)
	if err != nil {
		return nil, skip(ReasonBadURI, err)
	}
	if hasName {
		name = unescapeName(name)
	} else {
		// an encoded %23 only shows up after decoding
		decoded, name, _ = strings.Cut(decoded, "#")
	}

	u, err := url.Parse(decoded)
	if err != nil {
		return nil, skip(ReasonBadURI, err)
	}
	u.Fragment = name

	switch u.Scheme {
	case "ss":
		ss, err := parseShadowsocks(line, u)
		if err != nil {
			return nil, err
		}
		return ss, nil
	default:
		return nil, skip(ReasonUnsupported, fmt.Errorf("scheme %q", u.Scheme))
	}
}

func unescapeName(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}

// FixIllegalURL cleans up whitespace that scraped links often carry.
func FixIllegalURL(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}
