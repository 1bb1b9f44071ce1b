package sources

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"subclash/internal/config"
)

// Source retrieves the raw subscription body. One attempt, no retry.
type Source interface {
	Fetch(ctx context.Context, uri string) (string, error)
}

type Factory func(cfg config.SubscriptionConfig) (Source, error)

var registry = make(map[string]Factory)

func Register(scheme string, factory Factory) {
	registry[scheme] = factory
}

func Get(scheme string, cfg config.SubscriptionConfig) (Source, error) {
	factory, ok := registry[scheme]
	if !ok {
		return nil, fmt.Errorf("no source registered for scheme '%s'", scheme)
	}
	return factory(cfg)
}

// For picks the source for uri by its scheme. A bare path maps to "file".
func For(uri string, cfg config.SubscriptionConfig) (Source, error) {
	return Get(Scheme(uri), cfg)
}

func Scheme(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" {
		return "file"
	}
	// C:\subs.txt parses with scheme "c"
	if len(u.Scheme) == 1 {
		return "file"
	}
	return strings.ToLower(u.Scheme)
}

// FetchError is a transport failure. Status is zero when no response arrived.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
		}
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// TooLargeError means the body exceeded the configured size cap.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("body exceeds %d bytes", e.Limit)
}

// ReadLimited reads at most limit bytes from r, failing if there is more.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, &TooLargeError{Limit: limit}
	}
	return b, nil
}
