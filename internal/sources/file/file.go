package file

import (
	"context"
	"net/url"
	"os"
	"strings"

	"subclash/internal/config"
	"subclash/internal/logger"
	"subclash/internal/sources"
)

// Source reads a subscription body from disk.
type Source struct {
	MaxBytes int64
}

func (s *Source) Fetch(ctx context.Context, uri string) (string, error) {
	path := Path(uri)
	logger.Log.Debugf("Reading subscription file: %s", path)

	if err := ctx.Err(); err != nil {
		return "", &sources.FetchError{URL: uri, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", &sources.FetchError{URL: uri, Err: err}
	}
	defer f.Close()

	body, err := sources.ReadLimited(f, s.MaxBytes)
	if err != nil {
		return "", &sources.FetchError{URL: uri, Err: err}
	}
	return string(body), nil
}

// Path turns file:///a/b or file:a/b into a filesystem path. Anything else is
// returned unchanged.
func Path(uri string) string {
	if !strings.HasPrefix(strings.ToLower(uri), "file:") {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return uri[len("file:"):]
	}
	if u.Opaque != "" {
		return u.Opaque
	}
	return u.Path
}

func init() {
	sources.Register("file", func(cfg config.SubscriptionConfig) (sources.Source, error) {
		return &Source{MaxBytes: cfg.MaxBytes}, nil
	})
}
