package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"

	"subclash/internal/config"
	"subclash/internal/logger"
	"subclash/internal/sources"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/net/proxy"
)

var progressOut io.Writer = os.Stderr

type Source struct {
	Client    *http.Client
	UserAgent string
	MaxBytes  int64
	// Progress receives a download bar when non-nil.
	Progress io.Writer
}

// New builds an HTTP source from the subscription settings.
func New(cfg config.SubscriptionConfig, progress io.Writer) (*Source, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.Proxy != "" {
		pURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid subscription proxy: %w", err)
		}
		switch strings.ToLower(pURL.Scheme) {
		case "http", "https":
			transport.Proxy = http.ProxyURL(pURL)
		case "socks5", "socks5h":
			d, err := proxy.FromURL(pURL, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("invalid subscription proxy: %w", err)
			}
			transport.Proxy = nil
			transport.DialContext = dialContext(d)
		default:
			return nil, fmt.Errorf("unsupported proxy scheme '%s'", pURL.Scheme)
		}
		logger.Log.Debugf("HTTP source using proxy: %s", pURL.Redacted())
	}

	return &Source{
		Client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		UserAgent: cfg.UserAgent,
		MaxBytes:  cfg.MaxBytes,
		Progress:  progress,
	}, nil
}

func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}

func (s *Source) Fetch(ctx context.Context, uri string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", &sources.FetchError{URL: uri, Err: err}
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	logger.Log.Debugf("Fetching URL: %s", uri)
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", &sources.FetchError{URL: uri, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &sources.FetchError{URL: uri, Status: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	var bar *progressbar.ProgressBar
	if s.Progress != nil {
		bar = progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(s.Progress),
			progressbar.OptionSetDescription("Downloading subscription"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetRenderBlankState(true),
		)
		body = io.TeeReader(resp.Body, bar)
	}

	b, err := sources.ReadLimited(body, s.MaxBytes)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return "", &sources.FetchError{URL: uri, Err: err}
	}

	logger.Log.Debugf("Fetched %d bytes from %s", len(b), uri)
	return string(b), nil
}

func init() {
	factory := func(cfg config.SubscriptionConfig) (sources.Source, error) {
		var progress io.Writer
		if cfg.Progress {
			progress = progressOut
		}
		return New(cfg, progress)
	}
	sources.Register("http", factory)
	sources.Register("https", factory)
}
