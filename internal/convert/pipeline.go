package convert

import (
	"context"
	"errors"
	"strings"

	"subclash/internal/config"
	"subclash/internal/logger"
	"subclash/internal/proxy"
	"subclash/internal/render"
	"subclash/internal/sources"
	"subclash/internal/subscription"
)

type Options struct {
	Workers int
	Render  render.Options
	// All renders every entry instead of stopping at the first success.
	All bool
	// Dedupe drops entries whose identity key was already rendered.
	Dedupe bool
}

// OptionsFrom maps the loaded configuration onto pipeline options.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Workers: cfg.Parse.Workers,
		Render: render.Options{
			RejectMalformedPlugin: cfg.Render.MalformedPlugin == config.PluginPolicyReject,
		},
		All:    cfg.Render.All,
		Dedupe: cfg.Render.Dedupe,
	}
}

type Result struct {
	// Lines are the decoded subscription lines, blank ones included.
	Lines []string
	Batch *proxy.Batch
	// Rendered holds every render attempt, failed ones included.
	Rendered []render.Result
	// Fragments are the successfully rendered lines, in input order.
	Fragments  []string
	Duplicates int
}

// Fetch retrieves and decodes a subscription. Both steps are fatal on failure.
func Fetch(ctx context.Context, uri string, cfg config.SubscriptionConfig) ([]string, error) {
	src, err := sources.For(uri, cfg)
	if err != nil {
		return nil, err
	}

	body, err := src.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}

	lines, err := subscription.Decode(body)
	if err != nil {
		return nil, err
	}
	logger.Log.Debugf("Decoded %d lines from subscription", len(lines))
	return lines, nil
}

// Convert parses and renders decoded lines. Per-line problems are logged and
// recorded in the result; they never abort the run.
func Convert(lines []string, opts Options) *Result {
	batch := proxy.ParseAll(lines, proxy.Options{Workers: opts.Workers})
	for _, s := range batch.Skipped {
		logSkip(s)
	}

	res := &Result{Lines: lines, Batch: batch}
	seen := make(map[string]bool)

	for _, p := range batch.Entries {
		if opts.Dedupe {
			key := p.Entry.Key()
			if seen[key] {
				res.Duplicates++
				logger.Log.Debugf("Line %d: duplicate entry dropped", p.Line)
				continue
			}
			seen[key] = true
		}

		text, diags, err := render.Fragment(p.Entry, opts.Render)
		res.Rendered = append(res.Rendered, render.Result{Entry: p.Entry, Text: text, Diagnostics: diags, Err: err})
		for _, d := range diags {
			logger.Log.Warnf("Line %d: %v", p.Line, d)
		}
		if err != nil {
			logger.Log.Warnf("Line %d: render failed: %v", p.Line, err)
			continue
		}

		res.Fragments = append(res.Fragments, text)
		if !opts.All {
			break
		}
	}

	if len(res.Fragments) == 0 {
		logger.Log.Warnf("No renderable entries in %d lines", len(lines))
	}
	return res
}

// Run fetches, decodes, parses and renders in one go.
func Run(ctx context.Context, uri string, cfg *config.Config) (*Result, error) {
	lines, err := Fetch(ctx, uri, cfg.Subscription)
	if err != nil {
		return nil, err
	}
	return Convert(lines, OptionsFrom(cfg)), nil
}

// Links returns the decoded lines that start with "ss://".
func Links(lines []string) []string {
	var out []string
	for _, line := range lines {
		if strings.HasPrefix(line, "ss://") {
			out = append(out, line)
		}
	}
	return out
}

func logSkip(s proxy.Skip) {
	var se *proxy.SkipError
	if errors.As(s.Err, &se) && se.Reason == proxy.ReasonUnsupported && strings.TrimSpace(s.Raw) == "" {
		logger.Log.Debugf("Line %d: blank line skipped", s.Line)
		return
	}
	logger.Log.Warnf("Line %d skipped: %v", s.Line, s.Err)
}
