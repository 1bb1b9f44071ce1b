package proxy

import (
	"golang.org/x/sync/errgroup"
)

// Skip records one dropped line. Line is 1-based.
type Skip struct {
	Line int
	Raw  string
	Err  error
}

// Parsed is an entry together with the line it came from.
type Parsed struct {
	Line  int
	Entry Entry
}

// Batch is the outcome of parsing a whole subscription.
// Entries and Skipped are both in input order.
type Batch struct {
	Total   int
	Entries []Parsed
	Skipped []Skip
}

type Options struct {
	// Workers bounds concurrent parsing. Values below 2 parse sequentially.
	Workers int
}

type result struct {
	entry Entry
	err   error
}

// ParseAll parses every line independently. A bad line never affects the
// others, and the output order does not depend on Workers.
func ParseAll(lines []string, opts Options) *Batch {
	results := make([]result, len(lines))

	if opts.Workers < 2 {
		for i, line := range lines {
			e, err := Parse(line)
			results[i] = result{entry: e, err: err}
		}
	} else {
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for i, line := range lines {
			g.Go(func() error {
				e, err := Parse(line)
				results[i] = result{entry: e, err: err}
				return nil
			})
		}
		_ = g.Wait()
	}

	b := &Batch{Total: len(lines)}
	for i, r := range results {
		if r.err != nil {
			b.Skipped = append(b.Skipped, Skip{Line: i + 1, Raw: lines[i], Err: r.err})
			continue
		}
		b.Entries = append(b.Entries, Parsed{Line: i + 1, Entry: r.entry})
	}
	return b
}

// List returns the entries without line numbers.
func (b *Batch) List() []Entry {
	out := make([]Entry, 0, len(b.Entries))
	for _, p := range b.Entries {
		out = append(out, p.Entry)
	}
	return out
}
