package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"subclash/internal/convert"
	"subclash/internal/proxy"
	"subclash/internal/render"
)

const (
	blankKey = "(blank)"
	noScheme = "(no scheme)"
	other    = "other"
)

// Collector tallies what happened to each line of a subscription.
type Collector struct {
	mu sync.Mutex

	lines     int
	protocols map[string]int

	parsed  int
	skipped int
	reasons map[string]int

	rendered       int
	renderFailures int
	diagnostics    int
	duplicates     int
}

func New() *Collector {
	return &Collector{
		protocols: make(map[string]int),
		reasons:   make(map[string]int),
	}
}

// RecordLine counts a decoded line under its URI scheme.
func (c *Collector) RecordLine(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines++
	c.protocols[schemeOf(line)]++
}

func (c *Collector) RecordParsed(proxy.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parsed++
}

func (c *Collector) RecordSkip(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.skipped++
	reason := other
	var se *proxy.SkipError
	if errors.As(err, &se) {
		reason = string(se.Reason)
	}
	c.reasons[reason]++
}

func (c *Collector) RecordRender(r render.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.diagnostics += len(r.Diagnostics)
	if r.Err != nil {
		c.renderFailures++
		return
	}
	c.rendered++
}

func (c *Collector) RecordDuplicates(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duplicates += n
}

// Observe records a whole pipeline result.
func (c *Collector) Observe(res *convert.Result) {
	for _, l := range res.Lines {
		c.RecordLine(l)
	}
	if res.Batch != nil {
		for _, p := range res.Batch.Entries {
			c.RecordParsed(p.Entry)
		}
		for _, s := range res.Batch.Skipped {
			c.RecordSkip(s.Err)
		}
	}
	for _, r := range res.Rendered {
		c.RecordRender(r)
	}
	c.RecordDuplicates(res.Duplicates)
}

// Summary is a point-in-time copy of the counters.
type Summary struct {
	Lines          int
	Protocols      map[string]int
	Parsed         int
	Skipped        int
	Reasons        map[string]int
	Rendered       int
	RenderFailures int
	Diagnostics    int
	Duplicates     int
}

func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Summary{
		Lines:          c.lines,
		Protocols:      copyCounts(c.protocols),
		Parsed:         c.parsed,
		Skipped:        c.skipped,
		Reasons:        copyCounts(c.reasons),
		Rendered:       c.rendered,
		RenderFailures: c.renderFailures,
		Diagnostics:    c.diagnostics,
		Duplicates:     c.duplicates,
	}
}

func (c *Collector) PrintReport(out io.Writer) error {
	s := c.Summary()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\n📊 \033[1mSUBSCRIPTION REPORT\033[0m")
	fmt.Fprintln(w, "────────────────────────────────────────")

	fmt.Fprintln(w, "\033[1;36m[ LINES ]\033[0m\t")
	fmt.Fprintf(w, "  Total Lines:\t%d\n", s.Lines)
	for _, k := range sortedKeys(s.Protocols) {
		fmt.Fprintf(w, "  %s:\t%d\n", k, s.Protocols[k])
	}
	fmt.Fprintln(w, "\t")

	fmt.Fprintln(w, "\033[1;36m[ PARSING ]\033[0m\t")
	fmt.Fprintf(w, "  Parsed:\t%d\n", s.Parsed)
	fmt.Fprintf(w, "  Skipped:\t%d\n", s.Skipped)
	for _, k := range sortedKeys(s.Reasons) {
		fmt.Fprintf(w, "    %s:\t%d\n", k, s.Reasons[k])
	}
	fmt.Fprintln(w, "\t")

	fmt.Fprintln(w, "\033[1;36m[ RENDERING ]\033[0m\t")
	fmt.Fprintf(w, "  Rendered:\t%d\n", s.Rendered)
	fmt.Fprintf(w, "  Failed:\t%d\n", s.RenderFailures)
	fmt.Fprintf(w, "  Plugin Diagnostics:\t%d\n", s.Diagnostics)
	if s.Duplicates > 0 {
		fmt.Fprintf(w, "  Duplicates Dropped:\t%d\n", s.Duplicates)
	}

	return w.Flush()
}

func schemeOf(line string) string {
	if strings.TrimSpace(line) == "" {
		return blankKey
	}
	scheme, _, ok := strings.Cut(strings.TrimSpace(line), "://")
	if !ok || scheme == "" {
		return noScheme
	}
	return strings.ToLower(scheme)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
