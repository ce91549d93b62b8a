// Package collector runs the collection pipeline: each query is searched page
// by page, results are flattened, filtered and written to a Sink.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	tweetsift "github.com/anatolykoptev/go-tweetsift"
)

const tracerName = "go-tweetsift/collector"

// Mode selects what is written for an accepted tweet.
type Mode int

const (
	// ModeProjection writes {created_at, text}.
	ModeProjection Mode = iota
	// ModeFull writes the whole flattened tweet.
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeProjection:
		return "projection"
	case ModeFull:
		return "full"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "projection" or "full".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "projection":
		return ModeProjection, nil
	case "full":
		return ModeFull, nil
	}
	return 0, &tweetsift.ConfigError{Field: "Mode", Reason: fmt.Sprintf("unknown mode %q", s)}
}

// Config describes one collection run.
type Config struct {
	// Queries are searched in order; all results go to the same sink.
	Queries []tweetsift.Query
	// Start and End bound created_at (UTC). Zero values are left to the API.
	Start time.Time
	End   time.Time
	// PageSize is max_results per page; zero means the API client default.
	PageSize int
	// Filter decides which tweets are kept. Nil keeps everything.
	Filter *tweetsift.Filter
	Mode   Mode
}

// Validate returns a *tweetsift.ConfigError describing the first problem.
func (c Config) Validate() error {
	if len(c.Queries) == 0 {
		return &tweetsift.ConfigError{Field: "Queries", Reason: "at least one query is required"}
	}
	for i, q := range c.Queries {
		if q.IsZero() {
			return &tweetsift.ConfigError{Field: "Queries", Reason: fmt.Sprintf("query %d is empty", i+1)}
		}
	}
	if !c.Start.IsZero() && !c.End.IsZero() && !c.Start.Before(c.End) {
		return &tweetsift.ConfigError{Field: "Start", Reason: "start must be before end"}
	}
	if c.PageSize != 0 && (c.PageSize < tweetsift.MinPageSize || c.PageSize > tweetsift.MaxPageSize) {
		return &tweetsift.ConfigError{
			Field:  "PageSize",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", tweetsift.MinPageSize, tweetsift.MaxPageSize, c.PageSize),
		}
	}
	if c.Mode != ModeProjection && c.Mode != ModeFull {
		return &tweetsift.ConfigError{Field: "Mode", Reason: c.Mode.String()}
	}
	return nil
}

// Stats counts what a run has seen so far.
type Stats struct {
	Queries  int
	Pages    int
	Total    int
	Accepted int
	Rejected int
}

// Collector runs queries against a Searcher and writes accepted tweets to a Sink.
type Collector struct {
	searcher tweetsift.Searcher
	sink     Sink
	cfg      Config
}

// New validates cfg and returns a Collector.
func New(searcher tweetsift.Searcher, sink Sink, cfg Config) (*Collector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Collector{searcher: searcher, sink: sink, cfg: cfg}, nil
}

// Run executes every query sequentially. The first search or write error stops
// the run; it is returned together with the counts reached so far, and the
// records already written stay in the sink.
func (c *Collector) Run(ctx context.Context) (Stats, error) {
	var st Stats
	for i, q := range c.cfg.Queries {
		if err := c.runQuery(ctx, i, q, &st); err != nil {
			return st, err
		}
		st.Queries++
	}
	slog.Info("collection finished",
		slog.Int("queries", st.Queries),
		slog.Int("pages", st.Pages),
		slog.Int("total", st.Total),
		slog.Int("accepted", st.Accepted),
		slog.Int("rejected", st.Rejected))
	return st, nil
}

func (c *Collector) runQuery(ctx context.Context, i int, q tweetsift.Query, st *Stats) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "collector.query")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.Int("query.index", i),
		attribute.Int("query.length", q.Len()),
	)

	slog.Info("search started", slog.Int("query", i+1), slog.Int("of", len(c.cfg.Queries)), slog.String("q", q.String()))

	req := tweetsift.SearchRequest{
		Query:      q,
		Start:      c.cfg.Start,
		End:        c.cfg.End,
		MaxResults: c.cfg.PageSize,
	}
	var pages int
	for page, err := range c.searcher.SearchAll(ctx, req) {
		if err != nil {
			return fmt.Errorf("query %d: %w", i+1, err)
		}
		st.Pages++

		tweets := tweetsift.Flatten(page)
		var accepted, rejected int
		for _, tw := range tweets {
			st.Total++
			if !c.cfg.Filter.AcceptTweet(tw) {
				st.Rejected++
				rejected++
				continue
			}
			if err := c.sink.Write(ctx, c.record(tw)); err != nil {
				return fmt.Errorf("write tweet %s: %w", tw.ID, err)
			}
			st.Accepted++
			accepted++
		}

		slog.Info("page collected",
			slog.Int("query", i+1),
			slog.Int("found", len(tweets)),
			slog.Int("accepted", accepted),
			slog.Int("rejected", rejected),
			slog.Int("total_accepted", st.Accepted),
			slog.Int("total_rejected", st.Rejected),
			slog.Int("total", st.Total))
		pages++
	}
	span.SetAttributes(
		attribute.Int("query.pages", pages),
		attribute.Int("collector.accepted", st.Accepted),
	)
	return nil
}

func (c *Collector) record(tw *tweetsift.Tweet) any {
	if c.cfg.Mode == ModeFull {
		return tw
	}
	return tw.Project()
}
