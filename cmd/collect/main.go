// Command collect searches the full tweet archive for ticker symbols and
// emoticons over a time window and writes the accepted tweets as JSON lines,
// optionally publishing them to NATS as well.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	tweetsift "github.com/anatolykoptev/go-tweetsift"
	"github.com/anatolykoptev/go-tweetsift/collector"
	"github.com/anatolykoptev/go-tweetsift/jsonl"
	"github.com/anatolykoptev/go-tweetsift/refdata"
)

type options struct {
	tickers         string
	tickersFormat   string
	tickersColumn   int
	tickersSelector string
	emoticons       string
	query           string
	start           string
	end             string
	pageSize        int
	chunk           int
	lang            string
	requireTicker   bool
	keepRetweets    bool
	full            bool
	outDir          string
	prefix          string
	natsURL         string
	subject         string
	verbose         bool
}

func main() {
	var o options
	flag.StringVar(&o.tickers, "tickers", "", "ticker listing file (csv, json or html)")
	flag.StringVar(&o.tickersFormat, "tickers-format", "", "listing format: csv, json or html (default: from extension)")
	flag.IntVar(&o.tickersColumn, "tickers-column", 0, "symbol column for csv/html listings")
	flag.StringVar(&o.tickersSelector, "tickers-selector", "table", "CSS selector of html listing tables")
	flag.StringVar(&o.emoticons, "emoticons", "", "emoticon file, one per line (default: built-in list)")
	flag.StringVar(&o.query, "query", "", "raw search query; replaces the ticker/emoticon queries")
	flag.StringVar(&o.start, "start", "2022-06-06T00:00:00Z", "window start (RFC3339)")
	flag.StringVar(&o.end, "end", "2022-06-30T00:00:00Z", "window end (RFC3339)")
	flag.IntVar(&o.pageSize, "page-size", tweetsift.DefaultPageSize, "results per page (10-500)")
	flag.IntVar(&o.chunk, "chunk", tweetsift.DefaultChunkSize, "tickers per query")
	flag.StringVar(&o.lang, "lang", "en", "language restriction (empty disables)")
	flag.BoolVar(&o.requireTicker, "require-ticker", true, "keep only tweets that also contain a ticker")
	flag.BoolVar(&o.keepRetweets, "retweets", false, "include retweets")
	flag.BoolVar(&o.full, "full", false, "write full flattened tweets instead of {created_at, text}")
	flag.StringVar(&o.outDir, "out", filepath.Join("data", "collected_data"), "output directory")
	flag.StringVar(&o.prefix, "prefix", "filtered_search_results", "output file prefix")
	flag.StringVar(&o.natsURL, "nats", envOr("NATS_URL", ""), "NATS URL; also publish accepted tweets when set")
	flag.StringVar(&o.subject, "subject", "tweetsift.tweets.filtered", "NATS subject")
	flag.BoolVar(&o.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o); err != nil {
		slog.Error("collect failed", slog.Any("error", err))
		var ce *tweetsift.ConfigError
		if errors.As(err, &ce) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	cfg, err := buildConfig(o)
	if err != nil {
		return err
	}

	client, err := tweetsift.NewClient(tweetsift.ConfigFromEnv())
	if err != nil {
		return err
	}

	path := jsonl.OutputPath(o.outDir, o.prefix, time.Now())
	file, err := collector.OpenFileSink(path)
	if err != nil {
		return err
	}
	sink := collector.Sink(file)

	if o.natsURL != "" {
		nc, err := nats.Connect(o.natsURL)
		if err != nil {
			file.Close()
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()
		slog.Info("publishing to NATS", slog.String("subject", o.subject))
		sink = collector.Tee(file, collector.NewNATSSink(nc, o.subject))
	}

	c, err := collector.New(client, sink, cfg)
	if err != nil {
		sink.Close()
		return err
	}

	slog.Info("collecting",
		slog.String("path", file.Path()),
		slog.Int("queries", len(cfg.Queries)),
		slog.Time("start", cfg.Start),
		slog.Time("end", cfg.End))

	st, runErr := c.Run(ctx)
	closeErr := sink.Close()
	slog.Info("output written",
		slog.String("path", file.Path()),
		slog.Int("lines", file.Count()),
		slog.Int("pages", st.Pages))
	if runErr != nil {
		return runErr
	}
	return closeErr
}

func buildConfig(o options) (collector.Config, error) {
	start, end, err := parseWindow(o.start, o.end)
	if err != nil {
		return collector.Config{}, err
	}

	emoticons := refdata.DefaultEmoticons
	if o.emoticons != "" {
		if emoticons, err = refdata.LoadLines(o.emoticons); err != nil {
			return collector.Config{}, err
		}
	}

	var tickers []string
	if o.tickers != "" {
		if tickers, err = loadTickers(o); err != nil {
			return collector.Config{}, err
		}
		tickers = refdata.Cashtags(tickers)
	}

	var queries []tweetsift.Query
	switch {
	case o.query != "":
		queries = []tweetsift.Query{tweetsift.RawQuery(o.query)}
	case len(tickers) > 0:
		b := tweetsift.QueryBuilder{
			Keywords:        emoticons,
			Lang:            o.lang,
			ExcludeRetweets: !o.keepRetweets,
		}
		queries = b.BuildChunked(tickers, o.chunk)
	default:
		return collector.Config{}, &tweetsift.ConfigError{Field: "tickers", Reason: "either -tickers or -query is required"}
	}

	mode := collector.ModeProjection
	if o.full {
		mode = collector.ModeFull
	}
	cfg := collector.Config{
		Queries:  queries,
		Start:    start,
		End:      end,
		PageSize: o.pageSize,
		Mode:     mode,
	}
	// A bare raw query keeps everything it returns.
	if o.query == "" || o.tickers != "" || o.emoticons != "" {
		cfg.Filter = &tweetsift.Filter{
			Emoticons:     emoticons,
			Tickers:       tickers,
			RequireTicker: o.requireTicker && len(tickers) > 0,
		}
	}
	return cfg, cfg.Validate()
}

func parseWindow(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return time.Time{}, time.Time{}, &tweetsift.ConfigError{Field: "start", Reason: err.Error()}
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return time.Time{}, time.Time{}, &tweetsift.ConfigError{Field: "end", Reason: err.Error()}
	}
	return s.UTC(), e.UTC(), nil
}

func loadTickers(o options) ([]string, error) {
	format := o.tickersFormat
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(o.tickers)), ".")
	}
	switch format {
	case "csv":
		return refdata.LoadTickersCSV(o.tickers, o.tickersColumn)
	case "json":
		return refdata.LoadTickersJSON(o.tickers)
	case "html", "htm":
		return refdata.LoadTickersHTML(o.tickers, o.tickersSelector, o.tickersColumn)
	case "txt":
		return refdata.LoadLines(o.tickers)
	}
	return nil, &tweetsift.ConfigError{Field: "tickers-format", Reason: fmt.Sprintf("unsupported format %q", format)}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
