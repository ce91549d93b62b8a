// Command explore loads a collector output file (or a previously exported CSV)
// and prints per-day counts, entity mentions, word and cashtag frequencies.
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

	tweetsift "github.com/anatolykoptev/go-tweetsift"
	"github.com/anatolykoptev/go-tweetsift/explore"
)

type options struct {
	in        string
	csvOut    string
	sqliteOut string
	date      string
	entities  string
	stopwords string
	top       int
	verbose   bool
}

func main() {
	var o options
	flag.StringVar(&o.in, "in", "", "collector output (.txt/.jsonl) or exported .csv")
	flag.StringVar(&o.csvOut, "csv", "", "write the Date,Tweet table to this CSV file")
	flag.StringVar(&o.sqliteOut, "sqlite", "", "write the table to this SQLite file")
	flag.StringVar(&o.date, "date", "", "restrict word frequencies to one day (YYYY-MM-DD)")
	flag.StringVar(&o.entities, "entities", "", "comma-separated names to count per day")
	flag.StringVar(&o.stopwords, "stopwords", "", "comma-separated extra stopwords")
	flag.IntVar(&o.top, "top", 20, "entries in word and cashtag sections")
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
		slog.Error("explore failed", slog.Any("error", err))
		var ce *tweetsift.ConfigError
		if errors.As(err, &ce) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	if o.in == "" {
		return &tweetsift.ConfigError{Field: "in", Reason: "input file is required"}
	}

	tbl, err := load(o.in)
	if err != nil {
		return err
	}
	slog.Info("table loaded", slog.String("path", o.in), slog.Int("rows", tbl.Len()))

	if o.csvOut != "" {
		if err := tbl.WriteCSV(o.csvOut); err != nil {
			return err
		}
		slog.Info("csv written", slog.String("path", o.csvOut))
	}
	if o.sqliteOut != "" {
		if err := tbl.WriteSQLite(ctx, o.sqliteOut); err != nil {
			return err
		}
		slog.Info("sqlite written", slog.String("path", o.sqliteOut))
	}

	return tbl.WriteReport(os.Stdout, explore.ReportOptions{
		Date:      o.date,
		Entities:  splitList(o.entities),
		Stopwords: explore.Stopwords(splitList(o.stopwords)...),
		TopWords:  o.top,
	})
}

func load(path string) (*explore.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return explore.ReadCSV(path)
	case ".txt", ".jsonl", ".json":
		return explore.LoadJSONL(path)
	}
	return nil, &tweetsift.ConfigError{Field: "in", Reason: fmt.Sprintf("unsupported input %q", path)}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
