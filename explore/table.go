// Package explore loads collected tweets into a date/text table and derives
// simple statistics from it: per-day counts, entity mentions, word
// frequencies and cashtag counts.
package explore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tweetsift "github.com/anatolykoptev/go-tweetsift"
	"github.com/anatolykoptev/go-tweetsift/jsonl"
)

// Row is one collected tweet reduced to its UTC calendar day and text.
type Row struct {
	Date  string
	Tweet string
}

// Table holds rows in the order they were read.
type Table struct {
	Rows []Row
}

// FromRecords builds a table from decoded records.
func FromRecords(recs []tweetsift.Record) *Table {
	t := &Table{Rows: make([]Row, 0, len(recs))}
	for _, r := range recs {
		t.Rows = append(t.Rows, Row{Date: r.CreatedAt.Day(), Tweet: r.Text})
	}
	return t
}

// LoadJSONL reads a collector output file. Lines written in full mode load
// the same way as projected ones.
func LoadJSONL(path string) (*Table, error) {
	recs, err := jsonl.ReadAll(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("tweets loaded", slog.String("path", path), slog.Int("count", len(recs)))
	return FromRecords(recs), nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

var csvHeader = []string{"Date", "Tweet"}

// WriteCSV writes the table with a Date,Tweet header.
func (t *Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.writeCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (t *Table) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range t.Rows {
		if err := cw.Write([]string{r.Date, r.Tweet}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV. Columns are located by header
// name, so files with a leading unnamed index column load too.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func readCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, err
	}
	dateCol := slices.Index(header, "Date")
	tweetCol := slices.Index(header, "Tweet")
	if dateCol < 0 || tweetCol < 0 {
		return nil, fmt.Errorf("header %q lacks Date and Tweet columns", header)
	}

	t := &Table{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		if dateCol >= len(rec) || tweetCol >= len(rec) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %d fields", line, len(rec))
		}
		t.Rows = append(t.Rows, Row{Date: rec[dateCol], Tweet: rec[tweetCol]})
	}
}

// OnDate returns the rows whose date equals date (YYYY-MM-DD).
func (t *Table) OnDate(date string) *Table {
	out := &Table{}
	for _, r := range t.Rows {
		if r.Date == date {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Dates returns the distinct dates in order of first appearance.
func (t *Table) Dates() []string {
	seen := make(map[string]bool)
	var dates []string
	for _, r := range t.Rows {
		if !seen[r.Date] {
			seen[r.Date] = true
			dates = append(dates, r.Date)
		}
	}
	return dates
}

// DateCount is the number of tweets on a day.
type DateCount struct {
	Date  string
	Count int
}

// CountByDate returns tweets per day sorted by date.
func (t *Table) CountByDate() []DateCount {
	counts := make(map[string]int)
	for _, r := range t.Rows {
		counts[r.Date]++
	}
	out := make([]DateCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DateCount{Date: d, Count: n})
	}
	slices.SortFunc(out, func(a, b DateCount) int { return strings.Compare(a.Date, b.Date) })
	return out
}

// MentionsByDate counts, per entity and per date, the tweets whose text
// contains the entity (case-sensitive). Every date of the table is present for
// every entity; days without a mention count 0.
func (t *Table) MentionsByDate(entities []string) map[string]map[string]int {
	dates := t.Dates()
	out := make(map[string]map[string]int, len(entities))
	for _, e := range entities {
		perDate := make(map[string]int, len(dates))
		for _, d := range dates {
			perDate[d] = 0
		}
		out[e] = perDate
	}
	for _, r := range t.Rows {
		for _, e := range entities {
			if e != "" && strings.Contains(r.Tweet, e) {
				out[e][r.Date]++
			}
		}
	}
	return out
}

// CashtagCounts counts the tweets mentioning each $TICKER, most mentioned
// first. A tweet counts once per ticker. Only uppercase cashtags count, the
// same way the collector filter matches them.
func (t *Table) CashtagCounts() []WordCount {
	counts := make(map[string]int)
	for _, r := range t.Rows {
		for _, sym := range tweetsift.TokenMentions(r.Tweet) {
			counts["$"+sym]++
		}
	}
	return sortCounts(counts, 0)
}
