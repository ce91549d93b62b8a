// Package refdata loads the static reference lists a collection run filters
// on: ticker symbols from exchange listings and emoticon/keyword lists.
package refdata

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultEmoticons is used when no emoticon file is given.
var DefaultEmoticons = []string{
	"🙂", "😀", "😃", "😄", "😁", "😊", "😍", "🤑", "🚀", "📈",
	"🙁", "😞", "😢", "😭", "😡", "😱", "📉", "💀", "🤡", "🔥",
}

// LoadTickersCSV reads symbols from a fixed column of a CSV listing,
// skipping the header row. Rows too short for column are skipped.
func LoadTickersCSV(path string, column int) ([]string, error) {
	if column < 0 {
		return nil, fmt.Errorf("column must be >= 0, got %d", column)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var symbols []string
	for row := 0; ; row++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if row == 0 || column >= len(rec) {
			continue
		}
		if s := strings.TrimSpace(rec[column]); s != "" {
			symbols = append(symbols, s)
		}
	}
	return Dedupe(symbols), nil
}

// listing is one entry of a JSON exchange listing. NASDAQ files key the
// symbol as "Symbol", NYSE/other files as "ACT Symbol".
type listing struct {
	Symbol    string `json:"Symbol"`
	ACTSymbol string `json:"ACT Symbol"`
}

// LoadTickersJSON reads symbols from a JSON array of listing objects.
func LoadTickersJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []listing
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	symbols := make([]string, 0, len(rows))
	for _, row := range rows {
		s := row.Symbol
		if s == "" {
			s = row.ACTSymbol
		}
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	return Dedupe(symbols), nil
}

// LoadTickersHTML reads symbols from column of every row of the tables matched
// by selector in a saved HTML listing page. Header rows (th only) are skipped.
func LoadTickersHTML(path, selector string, column int) ([]string, error) {
	if column < 0 {
		return nil, fmt.Errorf("column must be >= 0, got %d", column)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if selector == "" {
		selector = "table"
	}

	var symbols []string
	doc.Find(selector).Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if column >= cells.Length() {
			return
		}
		if s := strings.TrimSpace(cells.Eq(column).Text()); s != "" {
			symbols = append(symbols, s)
		}
	})
	return Dedupe(symbols), nil
}

// LoadLines reads one token per line, ignoring blank lines and # comments.
func LoadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Dedupe(out), nil
}

// Cashtags prefixes each symbol with "$" unless it already has one.
func Cashtags(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if !strings.HasPrefix(s, "$") {
			s = "$" + s
		}
		out = append(out, s)
	}
	return out
}

// Dedupe drops repeated entries, keeping the first occurrence's position.
func Dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
