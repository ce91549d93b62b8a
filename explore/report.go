package explore

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// ReportOptions selects the optional sections of a report.
type ReportOptions struct {
	// Date restricts the word frequency section to one day. Empty means all rows.
	Date string
	// Entities adds a per-day mention table.
	Entities []string
	// Stopwords are excluded from word frequencies; nil means Stopwords().
	Stopwords map[string]struct{}
	// TopWords bounds the word and cashtag sections.
	TopWords int
}

// WriteReport writes a tab-aligned text summary of t to w.
func (t *Table) WriteReport(w io.Writer, opts ReportOptions) error {
	if opts.TopWords <= 0 {
		opts.TopWords = 20
	}
	if opts.Stopwords == nil {
		opts.Stopwords = Stopwords()
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Tweets per day (%d total)\n", t.Len())
	for _, dc := range t.CountByDate() {
		fmt.Fprintf(tw, "  %s\t%d\n", dc.Date, dc.Count)
	}

	if len(opts.Entities) > 0 {
		dates := t.Dates()
		mentions := t.MentionsByDate(opts.Entities)
		fmt.Fprintf(tw, "\nMentions per day\n  entity\t%s\n", strings.Join(dates, "\t"))
		for _, e := range opts.Entities {
			fmt.Fprintf(tw, "  %s", e)
			for _, d := range dates {
				fmt.Fprintf(tw, "\t%d", mentions[e][d])
			}
			fmt.Fprintln(tw)
		}
	}

	words := t
	title := "Top words"
	if opts.Date != "" {
		words = t.OnDate(opts.Date)
		title = fmt.Sprintf("Top words on %s (%d tweets)", opts.Date, words.Len())
	}
	fmt.Fprintf(tw, "\n%s\n", title)
	for _, wc := range WordFrequencies(words.JoinForWordCloud(), opts.Stopwords, opts.TopWords) {
		fmt.Fprintf(tw, "  %s\t%d\n", wc.Word, wc.Count)
	}

	if tags := t.CashtagCounts(); len(tags) > 0 {
		fmt.Fprintf(tw, "\nCashtags\n")
		for i, wc := range tags {
			if i == opts.TopWords {
				break
			}
			fmt.Fprintf(tw, "  %s\t%d\n", wc.Word, wc.Count)
		}
	}
	return tw.Flush()
}
