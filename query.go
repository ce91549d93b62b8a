package tweetsift

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is how many tokens go into one query.
	DefaultChunkSize = 75

	// MaxQueryLength is the provider's query length limit for full-archive search.
	MaxQueryLength = 1024
)

// Query is an immutable search query string. One Query maps to one search.
type Query struct {
	s string
}

// RawQuery wraps a caller-composed query such as
// "(#loveisland OR #LoveIsland) -is:retweet".
func RawQuery(s string) Query {
	return Query{s: strings.TrimSpace(s)}
}

func (q Query) String() string { return q.s }

// Len returns the query length in characters.
func (q Query) Len() int { return utf8.RuneCountInString(q.s) }

func (q Query) IsZero() bool { return q.s == "" }

// QueryBuilder composes token disjunctions with a fixed keyword disjunction and
// fixed modifiers.
type QueryBuilder struct {
	// Keywords are OR-ed together and AND-ed with the token group,
	// e.g. emoticons.
	Keywords []string
	// Lang restricts results to one language, e.g. "en". Empty disables it.
	Lang string
	// ExcludeRetweets adds -is:retweet.
	ExcludeRetweets bool
}

// Build composes one query:
//
//	(<token> OR ...) (<keyword> OR ...) lang:<lang> -is:retweet
//
// Empty groups and modifiers are left out.
func (b QueryBuilder) Build(tokens []string) Query {
	var parts []string
	if g := disjunction(tokens); g != "" {
		parts = append(parts, g)
	}
	if g := disjunction(b.Keywords); g != "" {
		parts = append(parts, g)
	}
	if b.Lang != "" {
		parts = append(parts, "lang:"+b.Lang)
	}
	if b.ExcludeRetweets {
		parts = append(parts, "-is:retweet")
	}
	q := Query{s: strings.Join(parts, " ")}
	if q.Len() > MaxQueryLength {
		slog.Warn("query exceeds provider length limit",
			slog.Int("length", q.Len()),
			slog.Int("limit", MaxQueryLength),
			slog.Int("tokens", len(tokens)))
	}
	return q
}

// BuildChunked splits tokens into groups of size and builds one query per group.
func (b QueryBuilder) BuildChunked(tokens []string, size int) []Query {
	chunks := Chunk(tokens, size)
	queries := make([]Query, 0, len(chunks))
	for _, c := range chunks {
		queries = append(queries, b.Build(c))
	}
	return queries
}

// Chunk splits items into consecutive groups of at most size elements,
// preserving order. A non-positive size yields a single group.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(items)
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

func disjunction(terms []string) string {
	var kept []string
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	switch len(kept) {
	case 0:
		return ""
	case 1:
		return kept[0]
	}
	return "(" + strings.Join(kept, " OR ") + ")"
}
