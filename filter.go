package tweetsift

import "strings"

// Filter decides whether a collected tweet is kept. Matching is raw,
// case-sensitive substring containment on the tweet text.
//
// A nil *Filter accepts everything.
type Filter struct {
	// Emoticons must match; an empty list accepts nothing.
	Emoticons []string
	// Tickers must also match when RequireTicker is set.
	Tickers       []string
	RequireTicker bool
}

// Accept reports whether text passes the filter.
func (f *Filter) Accept(text string) bool {
	if f == nil {
		return true
	}
	if !containsAny(text, f.Emoticons) {
		return false
	}
	if f.RequireTicker && !containsAny(text, f.Tickers) {
		return false
	}
	return true
}

// AcceptTweet applies Accept to the tweet text.
func (f *Filter) AcceptTweet(t *Tweet) bool {
	return f.Accept(t.Text)
}

// containsAny stops at the first term found in text.
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}
