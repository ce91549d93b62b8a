package explore

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

var (
	retweetRe = regexp.MustCompile(`RT`)
	handleRe  = regexp.MustCompile(`@\S+`)
	linkRe    = regexp.MustCompile(`https\S+`)
	wordRe    = regexp.MustCompile(`\w[\w']+`)
)

// PreprocessText prepares a tweet for word counting: "RT" markers and @handles
// are removed, the text is lowercased, then https links are removed.
func PreprocessText(s string) string {
	s = retweetRe.ReplaceAllString(s, "")
	s = handleRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	return linkRe.ReplaceAllString(s, "")
}

// JoinForWordCloud preprocesses every tweet and joins them with commas.
func (t *Table) JoinForWordCloud() string {
	parts := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		parts[i] = PreprocessText(r.Tweet)
	}
	return strings.Join(parts, ",")
}

// WordCount pairs a word with its number of occurrences.
type WordCount struct {
	Word  string
	Count int
}

// WordFrequencies counts words of at least two characters in text, skipping
// stopwords and trailing possessive "'s". The result is sorted by count, then
// word; limit > 0 keeps only the top limit entries.
func WordFrequencies(text string, stopwords map[string]struct{}, limit int) []WordCount {
	counts := make(map[string]int)
	for _, w := range wordRe.FindAllString(text, -1) {
		w = strings.ToLower(w)
		w = strings.TrimSuffix(w, "'s")
		if len(w) < 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		counts[w]++
	}
	return sortCounts(counts, limit)
}

func sortCounts(counts map[string]int, limit int) []WordCount {
	out := make([]WordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, WordCount{Word: w, Count: n})
	}
	slices.SortFunc(out, func(a, b WordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Stopwords returns the English stopword set plus the single letters left
// behind by stripped apostrophes, plus extra (lowercased).
func Stopwords(extra ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(englishStopwords)+len(extra)+3)
	for _, w := range englishStopwords {
		set[w] = struct{}{}
	}
	for _, w := range []string{"s", "t", "m"} {
		set[w] = struct{}{}
	}
	for _, w := range extra {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an",
	"and", "any", "are", "aren't", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "can't", "cannot",
	"com", "could", "couldn't", "did", "didn't", "do", "does", "doesn't", "doing",
	"don't", "down", "during", "each", "else", "ever", "few", "for", "from",
	"further", "get", "had", "hadn't", "has", "hasn't", "have", "haven't",
	"having", "he", "he'd", "he'll", "he's", "her", "here", "here's", "hers",
	"herself", "him", "himself", "his", "how", "how's", "however", "http", "i",
	"i'd", "i'll", "i'm", "i've", "if", "in", "into", "is", "isn't", "it", "it's",
	"its", "itself", "just", "k", "let's", "like", "me", "more", "most",
	"mustn't", "my", "myself", "no", "nor", "not", "of", "off", "on", "once",
	"only", "or", "other", "otherwise", "ought", "our", "ours", "ourselves",
	"out", "over", "own", "r", "same", "shall", "shan't", "she", "she'd",
	"she'll", "she's", "should", "shouldn't", "since", "so", "some", "such",
	"than", "that", "that's", "the", "their", "theirs", "them", "themselves",
	"then", "there", "there's", "these", "they", "they'd", "they'll", "they're",
	"they've", "this", "those", "through", "to", "too", "under", "until", "up",
	"very", "was", "wasn't", "we", "we'd", "we'll", "we're", "we've", "were",
	"weren't", "what", "what's", "when", "when's", "where", "where's", "which",
	"while", "who", "who's", "whom", "why", "why's", "with", "won't", "would",
	"wouldn't", "www", "you", "you'd", "you'll", "you're", "you've", "your",
	"yours", "yourself", "yourselves",
}
