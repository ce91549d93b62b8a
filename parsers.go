package tweetsift

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
)

var tokenMentionRe = regexp.MustCompile(`\$([A-Z]{2,10})`)

// searchResponse is the raw full-archive search response body.
type searchResponse struct {
	Data     []*Tweet       `json:"data"`
	Includes Includes       `json:"includes"`
	Meta     PageMeta       `json:"meta"`
	Errors   []PartialError `json:"errors"`
}

// parseSearchPage parses one search response into a Page.
func parseSearchPage(body []byte) (*Page, error) {
	var raw searchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal search page: %w", err)
	}
	if len(raw.Data) == 0 && raw.Meta.ResultCount == 0 && len(raw.Errors) > 0 {
		return nil, fmt.Errorf("search API error: %s: %s", raw.Errors[0].Title, raw.Errors[0].Detail)
	}
	for _, e := range raw.Errors {
		slog.Debug("search partial error",
			slog.String("title", e.Title),
			slog.String("resource_type", e.ResourceType),
			slog.String("resource_id", e.ResourceID))
	}
	return &Page{
		Tweets:   raw.Data,
		Includes: raw.Includes,
		Meta:     raw.Meta,
		Errors:   raw.Errors,
	}, nil
}

// TokenMentions returns the distinct $TICKER symbols mentioned in text, in
// order of first appearance, without the leading "$". Matching is
// case-sensitive like Filter: "$aapl" is not a mention of AAPL.
func TokenMentions(text string) []string {
	matches := tokenMentionRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool)
	var result []string
	for _, m := range matches {
		if len(m) >= 2 && !seen[m[1]] {
			seen[m[1]] = true
			result = append(result, m[1])
		}
	}
	return result
}
