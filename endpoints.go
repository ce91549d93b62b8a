package tweetsift

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	apiBaseURL = "https://api.twitter.com"

	// searchAllPath is the full-archive search endpoint.
	searchAllPath = "/2/tweets/search/all"

	// searchAllEndpoint names the operation in logs, metrics and rate-limit state.
	searchAllEndpoint = "search/all"
)

// Bounds on max_results accepted by the full-archive endpoint.
const (
	MinPageSize     = 10
	MaxPageSize     = 500
	DefaultPageSize = 100
)

// searchExpansions are the reference IDs the API is asked to resolve into
// includes, so Flatten can inline them.
var searchExpansions = []string{
	"author_id",
	"in_reply_to_user_id",
	"referenced_tweets.id",
	"referenced_tweets.id.author_id",
	"entities.mentions.username",
	"attachments.media_keys",
	"attachments.poll_ids",
	"geo.place_id",
}

// searchFields maps each *.fields parameter to the fields requested.
var searchFields = map[string][]string{
	"tweet.fields": {
		"author_id", "conversation_id", "created_at", "entities", "geo", "id",
		"in_reply_to_user_id", "lang", "public_metrics", "referenced_tweets",
		"source", "text", "attachments",
	},
	"user.fields":  {"created_at", "description", "id", "name", "public_metrics", "username", "verified"},
	"media.fields": {"alt_text", "media_key", "type", "url"},
	"poll.fields":  {"id", "options"},
	"place.fields": {"country", "country_code", "full_name", "id"},
}

// searchURL builds the full-archive search URL for one page.
func searchURL(base string, req SearchRequest, nextToken string) string {
	v := url.Values{}
	v.Set("query", req.Query.String())
	if !req.Start.IsZero() {
		v.Set("start_time", req.Start.UTC().Format(time.RFC3339))
	}
	if !req.End.IsZero() {
		v.Set("end_time", req.End.UTC().Format(time.RFC3339))
	}
	v.Set("max_results", strconv.Itoa(req.pageSize()))
	v.Set("expansions", strings.Join(searchExpansions, ","))
	for param, fields := range searchFields {
		v.Set(param, strings.Join(fields, ","))
	}
	if nextToken != "" {
		v.Set("next_token", nextToken)
	}
	return base + searchAllPath + "?" + v.Encode()
}
