package tweetsift

import (
	"context"
	"fmt"
	"iter"
	"time"
)

// SearchRequest parameterizes one full-archive search.
type SearchRequest struct {
	Query Query
	Start time.Time
	End   time.Time
	// MaxResults is the page size, clamped to [MinPageSize, MaxPageSize].
	// Zero means DefaultPageSize.
	MaxResults int
}

func (r SearchRequest) pageSize() int {
	switch {
	case r.MaxResults == 0:
		return DefaultPageSize
	case r.MaxResults < MinPageSize:
		return MinPageSize
	case r.MaxResults > MaxPageSize:
		return MaxPageSize
	}
	return r.MaxResults
}

// Searcher produces the result pages of a search. Each range over the returned
// sequence restarts pagination from the first page.
type Searcher interface {
	SearchAll(ctx context.Context, req SearchRequest) iter.Seq2[*Page, error]
}

var _ Searcher = (*Client)(nil)

// SearchAll lazily pages through the full-archive results for req, one blocking
// request per page, following meta.next_token until it is absent. The first
// error is yielded once and ends the sequence.
func (c *Client) SearchAll(ctx context.Context, req SearchRequest) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		var token string
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			body, err := c.doGET(ctx, searchAllEndpoint, searchURL(c.cfg.BaseURL, req, token))
			if err != nil {
				yield(nil, fmt.Errorf("search %q: %w", req.Query, err))
				return
			}
			page, err := parseSearchPage(body)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page, nil) {
				return
			}
			if page.Meta.NextToken == "" {
				return
			}
			token = page.Meta.NextToken
		}
	}
}
