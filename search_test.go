package tweetsift

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponse struct {
	status  int
	body    string
	headers map[string]string
	err     error
}

type fakeCall struct {
	method  string
	url     string
	headers map[string]string
}

// fakeDoer replays responses in order, cycling when it runs out.
type fakeDoer struct {
	responses []fakeResponse
	calls     []fakeCall
}

func (f *fakeDoer) DoWithHeaderOrder(method, urlStr string, headers map[string]string, _ io.Reader, _ []string) ([]byte, map[string]string, int, error) {
	f.calls = append(f.calls, fakeCall{method: method, url: urlStr, headers: headers})
	if len(f.responses) == 0 {
		return nil, nil, 0, fmt.Errorf("no response configured")
	}
	r := f.responses[(len(f.calls)-1)%len(f.responses)]
	return []byte(r.body), r.headers, r.status, r.err
}

func newTestClient(d doer, hook func(string, bool, bool)) *Client {
	cfg := ClientConfig{
		BearerToken:     "test-token",
		BaseURL:         "https://api.example.test",
		RequestInterval: time.Millisecond,
		MetricsHook:     hook,
	}
	cfg.defaults()
	return newClient(cfg, d)
}

func pageBody(ids []string, next string) string {
	data := ""
	for i, id := range ids {
		if i > 0 {
			data += ","
		}
		data += fmt.Sprintf(`{"id":%q,"text":"tweet %s","created_at":"2022-06-28T10:00:00.000Z"}`, id, id)
	}
	meta := fmt.Sprintf(`{"result_count":%d`, len(ids))
	if next != "" {
		meta += fmt.Sprintf(`,"next_token":%q`, next)
	}
	meta += "}"
	return fmt.Sprintf(`{"data":[%s],"meta":%s}`, data, meta)
}

func searchRequest() SearchRequest {
	return SearchRequest{
		Query:      RawQuery("$AAPL 🙂 -is:retweet"),
		Start:      time.Date(2022, 6, 6, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC),
		MaxResults: 100,
	}
}

func TestSearchAll_Paginates(t *testing.T) {
	d := &fakeDoer{responses: []fakeResponse{
		{status: 200, body: pageBody([]string{"1", "2"}, "tok2")},
		{status: 200, body: pageBody([]string{"3"}, "")},
	}}
	c := newTestClient(d, nil)

	var ids []string
	for page, err := range c.SearchAll(context.Background(), searchRequest()) {
		require.NoError(t, err)
		for _, tw := range page.Tweets {
			ids = append(ids, tw.ID)
		}
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
	require.Len(t, d.calls, 2)

	first, err := url.Parse(d.calls[0].url)
	require.NoError(t, err)
	assert.Equal(t, "/2/tweets/search/all", first.Path)
	q := first.Query()
	assert.Equal(t, "$AAPL 🙂 -is:retweet", q.Get("query"))
	assert.Equal(t, "2022-06-06T00:00:00Z", q.Get("start_time"))
	assert.Equal(t, "2022-06-30T00:00:00Z", q.Get("end_time"))
	assert.Equal(t, "100", q.Get("max_results"))
	assert.Empty(t, q.Get("next_token"))
	assert.Contains(t, q.Get("expansions"), "author_id")
	assert.Equal(t, "Bearer test-token", d.calls[0].headers["authorization"])

	second, err := url.Parse(d.calls[1].url)
	require.NoError(t, err)
	assert.Equal(t, "tok2", second.Query().Get("next_token"))
}

func TestSearchAll_Restartable(t *testing.T) {
	d := &fakeDoer{responses: []fakeResponse{
		{status: 200, body: pageBody([]string{"1"}, "tok2")},
		{status: 200, body: pageBody([]string{"2"}, "")},
	}}
	c := newTestClient(d, nil)
	seq := c.SearchAll(context.Background(), searchRequest())

	count := func() int {
		n := 0
		for page, err := range seq {
			require.NoError(t, err)
			n += len(page.Tweets)
		}
		return n
	}
	assert.Equal(t, 2, count())
	assert.Equal(t, 2, count())
	require.Len(t, d.calls, 4)
	u, err := url.Parse(d.calls[2].url)
	require.NoError(t, err)
	assert.Empty(t, u.Query().Get("next_token"), "second range starts from the first page")
}

func TestSearchAll_EarlyBreak(t *testing.T) {
	d := &fakeDoer{responses: []fakeResponse{
		{status: 200, body: pageBody([]string{"1"}, "tok2")},
	}}
	c := newTestClient(d, nil)
	for range c.SearchAll(context.Background(), searchRequest()) {
		break
	}
	assert.Len(t, d.calls, 1)
}

func TestSearchAll_RateLimited(t *testing.T) {
	reset := time.Now().Add(10 * time.Minute).Unix()
	d := &fakeDoer{responses: []fakeResponse{{
		status:  429,
		body:    `{"title":"Too Many Requests","detail":"Too Many Requests","type":"about:blank","status":429}`,
		headers: map[string]string{"x-rate-limit-reset": strconv.FormatInt(reset, 10)},
	}}}
	var limited int
	c := newTestClient(d, func(_ string, _ bool, rateLimited bool) {
		if rateLimited {
			limited++
		}
	})

	var gotErr error
	for _, err := range c.SearchAll(context.Background(), searchRequest()) {
		gotErr = err
	}
	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, ErrRateLimited)
	var rle *RateLimitError
	require.ErrorAs(t, gotErr, &rle)
	assert.Equal(t, reset, rle.Until.Unix())
	assert.False(t, rle.Capped)

	// Still inside the window: fail fast without another request.
	for _, err := range c.SearchAll(context.Background(), searchRequest()) {
		assert.ErrorIs(t, err, ErrRateLimited)
	}
	assert.Len(t, d.calls, 1)
	assert.Equal(t, 2, limited)
}

func TestSearchAll_Unauthorized(t *testing.T) {
	d := &fakeDoer{responses: []fakeResponse{{
		status: 401,
		body:   `{"title":"Unauthorized","type":"about:blank","status":401,"detail":"Unauthorized"}`,
	}}}
	c := newTestClient(d, nil)

	var gotErr error
	for _, err := range c.SearchAll(context.Background(), searchRequest()) {
		gotErr = err
	}
	var apiErr *APIError
	require.ErrorAs(t, gotErr, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.True(t, apiErr.Unauthorized())
}

func TestSearchAll_TransportError(t *testing.T) {
	boom := errors.New("connection reset")
	d := &fakeDoer{responses: []fakeResponse{{err: boom}}}
	c := newTestClient(d, nil)

	var gotErr error
	for _, err := range c.SearchAll(context.Background(), searchRequest()) {
		gotErr = err
	}
	assert.ErrorIs(t, gotErr, boom)
}

func TestSearchAll_CancelledContext(t *testing.T) {
	d := &fakeDoer{responses: []fakeResponse{{status: 200, body: pageBody([]string{"1"}, "")}}}
	c := newTestClient(d, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	for _, err := range c.SearchAll(ctx, searchRequest()) {
		gotErr = err
	}
	assert.ErrorIs(t, gotErr, context.Canceled)
	assert.Empty(t, d.calls)
}

func TestSearchRequest_PageSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultPageSize},
		{5, MinPageSize},
		{100, 100},
		{1000, MaxPageSize},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SearchRequest{MaxResults: tt.in}.pageSize(), "MaxResults=%d", tt.in)
	}
}
