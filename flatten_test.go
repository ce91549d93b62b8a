package tweetsift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	page, err := parseSearchPage([]byte(samplePage))
	require.NoError(t, err)

	tweets := Flatten(page)
	require.Len(t, tweets, 2)

	first := tweets[0]
	require.NotNil(t, first.Author)
	assert.Equal(t, "alice", first.Author.Username)
	require.NotNil(t, first.Attachments)
	require.Len(t, first.Attachments.Media, 1)
	assert.Equal(t, "photo", first.Attachments.Media[0].Type)
	require.Len(t, first.Entities.Mentions, 1)
	require.NotNil(t, first.Entities.Mentions[0].User)
	assert.Equal(t, "11", first.Entities.Mentions[0].ID)

	require.Len(t, first.ReferencedTweets, 1)
	quoted := first.ReferencedTweets[0].Tweet
	require.NotNil(t, quoted)
	assert.Equal(t, "original", quoted.Text)
	require.NotNil(t, quoted.Author)
	assert.Equal(t, "bob", quoted.Author.Username)

	second := tweets[1]
	require.NotNil(t, second.Geo)
	require.NotNil(t, second.Geo.Place)
	assert.Equal(t, "GB", second.Geo.Place.CountryCode)

	// The raw page is left untouched.
	assert.Nil(t, page.Tweets[0].Author)
	assert.Nil(t, page.Tweets[0].ReferencedTweets[0].Tweet)
}

func TestFlatten_MissingExpansion(t *testing.T) {
	page := &Page{Tweets: []*Tweet{{
		ID:               "1",
		Text:             "hi",
		AuthorID:         "404",
		ReferencedTweets: []ReferencedTweet{{Type: "replied_to", ID: "gone"}},
	}}}

	tweets := Flatten(page)
	require.Len(t, tweets, 1)
	assert.Nil(t, tweets[0].Author)
	assert.Equal(t, "404", tweets[0].AuthorID)
	assert.Equal(t, "gone", tweets[0].ReferencedTweets[0].ID)
	assert.Nil(t, tweets[0].ReferencedTweets[0].Tweet)
}

func TestFlatten_ReferenceCycle(t *testing.T) {
	a := &Tweet{ID: "a", ReferencedTweets: []ReferencedTweet{{Type: "quoted", ID: "b"}}}
	b := &Tweet{ID: "b", ReferencedTweets: []ReferencedTweet{{Type: "quoted", ID: "a"}}}
	page := &Page{Tweets: []*Tweet{a}, Includes: Includes{Tweets: []*Tweet{a, b}}}

	tweets := Flatten(page)
	require.Len(t, tweets, 1)
	inner := tweets[0].ReferencedTweets[0].Tweet
	require.NotNil(t, inner)
	assert.Equal(t, "b", inner.ID)
	assert.Nil(t, inner.ReferencedTweets[0].Tweet, "cycle back to a must not be expanded")
}

func TestFlatten_Nil(t *testing.T) {
	assert.Nil(t, Flatten(nil))
	assert.Nil(t, Flatten(&Page{}))
}
