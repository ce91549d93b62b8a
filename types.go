package tweetsift

import (
	"strings"
	"time"
)

// timestampLayout is the created_at format used by the v2 API.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is a UTC instant that marshals in the API's own created_at format,
// so records written and read back keep byte-identical timestamps.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, normalised to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp parses an RFC 3339 timestamp with optional fractional seconds.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, err
	}
	return NewTimestamp(t), nil
}

// String formats the timestamp like the API does, e.g. 2022-06-28T10:00:00.000Z.
func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(timestampLayout)
}

// Day returns the UTC calendar day as YYYY-MM-DD.
func (ts Timestamp) Day() string {
	return ts.UTC().Format(time.DateOnly)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ts.String() + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Tweet is a v2 tweet. After Flatten, the reference fields (Author, InReplyToUser,
// Attachments.Media, Attachments.Polls, Geo.Place, ReferencedTweets[].Tweet,
// Entities.Mentions[].User) carry the resolved objects inline.
type Tweet struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	CreatedAt        Timestamp         `json:"created_at"`
	AuthorID         string            `json:"author_id,omitempty"`
	Author           *User             `json:"author,omitempty"`
	ConversationID   string            `json:"conversation_id,omitempty"`
	Lang             string            `json:"lang,omitempty"`
	Source           string            `json:"source,omitempty"`
	InReplyToUserID  string            `json:"in_reply_to_user_id,omitempty"`
	InReplyToUser    *User             `json:"in_reply_to_user,omitempty"`
	ReferencedTweets []ReferencedTweet `json:"referenced_tweets,omitempty"`
	Attachments      *Attachments      `json:"attachments,omitempty"`
	Geo              *Geo              `json:"geo,omitempty"`
	Entities         *Entities         `json:"entities,omitempty"`
	PublicMetrics    *TweetMetrics     `json:"public_metrics,omitempty"`
}

// ReferencedTweet is a retweet/quote/reply link to another tweet.
type ReferencedTweet struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Tweet *Tweet `json:"tweet,omitempty"`
}

type Attachments struct {
	MediaKeys []string `json:"media_keys,omitempty"`
	PollIDs   []string `json:"poll_ids,omitempty"`
	Media     []*Media `json:"media,omitempty"`
	Polls     []*Poll  `json:"polls,omitempty"`
}

type Geo struct {
	PlaceID string `json:"place_id,omitempty"`
	Place   *Place `json:"place,omitempty"`
}

type Entities struct {
	Hashtags []Tag     `json:"hashtags,omitempty"`
	Cashtags []Tag     `json:"cashtags,omitempty"`
	Mentions []Mention `json:"mentions,omitempty"`
	URLs     []URL     `json:"urls,omitempty"`
}

type Tag struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tag   string `json:"tag"`
}

type Mention struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Username string `json:"username"`
	ID       string `json:"id,omitempty"`
	User     *User  `json:"user,omitempty"`
}

type URL struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url,omitempty"`
}

type TweetMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

// User is a v2 user object as returned in includes.users.
type User struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Username      string       `json:"username"`
	CreatedAt     Timestamp    `json:"created_at,omitzero"`
	Description   string       `json:"description,omitempty"`
	Verified      bool         `json:"verified,omitempty"`
	PublicMetrics *UserMetrics `json:"public_metrics,omitempty"`
}

type UserMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	TweetCount     int `json:"tweet_count"`
	ListedCount    int `json:"listed_count"`
}

type Media struct {
	MediaKey string `json:"media_key"`
	Type     string `json:"type"`
	URL      string `json:"url,omitempty"`
	AltText  string `json:"alt_text,omitempty"`
}

type Poll struct {
	ID      string       `json:"id"`
	Options []PollOption `json:"options"`
}

type PollOption struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
	Votes    int    `json:"votes"`
}

type Place struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// Includes holds the expansion objects returned next to a page of tweets.
type Includes struct {
	Users  []*User  `json:"users,omitempty"`
	Tweets []*Tweet `json:"tweets,omitempty"`
	Media  []*Media `json:"media,omitempty"`
	Polls  []*Poll  `json:"polls,omitempty"`
	Places []*Place `json:"places,omitempty"`
}

// PageMeta is the pagination metadata of a search response.
type PageMeta struct {
	NewestID    string `json:"newest_id,omitempty"`
	OldestID    string `json:"oldest_id,omitempty"`
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token,omitempty"`
}

// PartialError is a non-fatal error reported inside a successful response,
// typically a referenced tweet or user that could not be expanded.
type PartialError struct {
	Title        string `json:"title"`
	Detail       string `json:"detail"`
	Type         string `json:"type"`
	ResourceType string `json:"resource_type,omitempty"`
	ResourceID   string `json:"resource_id,omitempty"`
	Value        string `json:"value,omitempty"`
}

// Page is one raw page of search results.
type Page struct {
	Tweets   []*Tweet
	Includes Includes
	Meta     PageMeta
	Errors   []PartialError
}

// Record is the reduced {created_at, text} projection written by the collector
// and read back by the explorer. Raw optionally holds the full source line.
type Record struct {
	CreatedAt Timestamp `json:"created_at"`
	Text      string    `json:"text"`
	Raw       []byte    `json:"-"`
}

// Project reduces a tweet to its Record.
func (t *Tweet) Project() Record {
	return Record{CreatedAt: t.CreatedAt, Text: t.Text}
}
