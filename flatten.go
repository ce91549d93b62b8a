package tweetsift

import (
	"slices"
	"strings"
)

// maxReferenceDepth bounds how deep referenced tweets are inlined.
const maxReferenceDepth = 5

// Flatten resolves the expansion references of every primary tweet in page
// against page.Includes and returns copies with the objects inlined. IDs whose
// expansion is missing stay in place with a nil inline field. The page itself
// is not modified.
func Flatten(page *Page) []*Tweet {
	if page == nil || len(page.Tweets) == 0 {
		return nil
	}
	idx := newIncludeIndex(page.Includes)
	out := make([]*Tweet, 0, len(page.Tweets))
	for _, t := range page.Tweets {
		if t == nil {
			continue
		}
		out = append(out, idx.expand(t, nil))
	}
	return out
}

type includeIndex struct {
	users       map[string]*User
	usersByName map[string]*User
	tweets      map[string]*Tweet
	media       map[string]*Media
	polls       map[string]*Poll
	places      map[string]*Place
}

func newIncludeIndex(inc Includes) *includeIndex {
	idx := &includeIndex{
		users:       make(map[string]*User, len(inc.Users)),
		usersByName: make(map[string]*User, len(inc.Users)),
		tweets:      make(map[string]*Tweet, len(inc.Tweets)),
		media:       make(map[string]*Media, len(inc.Media)),
		polls:       make(map[string]*Poll, len(inc.Polls)),
		places:      make(map[string]*Place, len(inc.Places)),
	}
	for _, u := range inc.Users {
		if u == nil {
			continue
		}
		idx.users[u.ID] = u
		idx.usersByName[strings.ToLower(u.Username)] = u
	}
	for _, t := range inc.Tweets {
		if t != nil {
			idx.tweets[t.ID] = t
		}
	}
	for _, m := range inc.Media {
		if m != nil {
			idx.media[m.MediaKey] = m
		}
	}
	for _, p := range inc.Polls {
		if p != nil {
			idx.polls[p.ID] = p
		}
	}
	for _, p := range inc.Places {
		if p != nil {
			idx.places[p.ID] = p
		}
	}
	return idx
}

// expand returns a copy of t with references inlined. path holds the tweet IDs
// already being expanded above t, so reference cycles terminate.
func (idx *includeIndex) expand(t *Tweet, path []string) *Tweet {
	cp := *t
	if u, ok := idx.users[t.AuthorID]; ok {
		cp.Author = u
	}
	if u, ok := idx.users[t.InReplyToUserID]; ok {
		cp.InReplyToUser = u
	}

	if t.Attachments != nil {
		att := *t.Attachments
		att.Media = nil
		att.Polls = nil
		for _, key := range att.MediaKeys {
			if m, ok := idx.media[key]; ok {
				att.Media = append(att.Media, m)
			}
		}
		for _, id := range att.PollIDs {
			if p, ok := idx.polls[id]; ok {
				att.Polls = append(att.Polls, p)
			}
		}
		cp.Attachments = &att
	}

	if t.Geo != nil {
		geo := *t.Geo
		geo.Place = idx.places[geo.PlaceID]
		cp.Geo = &geo
	}

	if t.Entities != nil && len(t.Entities.Mentions) > 0 {
		ent := *t.Entities
		ent.Mentions = make([]Mention, len(t.Entities.Mentions))
		for i, m := range t.Entities.Mentions {
			if u, ok := idx.usersByName[strings.ToLower(m.Username)]; ok {
				m.User = u
				if m.ID == "" {
					m.ID = u.ID
				}
			}
			ent.Mentions[i] = m
		}
		cp.Entities = &ent
	}

	if len(t.ReferencedTweets) > 0 {
		path = append(path[:len(path):len(path)], t.ID)
		refs := make([]ReferencedTweet, len(t.ReferencedTweets))
		for i, ref := range t.ReferencedTweets {
			ref.Tweet = nil
			if rt, ok := idx.tweets[ref.ID]; ok && len(path) <= maxReferenceDepth && !slices.Contains(path, ref.ID) {
				ref.Tweet = idx.expand(rt, path)
			}
			refs[i] = ref
		}
		cp.ReferencedTweets = refs
	}
	return &cp
}
