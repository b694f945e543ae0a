package feed

import (
	"time"

	"github.com/pkg/errors"
)

// Error kinds surfaced by the engine. Storage errors pass through wrapped but
// otherwise untranslated.
var (
	// ErrNotFound means the requested post does not exist. An empty feed page
	// is not ErrNotFound.
	ErrNotFound = errors.New("post not found")

	// ErrIntegrity means a fetched post had zero or multiple authorship
	// rows. This is a broken invariant elsewhere in the system and is
	// surfaced loudly rather than silently defaulted.
	ErrIntegrity = errors.New("broken post authorship")
)

// Scope selects which posts a feed query covers: every post, or only the
// posts authored by one user.
type Scope struct {
	userID *string
}

func GlobalScope() Scope {
	return Scope{}
}

func UserScope(userID string) Scope {
	return Scope{userID: &userID}
}

// AuthorID returns the scoped author id, nil for the global scope.
func (s Scope) AuthorID() *string {
	return s.userID
}

// PostSummary is one feed row enriched for display.
// ViewerHasFavorited is nil when the query had no viewer; it is never
// guessed.
type PostSummary struct {
	Id            string    `json:"id"`
	ImageUrl      string    `json:"imageUrl"`
	Title         string    `json:"title"`
	Text          string    `json:"text"`
	PostedAt      time.Time `json:"postedAt"`
	FavoriteCount int64     `json:"favoriteCount"`
	CommentCount  int64     `json:"commentCount"`

	ViewerHasFavorited *bool `json:"viewerHasFavorited"`

	AuthorID          string `json:"authorId"`
	AuthorNickName    string `json:"authorNickName"`
	AuthorImgUrl      string `json:"authorImgUrl"`
	AuthorProfileText string `json:"authorProfileText"`
}

// Page is one page of feed results. NextCursor is page-level metadata: the id
// of the last returned post when the page is full, nil when the feed is
// exhausted.
type Page struct {
	Items      []*PostSummary `json:"items"`
	NextCursor *string        `json:"nextCursor"`
}

// CommentEntry is one comment of a post, with the commenting user's identity.
type CommentEntry struct {
	Id          string    `json:"id"`
	UserID      string    `json:"userId"`
	NickName    string    `json:"nickName"`
	UserImgUrl  string    `json:"userImgUrl"`
	Body        string    `json:"body"`
	CommentedAt time.Time `json:"commentedAt"`
}

// PostDetail is a single post with its full comment list. Unlike the feed,
// the viewer is always known here, so Favorited is a plain bool.
type PostDetail struct {
	Id            string    `json:"id"`
	ImageUrl      string    `json:"imageUrl"`
	Title         string    `json:"title"`
	Text          string    `json:"text"`
	PostedAt      time.Time `json:"postedAt"`
	FavoriteCount int64     `json:"favoriteCount"`
	CommentCount  int64     `json:"commentCount"`
	Favorited     bool      `json:"favorited"`

	AuthorID          string `json:"authorId"`
	AuthorNickName    string `json:"authorNickName"`
	AuthorImgUrl      string `json:"authorImgUrl"`
	AuthorProfileText string `json:"authorProfileText"`

	Comments []*CommentEntry `json:"comments"`
}
