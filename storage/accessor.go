package storage

import (
	"context"
	"time"
)

// Accessor is the read interface the feed engine depends on. It never
// mutates. Implementations must bundle aggregate counts, author identity and
// the viewer flag into the row fetch itself rather than issuing one query per
// row. The production implementation is GormAccessor, tests swap in a double.
type Accessor interface {
	// FindPostPage returns one page of post rows matching the query, ordered
	// by (posted_at, id) descending.
	FindPostPage(ctx context.Context, query PostPageQuery) ([]PostRow, error)

	// FindPostRows returns every enriched row matching a single post id:
	// empty when the post does not exist, one row for a healthy post, and
	// one row per authorship row when the authorship invariant is broken.
	// Cardinality is the caller's to judge.
	FindPostRows(ctx context.Context, postID string, viewerID string) ([]PostRow, error)

	// FindComments returns all comments of a post with commenter identity,
	// oldest first.
	FindComments(ctx context.Context, postID string) ([]CommentRow, error)

	CountFavorites(ctx context.Context, postID string) (int64, error)
	CountComments(ctx context.Context, postID string) (int64, error)
	FavoriteExists(ctx context.Context, userID string, postID string) (bool, error)
}

// PostPageQuery parameterizes a single page read.
//
// AuthorID: when set, only posts authored by this user
// ViewerID: when set, compute the viewer-favorite flag for each row
// Cursor: when set, only rows strictly after this post in feed order
// Limit: page size, at least 1
type PostPageQuery struct {
	AuthorID *string
	ViewerID *string
	Cursor   *string
	Limit    int
}

// PostRow is one post as read from the store, enriched in the same query.
// Author fields are pointers so a missing authorship row is observable
// instead of being masked by zero values. ViewerHasFavorited is nil when the
// query had no viewer.
type PostRow struct {
	Id       string
	ImageUrl string
	Title    string
	Text     string
	PostedAt time.Time

	AuthorID          *string
	AuthorNickName    *string
	AuthorImgUrl      *string
	AuthorProfileText *string

	FavoriteCount      int64
	CommentCount       int64
	ViewerHasFavorited *bool
}

// CommentRow is one comment joined with the commenting user's identity.
type CommentRow struct {
	Id          string
	PostID      string
	UserID      string
	Body        string
	CommentedAt time.Time
	NickName    string
	UserImgUrl  string
}
