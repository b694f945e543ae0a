package feed

import (
	"context"

	"github.com/pkg/errors"
	"github.com/ymatsuda/picfeed/storage"
)

// Engine answers the three feed variants (global, global with viewer,
// user-scoped) with one parameterized query path, plus the single post
// detail view. It holds no mutable state; concurrent calls are independent.
type Engine struct {
	store storage.Accessor
}

func NewEngine(store storage.Accessor) *Engine {
	return &Engine{store: store}
}

// GetFeed returns one page of posts for the scope, ordered by
// (posted_at, id) descending. The id tie-break keeps pagination stable when
// timestamps collide.
//
// cursor, when set, is the id of the last post of the previous page; the
// page starts strictly after it. viewerID, when set, fills each row's
// ViewerHasFavorited; when nil the flag stays nil on every row.
func (e *Engine) GetFeed(ctx context.Context, scope Scope, viewerID *string, pageSize int, cursor *string) (*Page, error) {
	if pageSize < 1 {
		return &Page{Items: []*PostSummary{}}, nil
	}

	rows, err := e.store.FindPostPage(ctx, storage.PostPageQuery{
		AuthorID: scope.AuthorID(),
		ViewerID: viewerID,
		Cursor:   cursor,
		Limit:    pageSize,
	})
	if err != nil {
		return nil, err
	}

	page := Page{Items: make([]*PostSummary, 0, len(rows))}
	seen := make(map[string]bool, len(rows))
	for i := range rows {
		// A duplicated authorship row fans the join out into a repeated
		// post id. That breaks the no-duplicates guarantee, so it fails the
		// whole request instead of being silently collapsed.
		if seen[rows[i].Id] {
			return nil, errors.Wrapf(ErrIntegrity, "post %s", rows[i].Id)
		}
		seen[rows[i].Id] = true

		summary, err := summaryFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, summary)
	}

	// A full page may have more behind it; a short page is the end of the
	// feed. The cursor is page-level, not copied onto rows.
	if len(rows) == pageSize {
		last := rows[len(rows)-1].Id
		page.NextCursor = &last
	}
	return &page, nil
}

// GetPostDetail returns one post with its chronological comment list. The
// viewer is mandatory and the Favorited flag is an existence check on the
// (viewer, post) favorite row.
func (e *Engine) GetPostDetail(ctx context.Context, postID string, viewerID string) (*PostDetail, error) {
	rows, err := e.store.FindPostRows(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "post %s", postID)
	}
	// More than one row means duplicated authorship. Picking one silently
	// would attribute the post to an arbitrary author.
	if len(rows) > 1 {
		return nil, errors.Wrapf(ErrIntegrity, "post %s", postID)
	}

	summary, err := summaryFromRow(&rows[0])
	if err != nil {
		return nil, err
	}

	commentRows, err := e.store.FindComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments := make([]*CommentEntry, 0, len(commentRows))
	for _, c := range commentRows {
		comments = append(comments, &CommentEntry{
			Id:          c.Id,
			UserID:      c.UserID,
			NickName:    c.NickName,
			UserImgUrl:  c.UserImgUrl,
			Body:        c.Body,
			CommentedAt: c.CommentedAt,
		})
	}

	favorited := summary.ViewerHasFavorited != nil && *summary.ViewerHasFavorited

	return &PostDetail{
		Id:                summary.Id,
		ImageUrl:          summary.ImageUrl,
		Title:             summary.Title,
		Text:              summary.Text,
		PostedAt:          summary.PostedAt,
		FavoriteCount:     summary.FavoriteCount,
		CommentCount:      summary.CommentCount,
		Favorited:         favorited,
		AuthorID:          summary.AuthorID,
		AuthorNickName:    summary.AuthorNickName,
		AuthorImgUrl:      summary.AuthorImgUrl,
		AuthorProfileText: summary.AuthorProfileText,
		Comments:          comments,
	}, nil
}

// summaryFromRow validates and converts one storage row. A row without
// authorship fails the whole request, no partial results.
func summaryFromRow(row *storage.PostRow) (*PostSummary, error) {
	if row.AuthorID == nil || row.AuthorNickName == nil {
		return nil, errors.Wrapf(ErrIntegrity, "post %s", row.Id)
	}

	summary := PostSummary{
		Id:                 row.Id,
		ImageUrl:           row.ImageUrl,
		Title:              row.Title,
		Text:               row.Text,
		PostedAt:           row.PostedAt,
		FavoriteCount:      row.FavoriteCount,
		CommentCount:       row.CommentCount,
		ViewerHasFavorited: row.ViewerHasFavorited,
		AuthorID:           *row.AuthorID,
		AuthorNickName:     *row.AuthorNickName,
	}
	if row.AuthorImgUrl != nil {
		summary.AuthorImgUrl = *row.AuthorImgUrl
	}
	if row.AuthorProfileText != nil {
		summary.AuthorProfileText = *row.AuthorProfileText
	}
	return &summary, nil
}
