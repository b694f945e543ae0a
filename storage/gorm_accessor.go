package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/ymatsuda/picfeed/model"
	"gorm.io/gorm"
)

// baseSelect pulls the post columns, author identity and both aggregate
// counts in one statement. The viewer flag column is appended only when a
// viewer is known, so anonymous reads never compute it.
const baseSelect = `posts.id, posts.image_url, posts.title, posts.text, posts.posted_at,
users.id AS author_id, users.nick_name AS author_nick_name,
users.user_img_url AS author_img_url, users.profile_text AS author_profile_text,
(SELECT COUNT(*) FROM favorites WHERE favorites.post_id = posts.id) AS favorite_count,
(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count`

const viewerSelect = `,
EXISTS(SELECT 1 FROM favorites WHERE favorites.post_id = posts.id AND favorites.user_id = ?) AS viewer_has_favorited`

// GormAccessor implements Accessor on top of a gorm Postgres handle.
type GormAccessor struct {
	db *gorm.DB
}

func NewGormAccessor(db *gorm.DB) *GormAccessor {
	return &GormAccessor{db: db}
}

func (a *GormAccessor) FindPostPage(ctx context.Context, query PostPageQuery) ([]PostRow, error) {
	tx := a.db.WithContext(ctx).Model(&model.Post{})

	if query.ViewerID != nil {
		tx = tx.Select(baseSelect+viewerSelect, *query.ViewerID)
	} else {
		tx = tx.Select(baseSelect)
	}

	tx = tx.
		Joins("LEFT JOIN post_authors ON post_authors.post_id = posts.id").
		Joins("LEFT JOIN users ON users.id = post_authors.user_id")

	if query.AuthorID != nil {
		tx = tx.Where("post_authors.user_id = ?", *query.AuthorID)
	}
	if query.Cursor != nil {
		// Seek pagination: everything strictly after the cursor row in feed
		// order, resolved in the same statement. A vanished cursor row makes
		// the subquery empty which matches no rows.
		tx = tx.Where(
			"(posts.posted_at, posts.id) < (SELECT cur.posted_at, cur.id FROM posts cur WHERE cur.id = ?)",
			*query.Cursor,
		)
	}

	var rows []PostRow
	if err := tx.
		Order("posts.posted_at DESC, posts.id DESC").
		Limit(query.Limit).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query post page")
	}
	return rows, nil
}

func (a *GormAccessor) FindPostRows(ctx context.Context, postID string, viewerID string) ([]PostRow, error) {
	// No LIMIT here: a duplicated authorship row fans the join out into
	// extra rows, and the caller decides what a cardinality above one means.
	var rows []PostRow
	err := a.db.WithContext(ctx).Model(&model.Post{}).
		Select(baseSelect+viewerSelect, viewerID).
		Joins("LEFT JOIN post_authors ON post_authors.post_id = posts.id").
		Joins("LEFT JOIN users ON users.id = post_authors.user_id").
		Where("posts.id = ?", postID).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query post detail rows")
	}
	return rows, nil
}

func (a *GormAccessor) FindComments(ctx context.Context, postID string) ([]CommentRow, error) {
	var rows []CommentRow
	err := a.db.WithContext(ctx).Model(&model.Comment{}).
		Select(`comments.id, comments.post_id, comments.user_id, comments.body, comments.commented_at,
			users.nick_name, users.user_img_url`).
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.commented_at ASC, comments.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query comments")
	}
	return rows, nil
}

func (a *GormAccessor) CountFavorites(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count favorites")
	}
	return count, nil
}

func (a *GormAccessor) CountComments(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count comments")
	}
	return count, nil
}

// FavoriteExists is an existence check on the unique (user, post) pair, never
// a count threshold.
func (a *GormAccessor) FavoriteExists(ctx context.Context, userID string, postID string) (bool, error) {
	var exists bool
	err := a.db.WithContext(ctx).
		Raw("SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = ? AND post_id = ?)", userID, postID).
		Scan(&exists).Error
	if err != nil {
		return false, errors.Wrap(err, "check favorite existence")
	}
	return exists, nil
}
