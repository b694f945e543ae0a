package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/ymatsuda/picfeed/model"
	"github.com/ymatsuda/picfeed/utils"
	"github.com/ymatsuda/picfeed/utils/dotenv"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

func seedUser(t *testing.T, db *gorm.DB, nickName string) string {
	t.Helper()
	user := model.User{
		Id:       uuid.New().String(),
		NickName: nickName,
		Email:    nickName + "@example.com",
	}
	require.NoError(t, db.Create(&user).Error)
	return user.Id
}

func seedPost(t *testing.T, db *gorm.DB, authorID string, postedAt time.Time) string {
	t.Helper()
	post := model.Post{
		Id:       uuid.New().String(),
		Title:    "post at " + postedAt.String(),
		PostedAt: postedAt,
	}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&model.PostAuthor{PostID: post.Id, UserID: authorID}).Error)
	return post.Id
}

func TestFindPostPageBundlesAggregates(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	accessor := NewGormAccessor(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	base := time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	p1 := seedPost(t, db, alice, base.Add(2*time.Second))
	p2 := seedPost(t, db, alice, base.Add(1*time.Second))

	require.NoError(t, PutFavorite(db, bob, p1))
	_, err := CreateComment(db, p1, bob, "nice shot")
	require.NoError(t, err)
	_, err = CreateComment(db, p1, alice, "thanks!")
	require.NoError(t, err)

	rows, err := accessor.FindPostPage(ctx, PostPageQuery{ViewerID: &bob, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, p1, rows[0].Id)
	require.Equal(t, int64(1), rows[0].FavoriteCount)
	require.Equal(t, int64(2), rows[0].CommentCount)
	require.NotNil(t, rows[0].ViewerHasFavorited)
	require.True(t, *rows[0].ViewerHasFavorited)
	require.NotNil(t, rows[0].AuthorID)
	require.Equal(t, alice, *rows[0].AuthorID)
	require.Equal(t, "alice", *rows[0].AuthorNickName)

	require.Equal(t, p2, rows[1].Id)
	require.Equal(t, int64(0), rows[1].FavoriteCount)
	require.NotNil(t, rows[1].ViewerHasFavorited)
	require.False(t, *rows[1].ViewerHasFavorited)
}

func TestFindPostPageAnonymousHasNoViewerFlag(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	accessor := NewGormAccessor(db)

	alice := seedUser(t, db, "alice")
	seedPost(t, db, alice, time.Now())

	rows, err := accessor.FindPostPage(context.Background(), PostPageQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].ViewerHasFavorited)
}

func TestFindPostPageSeekPagination(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	accessor := NewGormAccessor(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	base := time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	// Identical timestamps force the id tie-break.
	for i := 0; i < 7; i++ {
		seedPost(t, db, alice, base.Add(time.Duration(i/2)*time.Second))
	}

	seen := map[string]bool{}
	var cursor *string
	for {
		query := PostPageQuery{Limit: 3, Cursor: cursor}
		rows, err := accessor.FindPostPage(ctx, query)
		require.NoError(t, err)
		for _, row := range rows {
			require.Falsef(t, seen[row.Id], "row %s returned twice", row.Id)
			seen[row.Id] = true
		}
		if len(rows) < 3 {
			break
		}
		last := rows[len(rows)-1].Id
		cursor = &last
	}
	require.Equal(t, 7, len(seen))
}

func TestFindPostPageUserScope(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	accessor := NewGormAccessor(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedPost(t, db, alice, time.Now())
	seedPost(t, db, bob, time.Now().Add(time.Second))

	rows, err := accessor.FindPostPage(ctx, PostPageQuery{AuthorID: &alice, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, alice, *rows[0].AuthorID)

	missing := "nonexistent-user"
	rows, err = accessor.FindPostPage(ctx, PostPageQuery{AuthorID: &missing, Limit: 10})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestFindPostRowAndComments(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	accessor := NewGormAccessor(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	postID := seedPost(t, db, alice, time.Now())

	first, err := CreateComment(db, postID, bob, "first")
	require.NoError(t, err)
	second, err := CreateComment(db, postID, alice, "second")
	require.NoError(t, err)

	rows, err := accessor.FindPostRows(ctx, postID, bob)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(2), rows[0].CommentCount)

	comments, err := accessor.FindComments(ctx, postID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, first.Id, comments[0].Id)
	require.Equal(t, "bob", comments[0].NickName)
	require.Equal(t, second.Id, comments[1].Id)

	rows, err = accessor.FindPostRows(ctx, "missing-post", bob)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestFindPostRowsReportsAuthorshipFanOut(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	accessor := NewGormAccessor(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	postID := seedPost(t, db, alice, time.Now())
	// The composite key admits a second authorship row for the same post.
	require.NoError(t, db.Create(&model.PostAuthor{PostID: postID, UserID: bob}).Error)

	rows, err := accessor.FindPostRows(ctx, postID, bob)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, postID, rows[0].Id)
	require.Equal(t, postID, rows[1].Id)
}

func TestPutFavoriteIsIdempotent(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	accessor := NewGormAccessor(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	postID := seedPost(t, db, alice, time.Now())

	require.NoError(t, PutFavorite(db, alice, postID))
	require.NoError(t, PutFavorite(db, alice, postID))

	count, err := accessor.CountFavorites(ctx, postID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	exists, err := accessor.FavoriteExists(ctx, alice, postID)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, DeleteFavorite(db, alice, postID))
	exists, err = accessor.FavoriteExists(ctx, alice, postID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestWritePathOwnership(t *testing.T) {
	db, _ := utils.CreateTempDB(t)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	postID := seedPost(t, db, alice, time.Now())

	err := UpdatePost(db, postID, bob, "", "hijacked", "")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = DeletePost(db, postID, bob)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, UpdatePost(db, postID, alice, "", "edited", "edited text"))
	require.NoError(t, DeletePost(db, postID, alice))

	var count int64
	require.NoError(t, db.Model(&model.Post{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestDeletePostCleansRelations(t *testing.T) {
	db, _ := utils.CreateTempDB(t)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	postID := seedPost(t, db, alice, time.Now())
	require.NoError(t, PutFavorite(db, bob, postID))
	_, err := CreateComment(db, postID, bob, "soon gone")
	require.NoError(t, err)

	require.NoError(t, DeletePost(db, postID, alice))

	for _, m := range []interface{}{&model.Comment{}, &model.Favorite{}, &model.PostAuthor{}} {
		var count int64
		require.NoError(t, db.Model(m).Where("post_id = ?", postID).Count(&count).Error)
		require.Equal(t, int64(0), count, fmt.Sprintf("%T rows left behind", m))
	}
}
