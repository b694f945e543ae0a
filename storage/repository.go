package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/ymatsuda/picfeed/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Write-path repository functions. These are the thin CRUD counterparts of
// the read Accessor; handlers call them directly.

// CreatePost inserts the post and its authorship row in one transaction, so
// a post can never be observed without an author.
func CreatePost(db *gorm.DB, authorID string, imageUrl string, title string, text string) (*model.Post, error) {
	post := model.Post{
		Id:       uuid.New().String(),
		ImageUrl: imageUrl,
		Title:    title,
		Text:     text,
		PostedAt: time.Now(),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return tx.Create(&model.PostAuthor{PostID: post.Id, UserID: authorID}).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "create post")
	}
	return &post, nil
}

// UpdatePost edits a post's content. Only the author can edit.
func UpdatePost(db *gorm.DB, postID string, userID string, imageUrl string, title string, text string) error {
	var authorship model.PostAuthor
	queryResult := db.Where("post_id = ? AND user_id = ?", postID, userID).First(&authorship)
	if queryResult.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return db.Model(&model.Post{}).Where("id = ?", postID).
		Updates(map[string]interface{}{"image_url": imageUrl, "title": title, "text": text}).Error
}

// DeletePost removes a post together with its authorship, comments and
// favorites. Only the author can delete.
func DeletePost(db *gorm.DB, postID string, userID string) error {
	var authorship model.PostAuthor
	queryResult := db.Where("post_id = ? AND user_id = ?", postID, userID).First(&authorship)
	if queryResult.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostAuthor{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", postID).Delete(&model.Post{}).Error
	})
}

func CreateComment(db *gorm.DB, postID string, userID string, body string) (*model.Comment, error) {
	var post model.Post
	queryResult := db.Where("id = ?", postID).First(&post)
	if queryResult.RowsAffected != 1 {
		return nil, gorm.ErrRecordNotFound
	}
	comment := model.Comment{
		Id:          uuid.New().String(),
		PostID:      postID,
		UserID:      userID,
		Body:        body,
		CommentedAt: time.Now(),
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, errors.Wrap(err, "create comment")
	}
	return &comment, nil
}

// DeleteComment removes one comment. Only its author can delete it.
func DeleteComment(db *gorm.DB, commentID string, userID string) error {
	result := db.Where("id = ? AND user_id = ?", commentID, userID).Delete(&model.Comment{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete comment")
	}
	if result.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PutFavorite marks a post as favorited by a user. The composite primary key
// on favorites makes repeated puts idempotent.
func PutFavorite(db *gorm.DB, userID string, postID string) error {
	var post model.Post
	queryResult := db.Where("id = ?", postID).First(&post)
	if queryResult.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	favorite := model.Favorite{UserID: userID, PostID: postID}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error
}

// DeleteFavorite removes the mark. Deleting a mark that was never set is not
// an error.
func DeleteFavorite(db *gorm.DB, userID string, postID string) error {
	return db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Favorite{}).Error
}

func CreateUser(db *gorm.DB, nickName string, email string, passwordHash string, userImgUrl string, profileText string) (*model.User, error) {
	user := model.User{
		Id:           uuid.New().String(),
		NickName:     nickName,
		Email:        email,
		PasswordHash: passwordHash,
		UserImgUrl:   userImgUrl,
		ProfileText:  profileText,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return &user, nil
}

func GetUser(db *gorm.DB, userID string) (*model.User, error) {
	var user model.User
	queryResult := db.Where("id = ?", userID).First(&user)
	if queryResult.RowsAffected != 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func GetUserByEmail(db *gorm.DB, email string) (*model.User, error) {
	var user model.User
	queryResult := db.Where("email = ?", email).First(&user)
	if queryResult.RowsAffected != 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func UpdateUser(db *gorm.DB, userID string, nickName string, userImgUrl string, profileText string) error {
	result := db.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"nick_name": nickName, "user_img_url": userImgUrl, "profile_text": profileText})
	if result.Error != nil {
		return errors.Wrap(result.Error, "update user")
	}
	if result.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
