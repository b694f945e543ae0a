package model

import "time"

/*

Comment is a remark left on a post

Id: primary key, uuid generated at creation
PostID: post the comment belongs to
UserID: commenting user
Body: comment content in plain text
CommentedAt: time the comment was made, detail view ordering key

*/

type Comment struct {
	Id          string `gorm:"primaryKey"`
	PostID      string `gorm:"index"`
	UserID      string
	Body        string
	CommentedAt time.Time
}
