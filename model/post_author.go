package model

import "time"

/*

PostAuthor is the ownership link between a post and the user who published it

PostID: post id
UserID: user id
CreatedAt: time when relation is created

Kept as an explicit join row. Every post must have exactly one PostAuthor;
reads treat a post without one as a broken invariant, not as an anonymous
post.

*/

type PostAuthor struct {
	PostID    string `gorm:"primaryKey"`
	UserID    string `gorm:"primaryKey;index"`
	CreatedAt time.Time
}
