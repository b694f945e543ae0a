package model

import "time"

/*

Favorite is a user's "like" mark on a post

UserID: user id
PostID: post id
CreatedAt: time when relation is created

The composite primary key enforces at most one Favorite per (user, post)
pair. Whether a viewer favorited a post is an existence check on this row,
never a count comparison.

*/

type Favorite struct {
	UserID    string `gorm:"primaryKey"`
	PostID    string `gorm:"primaryKey;index"`
	CreatedAt time.Time
}
