package model

import (
	"time"
)

/*

Post is a single published photo post

Id: primary key, uuid generated at creation time
CreatedAt: time when entity is created
PostedAt: time the post was published, feed ordering key

ImageUrl: url of the uploaded image
Title: post's title in plain text
Text: post's body in plain text

Author is reached through the PostAuthor join row, every post must have
exactly one. Favorites and comments reference the post by id.

*/

type Post struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	ImageUrl  string
	Title     string
	Text      string
	PostedAt  time.Time `gorm:"index"`
}
