package model

import "time"

/*

User is a registered account

Id: primary key, uuid generated at registration
CreatedAt: time when entity is created
NickName: display name shown next to posts and comments
UserImgUrl: avatar image url
ProfileText: free-form profile description
Email: login identifier, unique
PasswordHash: bcrypt hash, never the raw password

*/

type User struct {
	Id           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	NickName     string
	UserImgUrl   string
	ProfileText  string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
}
