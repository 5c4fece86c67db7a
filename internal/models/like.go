package models

import "time"

// PostLike marks that a user likes a post. The composite primary key is
// the uniqueness constraint that arbitrates concurrent toggles: existence
// means "liked", absence means "not liked".
type PostLike struct {
	PostID    int64     `gorm:"primaryKey;column:post_id"`
	UserID    int64     `gorm:"primaryKey;column:user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for PostLike
func (PostLike) TableName() string {
	return "post_likes"
}
