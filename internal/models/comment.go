package models

import (
	"database/sql"
	"time"
)

// Comment belongs to exactly one post and one user
type Comment struct {
	ID        int64        `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    int64        `gorm:"not null;index;column:post_id"`
	UserID    int64        `gorm:"not null;index;column:user_id"`
	Content   string       `gorm:"type:text;not null;column:content"`
	DeletedAt sql.NullTime `gorm:"column:deleted_at"`
	CreatedAt time.Time    `gorm:"not null;index:comments_created_at_id_ix,priority:1;column:created_at"`
	UpdatedAt time.Time    `gorm:"not null;column:updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID"`
	Post Post `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
