package models

import (
	"database/sql"
	"time"
)

// Post represents a published post. Deletion is a soft delete: DeletedAt
// is set and the row is excluded from every read path.
type Post struct {
	ID          int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID      int64          `gorm:"not null;index;column:user_id"`
	Title       string         `gorm:"type:varchar(255);not null;column:title"`
	Body        string         `gorm:"type:text;not null;column:body"`
	Place       sql.NullString `gorm:"type:varchar(255);column:place"`
	PublishedAt time.Time      `gorm:"not null;index:posts_published_at_id_ix,priority:1;column:published_at"`
	DeletedAt   sql.NullTime   `gorm:"column:deleted_at"`
	CreatedAt   time.Time      `gorm:"not null;column:created_at"`
	UpdatedAt   time.Time      `gorm:"not null;column:updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// PostImage is an ordered image attached to a post
type PostImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id"`
	PostID    int64  `gorm:"not null;index;column:post_id"`
	ImageURL  string `gorm:"type:varchar(1024);not null;column:image_url"`
	SortOrder int    `gorm:"not null;default:0;column:sort_order"`
}

// TableName specifies the table name for PostImage
func (PostImage) TableName() string {
	return "post_images"
}

// Tag is a globally unique tag name
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"type:varchar(64);not null;uniqueIndex:tags_name_ux;column:name"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// PostTag links a post to a tag
type PostTag struct {
	PostID int64 `gorm:"primaryKey;column:post_id"`
	TagID  int64 `gorm:"primaryKey;column:tag_id"`
}

// TableName specifies the table name for PostTag
func (PostTag) TableName() string {
	return "post_tags"
}
