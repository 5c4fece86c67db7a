package models

import (
	"database/sql"
	"time"
)

// User represents a registered account
type User struct {
	ID              int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Email           string         `gorm:"type:varchar(255);not null;uniqueIndex:users_email_ux;column:email" json:"email"`
	PasswordHash    string         `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	Nickname        string         `gorm:"type:varchar(40);not null;uniqueIndex:users_nickname_ux;column:nickname" json:"nickname"`
	Bio             string         `gorm:"type:varchar(160);not null;default:'';column:bio" json:"bio"`
	ProfileImageURL string         `gorm:"type:varchar(1024);not null;default:'';column:profile_image_url" json:"profileImageUrl"`
	EmailVerifiedAt sql.NullTime   `gorm:"column:email_verified_at" json:"-"`
	CreatedAt       time.Time      `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"not null;column:updated_at" json:"updatedAt"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// EmailVerification is a single-use email verification token
type EmailVerification struct {
	ID        int64        `gorm:"primaryKey;autoIncrement;column:id"`
	Token     string       `gorm:"type:varchar(80);not null;uniqueIndex:email_verifications_token_ux;column:token"`
	UserID    int64        `gorm:"not null;index;column:user_id"`
	ExpiresAt time.Time    `gorm:"not null;column:expires_at"`
	UsedAt    sql.NullTime `gorm:"column:used_at"`
	CreatedAt time.Time    `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for EmailVerification
func (EmailVerification) TableName() string {
	return "email_verifications"
}
